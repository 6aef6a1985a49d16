package employee

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	autherrors "attendly/internal/auth/errors"
	employeeerrors "attendly/internal/employee/errors"
	"attendly/internal/events"
	"attendly/internal/messaging/kafka"
	"attendly/internal/shared/contextutil"
	"attendly/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// defaultInitialPassword is used when the admin creates an employee without
// choosing one; the employee is expected to reset it on first login.
const defaultInitialPassword = "Password123"

type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	List(ctx context.Context, callerUserID string) ([]EmployeeResponse, error)
	ListDeleted(ctx context.Context) ([]EmployeeResponse, error)
	Details(ctx context.Context, id string) (EmployeeDetailsResponse, error)
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, status string) error
}

type service struct {
	db     *gorm.DB
	repo   Repository
	users  user.Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, users user.Repository, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, users, nil, logger...)
}

func NewServiceWithOutbox(
	db *gorm.DB,
	repo Repository,
	users user.Repository,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{db: db, repo: repo, users: users, outbox: outbox, logger: l}
}

func isSixDigitCode(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Create registers the employee record and, when no account exists for the
// email yet, provisions a user account carrying the 6-digit code.
func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("email", req.Email),
		zap.String("department", req.Department),
	)

	if !isSixDigitCode(req.EmployeeCode) {
		return EmployeeResponse{}, autherrors.ErrInvalidEmployeeCode
	}

	var empl *Employee
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)
		qusers := s.users.WithTx(tx)

		// The unique email index covers soft-deleted rows too; re-adding a
		// deleted employee's email surfaces as a conflict rather than a
		// silent reactivation.
		if id, err := qtx.FindIDByEmail(ctx, req.Email); err != nil {
			return err
		} else if id != "" {
			return employeeerrors.ErrEmployeeAlreadyExists
		}

		if _, err := qusers.FindByEmployeeCode(ctx, req.EmployeeCode); err == nil {
			return autherrors.ErrEmployeeCodeTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if _, err := qusers.FindByEmail(ctx, req.Email); errors.Is(err, gorm.ErrRecordNotFound) {
			password := req.Password
			if password == "" {
				password = defaultInitialPassword
			}
			hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			code := req.EmployeeCode
			account := &user.User{
				Name:         req.Name,
				Email:        req.Email,
				Password:     string(hashed),
				EmployeeCode: &code,
			}
			if err := qusers.Create(ctx, account); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		empl = &Employee{
			Name:       req.Name,
			Email:      req.Email,
			Department: req.Department,
			Status:     StatusAbsent,
			IsActive:   true,
		}
		if err := qtx.Create(ctx, empl); err != nil {
			return mapRepositoryError(err)
		}

		if s.outbox != nil {
			event := events.EmployeeCreatedEvent{
				EventType:  "employee_created",
				RequestID:  rid,
				EmployeeID: empl.ID.String(),
				Email:      empl.Email,
				Department: empl.Department,
				OccurredAt: time.Now().UTC(),
			}
			payload, err := json.Marshal(event)
			if err != nil {
				return err
			}
			if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
				ID:            uuid.NewString(),
				RequestID:     rid,
				AggregateType: "employee",
				AggregateID:   empl.ID.String(),
				EventType:     event.EventType,
				Topic:         events.EmployeeCreatedTopic,
				Payload:       payload,
				Status:        kafka.OutboxStatusPending,
			}); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		s.logger.Warn("create employee failed",
			zap.String("request_id", rid),
			zap.String("email", req.Email),
			zap.Error(err),
		)
		return EmployeeResponse{}, err
	}

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
	)
	return mapToResponse(*empl), nil
}

// List is role-scoped: admins see every active employee, everyone else sees
// only the active record matching their own account email.
func (s *service) List(ctx context.Context, callerUserID string) ([]EmployeeResponse, error) {
	callerID, err := uuid.Parse(callerUserID)
	if err != nil {
		return nil, autherrors.ErrInvalidToken
	}

	caller, err := s.users.FindByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []EmployeeResponse{}, nil
		}
		return nil, err
	}

	var rows []Employee
	if caller.IsAdmin {
		rows, err = s.repo.FindAllActive(ctx)
	} else {
		rows, err = s.repo.FindActiveByEmail(ctx, caller.Email)
	}
	if err != nil {
		return nil, err
	}

	return mapToListResponse(rows), nil
}

func (s *service) ListDeleted(ctx context.Context) ([]EmployeeResponse, error) {
	rows, err := s.repo.FindAllDeleted(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) Details(ctx context.Context, id string) (EmployeeDetailsResponse, error) {
	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeDetailsResponse{}, mapRepositoryError(err)
	}

	details := EmployeeDetailsResponse{Employee: mapToResponse(*empl)}

	if account, err := s.users.FindByEmail(ctx, empl.Email); err == nil {
		details.EmployeeCode = account.EmployeeCode
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return EmployeeDetailsResponse{}, err
	}

	stats, err := s.repo.AttendanceStats(ctx, id)
	if err != nil {
		return EmployeeDetailsResponse{}, err
	}
	details.Stats = stats

	return details, nil
}

// Delete flips the active flag and stamps the deletion time; attendance
// history stays referenced, the row is never removed.
func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindActiveByID(ctx, id); err != nil {
		return mapRepositoryError(err)
	}

	if err := s.repo.SoftDelete(ctx, id, time.Now().UTC()); err != nil {
		return err
	}

	s.logger.Info("employee soft deleted", zap.String("employee_id", id))
	return nil
}

func (s *service) UpdateStatus(ctx context.Context, id string, status string) error {
	if !IsMarkableStatus(status) {
		return employeeerrors.ErrInvalidStatus
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return mapRepositoryError(err)
	}

	return s.repo.UpdateStatus(ctx, id, status)
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:         e.ID.String(),
		Name:       e.Name,
		Email:      e.Email,
		Department: e.Department,
		Status:     e.Status,
		IsActive:   e.IsActive,
		CreatedAt:  e.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if e.DeletedAt != nil {
		resp.DeletedAt = e.DeletedAt.Format("2006-01-02 15:04:05")
	}
	return resp
}

func mapToListResponse(rows []Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, len(rows))
	for i, e := range rows {
		resp[i] = mapToResponse(e)
	}
	return resp
}
