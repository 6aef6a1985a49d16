package employeeattendance

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	autherrors "attendly/internal/auth/errors"
	"attendly/internal/employee"
	employeeerrors "attendly/internal/employee/errors"
	eaerrors "attendly/internal/employeeattendance/errors"
	"attendly/internal/events"
	"attendly/internal/messaging/kafka"
	"attendly/internal/shared/contextutil"
	"attendly/internal/user"
	usererrors "attendly/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Mark(ctx context.Context, callerUserID string, req MarkRequest) (MarkResponse, error)
	List(ctx context.Context, callerUserID string, limit int) ([]RecordResponse, error)
	ListByDate(ctx context.Context, callerUserID string, date string) ([]RecordResponse, error)
}

type service struct {
	db        *gorm.DB
	repo      Repository
	employees employee.Repository
	users     user.Repository
	resolver  *Resolver
	outbox    kafka.OutboxRepository
	logger    *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	employees employee.Repository,
	users user.Repository,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employeeattendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employeeattendance.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		users:     users,
		resolver:  NewResolver(employees),
		outbox:    outbox,
		logger:    l,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// parseClockOn interprets an HH:MM:SS override against the given day in
// local time; an empty override falls back to now.
func parseClockOn(day time.Time, override string, now time.Time) (time.Time, error) {
	if override == "" {
		return now, nil
	}
	clock, err := time.Parse("15:04:05", override)
	if err != nil {
		return time.Time{}, eaerrors.ErrInvalidTime
	}
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0,
		day.Location(),
	), nil
}

func isKnownStatus(status string) bool {
	return employee.IsMarkableStatus(status) || status == employee.StatusCheckedOut
}

// Mark runs the whole daily state machine inside one transaction: load the
// caller, verify the employee record belongs to them, then apply check-in or
// check-out against today's row. A concurrent first check-in for the same day
// loses the race on the unique index and gets a conflict instead of a second
// row.
func (s *service) Mark(ctx context.Context, callerUserID string, req MarkRequest) (MarkResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	action := req.Action
	if action == "" {
		action = ActionCheckIn
	}
	if action != ActionCheckIn && action != ActionCheckOut {
		return MarkResponse{}, eaerrors.ErrInvalidAction
	}
	if action == ActionCheckIn && req.Status == "" {
		return MarkResponse{}, eaerrors.ErrStatusRequired
	}
	if req.Status != "" && !isKnownStatus(req.Status) {
		return MarkResponse{}, eaerrors.ErrInvalidStatus
	}

	callerID, err := uuid.Parse(callerUserID)
	if err != nil {
		return MarkResponse{}, autherrors.ErrInvalidToken
	}
	caller, err := s.users.FindByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return MarkResponse{}, usererrors.ErrUserNotFound
		}
		return MarkResponse{}, err
	}

	empl, err := s.employees.FindByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return MarkResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return MarkResponse{}, err
	}

	// Admins get no exception here: the employee record's email must match
	// the caller's own account email.
	if normalizeEmail(empl.Email) != normalizeEmail(caller.Email) {
		s.logger.Warn("attendance marking rejected, record belongs to someone else",
			zap.String("request_id", rid),
			zap.String("caller_user_id", callerUserID),
			zap.String("employee_id", req.EmployeeID),
		)
		return MarkResponse{}, eaerrors.ErrNotYourAttendance
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var finalStatus string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)
		qemployees := s.employees.WithTx(tx)

		existing, err := qtx.FindByEmployeeAndDate(ctx, req.EmployeeID, today)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		hasRecord := err == nil

		if action == ActionCheckOut {
			if !hasRecord {
				return eaerrors.ErrNoCheckInToday
			}
			at, err := parseClockOn(today, req.CheckOut, now)
			if err != nil {
				return err
			}
			existing.CheckOut = &at
			existing.Status = employee.StatusCheckedOut
			if err := qtx.Update(ctx, existing); err != nil {
				return err
			}
			finalStatus = employee.StatusCheckedOut
		} else {
			at, err := parseClockOn(today, req.CheckIn, now)
			if err != nil {
				return err
			}
			if hasRecord {
				if err := validateTransition(existing.Status, req.Status); err != nil {
					return err
				}
				existing.Status = req.Status
				existing.CheckIn = &at
				if err := qtx.Update(ctx, existing); err != nil {
					return err
				}
			} else {
				rec := &Record{
					EmployeeID:   empl.ID,
					EmployeeName: empl.Name,
					Date:         today,
					CheckIn:      &at,
					Status:       req.Status,
				}
				if err := qtx.Create(ctx, rec); err != nil {
					return mapUniqueViolation(err)
				}
			}
			finalStatus = req.Status
		}

		// The employees.status column mirrors the latest daily outcome so
		// list views do not need a join.
		if err := qemployees.UpdateStatus(ctx, req.EmployeeID, finalStatus); err != nil {
			return err
		}

		if s.outbox != nil {
			event := events.AttendanceMarkedEvent{
				EventType:  "attendance_marked",
				RequestID:  rid,
				EmployeeID: req.EmployeeID,
				Date:       today.Format("2006-01-02"),
				Action:     action,
				Status:     finalStatus,
				OccurredAt: time.Now().UTC(),
			}
			payload, err := json.Marshal(event)
			if err != nil {
				return err
			}
			if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
				ID:            uuid.NewString(),
				RequestID:     rid,
				AggregateType: "employee_attendance",
				AggregateID:   req.EmployeeID,
				EventType:     event.EventType,
				Topic:         events.AttendanceMarkedTopic,
				Payload:       payload,
				Status:        kafka.OutboxStatusPending,
			}); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return MarkResponse{}, err
	}

	s.logger.Info("attendance marked",
		zap.String("request_id", rid),
		zap.String("employee_id", req.EmployeeID),
		zap.String("action", action),
		zap.String("status", finalStatus),
	)

	return MarkResponse{
		EmployeeID: req.EmployeeID,
		Date:       today.Format("2006-01-02"),
		Status:     finalStatus,
	}, nil
}

// List returns the newest records first. Admins see everyone; other callers
// see only the records of the employee record resolved from their account,
// and an empty list when no record resolves.
func (s *service) List(ctx context.Context, callerUserID string, limit int) ([]RecordResponse, error) {
	if limit <= 0 {
		limit = defaultRecordLimit
	}

	caller, err := s.loadCaller(ctx, callerUserID)
	if err != nil {
		return nil, err
	}

	if caller.IsAdmin {
		rows, err := s.repo.FindAll(ctx, limit)
		if err != nil {
			return nil, err
		}
		return mapToRecordResponses(rows), nil
	}

	empl, err := s.resolver.Resolve(ctx, caller)
	if err != nil {
		return nil, err
	}
	if empl == nil {
		s.logger.Debug("no employee record resolved for caller",
			zap.String("caller_user_id", callerUserID),
		)
		return []RecordResponse{}, nil
	}

	rows, err := s.repo.FindAllByEmployee(ctx, empl.ID.String(), limit)
	if err != nil {
		return nil, err
	}
	return mapToRecordResponses(rows), nil
}

func (s *service) ListByDate(ctx context.Context, callerUserID string, date string) ([]RecordResponse, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, eaerrors.ErrInvalidDate
	}

	caller, err := s.loadCaller(ctx, callerUserID)
	if err != nil {
		return nil, err
	}

	if caller.IsAdmin {
		rows, err := s.repo.FindByDate(ctx, day)
		if err != nil {
			return nil, err
		}
		return mapToRecordResponses(rows), nil
	}

	empl, err := s.resolver.Resolve(ctx, caller)
	if err != nil {
		return nil, err
	}
	if empl == nil {
		return []RecordResponse{}, nil
	}

	rows, err := s.repo.FindByDateAndEmployee(ctx, day, empl.ID.String())
	if err != nil {
		return nil, err
	}
	return mapToRecordResponses(rows), nil
}

func (s *service) loadCaller(ctx context.Context, callerUserID string) (*user.User, error) {
	callerID, err := uuid.Parse(callerUserID)
	if err != nil {
		return nil, autherrors.ErrInvalidToken
	}
	caller, err := s.users.FindByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usererrors.ErrUserNotFound
		}
		return nil, err
	}
	return caller, nil
}

const defaultRecordLimit = 500

func formatClock(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("15:04")
}

func mapToRecordResponse(r Record) RecordResponse {
	checkIn := formatClock(r.CheckIn)
	if r.CheckIn == nil {
		checkIn = ""
	}
	return RecordResponse{
		ID:           r.ID.String(),
		EmployeeID:   r.EmployeeID.String(),
		EmployeeName: r.EmployeeName,
		Date:         r.Date.Format("2006-01-02"),
		CheckIn:      checkIn,
		CheckOut:     formatClock(r.CheckOut),
		Status:       r.Status,
	}
}

func mapToRecordResponses(rows []Record) []RecordResponse {
	out := make([]RecordResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, mapToRecordResponse(r))
	}
	return out
}
