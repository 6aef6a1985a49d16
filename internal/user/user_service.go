package user

import (
	"context"
	"errors"

	usererrors "attendly/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EmployeeDirectory resolves the employee record logically linked to a user
// account (matched by email, not a strict foreign key).
type EmployeeDirectory interface {
	FindIDByEmail(ctx context.Context, email string) (string, error)
}

type Service interface {
	GetProfile(ctx context.Context, userID string) (ProfileResponse, error)
	GetInfo(ctx context.Context, userID string) (UserInfoResponse, error)
}

type service struct {
	repo      Repository
	directory EmployeeDirectory
	logger    *zap.Logger
}

func NewService(repo Repository, directory EmployeeDirectory, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{repo: repo, directory: directory, logger: l}
}

func (s *service) GetProfile(ctx context.Context, userID string) (ProfileResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return ProfileResponse{}, usererrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProfileResponse{}, usererrors.ErrUserNotFound
		}
		return ProfileResponse{}, err
	}

	return ProfileResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}

func (s *service) GetInfo(ctx context.Context, userID string) (UserInfoResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return UserInfoResponse{}, usererrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserInfoResponse{}, usererrors.ErrUserNotFound
		}
		return UserInfoResponse{}, err
	}

	info := UserInfoResponse{
		ID:           u.ID.String(),
		Name:         u.Name,
		Email:        u.Email,
		EmployeeCode: u.EmployeeCode,
		IsAdmin:      u.IsAdmin,
	}

	employeeID, err := s.directory.FindIDByEmail(ctx, u.Email)
	if err != nil {
		s.logger.Warn("employee record lookup failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return info, nil
	}
	if employeeID != "" {
		info.EmployeeRecordID = &employeeID
	}

	return info, nil
}
