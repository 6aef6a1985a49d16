package auth

import (
	"context"
	"errors"

	autherrors "attendly/internal/auth/errors"
	"attendly/internal/user"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service interface {
	Signup(ctx context.Context, req SignupRequest) (UserSummary, error)
	Login(ctx context.Context, req LoginRequest) (token string, summary UserSummary, err error)
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
}

type service struct {
	db     *gorm.DB
	repo   user.Repository
	tokens *TokenService
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo user.Repository, tokens *TokenService, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{db: db, repo: repo, tokens: tokens, logger: l}
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

func (s *service) Signup(ctx context.Context, req SignupRequest) (UserSummary, error) {
	s.logger.Debug("signup requested",
		zap.String("email", req.Email),
		zap.String("employee_code", req.EmployeeCode),
	)

	// Code format is rejected before any persistence write.
	if !isSixDigitCode(req.EmployeeCode) {
		return UserSummary{}, autherrors.ErrInvalidEmployeeCode
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserSummary{}, err
	}

	var created *user.User
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		if _, err := qtx.FindByEmail(ctx, req.Email); err == nil {
			return autherrors.ErrEmailAlreadyRegistered
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if _, err := qtx.FindByEmployeeCode(ctx, req.EmployeeCode); err == nil {
			return autherrors.ErrEmployeeCodeTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		code := req.EmployeeCode
		created = &user.User{
			Name:         req.Name,
			Email:        req.Email,
			Password:     string(hashed),
			EmployeeCode: &code,
		}
		return qtx.Create(ctx, created)
	})
	if err != nil {
		s.logger.Warn("signup failed", zap.String("email", req.Email), zap.Error(err))
		return UserSummary{}, mapUniqueViolation(err)
	}

	s.logger.Info("signup success",
		zap.String("user_id", created.ID.String()),
		zap.String("employee_code", req.EmployeeCode),
	)
	return mapToSummary(created), nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (string, UserSummary, error) {
	u, err := s.repo.FindByEmployeeCode(ctx, req.EmployeeCode)
	if err != nil {
		return "", UserSummary{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		return "", UserSummary{}, autherrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u)
	if err != nil {
		return "", UserSummary{}, err
	}

	s.logger.Info("login success", zap.String("user_id", u.ID.String()))
	return token, mapToSummary(u), nil
}

func (s *service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if len(req.NewPassword) < 6 {
		return autherrors.ErrPasswordTooShort
	}

	u, err := s.repo.FindByEmployeeCode(ctx, req.EmployeeCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return autherrors.ErrUnknownEmployeeCode
		}
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, u.ID, string(hashed)); err != nil {
		return err
	}

	s.logger.Info("password reset", zap.String("user_id", u.ID.String()))
	return nil
}

func mapToSummary(u *user.User) UserSummary {
	return UserSummary{
		ID:           u.ID.String(),
		Name:         u.Name,
		Email:        u.Email,
		EmployeeCode: u.EmployeeCode,
		IsAdmin:      u.IsAdmin,
	}
}
