package leave

import (
	"context"
	"time"

	autherrors "attendly/internal/auth/errors"
	leaveerrors "attendly/internal/leave/errors"
	"attendly/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, userID string, req CreateLeaveRequest) (LeaveResponse, error)
	History(ctx context.Context, userID string) ([]LeaveResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{repo: repo, logger: l}
}

// Create files a new request in pending state. Approval lives in a separate
// workflow; nothing here ever transitions the status.
func (s *service) Create(ctx context.Context, userID string, req CreateLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if req.Type == "" || req.StartDate == "" || req.EndDate == "" {
		return LeaveResponse{}, leaveerrors.ErrMissingFields
	}
	if !IsValidType(req.Type) {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveType
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDate
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDate
	}
	if end.Before(start) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return LeaveResponse{}, autherrors.ErrInvalidToken
	}

	l := &Leave{
		UserID:    uid,
		Type:      req.Type,
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
		Status:    StatusPending,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		s.logger.Warn("leave request failed",
			zap.String("request_id", rid),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	s.logger.Info("leave request submitted",
		zap.String("request_id", rid),
		zap.String("user_id", userID),
		zap.String("type", req.Type),
	)
	return mapToResponse(*l), nil
}

func (s *service) History(ctx context.Context, userID string) ([]LeaveResponse, error) {
	rows, err := s.repo.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]LeaveResponse, 0, len(rows))
	for _, l := range rows {
		out = append(out, mapToResponse(l))
	}
	return out, nil
}

func mapToResponse(l Leave) LeaveResponse {
	return LeaveResponse{
		ID:        l.ID.String(),
		Type:      l.Type,
		StartDate: l.StartDate.Format("2006-01-02"),
		EndDate:   l.EndDate.Format("2006-01-02"),
		Reason:    l.Reason,
		Status:    l.Status,
		CreatedAt: l.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
