package dashboard

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Service interface {
	Stats(ctx context.Context, userID string) (Stats, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("dashboard.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dashboard.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Stats(ctx context.Context, userID string) (Stats, error) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats, err := s.repo.Stats(ctx, userID, today)
	if err != nil {
		s.logger.Error("dashboard stats failed", zap.Error(err))
		return Stats{}, err
	}
	return stats, nil
}
