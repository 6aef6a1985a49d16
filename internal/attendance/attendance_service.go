package attendance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	attendanceerrors "attendly/internal/attendance/errors"
	"attendly/internal/employee"
	"attendly/internal/shared/contextutil"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	recentRecordsLimit = 30

	summaryKeyPrefix = "attendance:summary:"
	summaryCacheTTL  = 15 * time.Minute
)

func summaryKey(userID string, year int, month time.Month) string {
	return fmt.Sprintf("%s%s:%04d-%02d", summaryKeyPrefix, userID, year, int(month))
}

type Service interface {
	CheckIn(ctx context.Context, userID string, req CheckInRequest) (CheckInResponse, error)
	CheckOut(ctx context.Context, userID string, req CheckOutRequest) (CheckOutResponse, error)
	Records(ctx context.Context, userID string) ([]RecordResponse, error)
	Summary(ctx context.Context, userID string) (SummaryResponse, error)
}

type service struct {
	db     *gorm.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func parseClockOn(day time.Time, override string, now time.Time) (time.Time, error) {
	if override == "" {
		return now, nil
	}
	clock, err := time.Parse("15:04:05", override)
	if err != nil {
		return time.Time{}, attendanceerrors.ErrInvalidTime
	}
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0,
		day.Location(),
	), nil
}

func today(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// CheckIn creates today's record for the caller. A second check-in on the
// same day is rejected; the unique index backs that up under concurrency.
func (s *service) CheckIn(ctx context.Context, userID string, req CheckInRequest) (CheckInResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	now := time.Now()
	day := today(now)

	at, err := parseClockOn(day, req.Time, now)
	if err != nil {
		return CheckInResponse{}, err
	}

	location := req.Location
	if location == "" {
		location = defaultLocation
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		_, err := qtx.FindByUserAndDate(ctx, userID, day)
		if err == nil {
			return attendanceerrors.ErrAlreadyCheckedIn
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		uid, err := parseUserID(userID)
		if err != nil {
			return err
		}
		return qtx.Create(ctx, &Attendance{
			UserID:   uid,
			Date:     day,
			CheckIn:  &at,
			Status:   employee.StatusPresent,
			Location: location,
		})
	})
	if err != nil {
		return CheckInResponse{}, mapUniqueViolation(err)
	}

	s.invalidateSummary(ctx, userID, day)
	s.logger.Info("check-in recorded",
		zap.String("request_id", rid),
		zap.String("user_id", userID),
		zap.String("location", location),
	)

	return CheckInResponse{CheckInTime: at.Format("15:04:05")}, nil
}

// CheckOut stamps the check-out time on today's record and derives the
// worked duration from the stored check-in.
func (s *service) CheckOut(ctx context.Context, userID string, req CheckOutRequest) (CheckOutResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	now := time.Now()
	day := today(now)

	at, err := parseClockOn(day, req.Time, now)
	if err != nil {
		return CheckOutResponse{}, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		row, err := qtx.FindByUserAndDate(ctx, userID, day)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return attendanceerrors.ErrNoCheckInRecord
			}
			return err
		}

		row.CheckOut = &at
		if row.CheckIn != nil {
			hours := at.Sub(*row.CheckIn).Hours()
			if hours < 0 {
				hours = 0
			}
			rounded := math.Round(hours*100) / 100
			row.DurationHours = &rounded
		}
		return qtx.Update(ctx, row)
	})
	if err != nil {
		return CheckOutResponse{}, err
	}

	s.invalidateSummary(ctx, userID, day)
	s.logger.Info("check-out recorded",
		zap.String("request_id", rid),
		zap.String("user_id", userID),
	)

	return CheckOutResponse{CheckOutTime: at.Format("15:04:05")}, nil
}

func (s *service) Records(ctx context.Context, userID string) ([]RecordResponse, error) {
	rows, err := s.repo.FindRecentByUser(ctx, userID, recentRecordsLimit)
	if err != nil {
		return nil, err
	}
	return mapToRecordResponses(rows), nil
}

// Summary aggregates the current calendar month. The result is cached per
// user+month and collapsed through singleflight so a dashboard refresh storm
// costs a single query.
func (s *service) Summary(ctx context.Context, userID string) (SummaryResponse, error) {
	now := time.Now()
	key := summaryKey(userID, now.Year(), now.Month())

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var resp SummaryResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		counts, err := s.repo.MonthlyCounts(ctx, userID, now.Year(), now.Month())
		if err != nil {
			return SummaryResponse{}, err
		}

		resp := SummaryResponse{
			PresentDays: counts.PresentDays,
			LateDays:    counts.LateDays,
			AbsentDays:  counts.AbsentDays,
		}
		if counts.TotalDays > 0 {
			pct := float64(counts.PresentDays) / float64(counts.TotalDays) * 100
			resp.AttendancePercentage = math.Round(pct*100) / 100
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, key, jsonData, summaryCacheTTL)
			}
		}

		return resp, nil
	})
	if err != nil {
		return SummaryResponse{}, err
	}

	return v.(SummaryResponse), nil
}

func (s *service) invalidateSummary(ctx context.Context, userID string, day time.Time) {
	if s.rdb == nil {
		return
	}
	key := summaryKey(userID, day.Year(), day.Month())
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		s.logger.Error("failed to invalidate attendance summary cache",
			zap.Error(err),
			zap.String("key", key),
		)
	}
}

func formatClock(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("15:04")
}

func mapToRecordResponses(rows []Attendance) []RecordResponse {
	out := make([]RecordResponse, 0, len(rows))
	for _, a := range rows {
		out = append(out, RecordResponse{
			Date:          a.Date.Format("2006-01-02"),
			CheckIn:       formatClock(a.CheckIn),
			CheckOut:      formatClock(a.CheckOut),
			DurationHours: a.DurationHours,
			Status:        a.Status,
			Location:      a.Location,
		})
	}
	return out
}
