package attendance_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"attendly/internal/attendance"
	attendanceerrors "attendly/internal/attendance/errors"
	attendanceMock "attendly/internal/attendance/mock"
	"attendly/internal/employee"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   attendance.Service
	repo      *attendanceMock.MockRepository
	redisMock redismock.ClientMock
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	rdb, redisMock := redismock.NewClientMock()
	repo := attendanceMock.NewMockRepository(ctrl)

	return &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   attendance.NewService(gormDB, repo, rdb),
		repo:      repo,
		redisMock: redisMock,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func summaryKeyFor(userID string) string {
	now := time.Now()
	return fmt.Sprintf("attendance:summary:%s:%04d-%02d", userID, now.Year(), int(now.Month()))
}

func TestCheckIn(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate same day", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		userID := uuid.New()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			FindByUserAndDate(gomock.Any(), userID.String(), gomock.Any()).
			Return(&attendance.Attendance{UserID: userID}, nil)

		_, err := deps.service.CheckIn(ctx, userID.String(), attendance.CheckInRequest{})
		assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyCheckedIn)
	})

	t.Run("bad time override", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.CheckIn(ctx, uuid.New().String(), attendance.CheckInRequest{Time: "nine"})
		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidTime)
	})

	t.Run("success defaults location", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		userID := uuid.New()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			FindByUserAndDate(gomock.Any(), userID.String(), gomock.Any()).
			Return(nil, gorm.ErrRecordNotFound)
		deps.repo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, a *attendance.Attendance) error {
				assert.Equal(t, userID, a.UserID)
				assert.Equal(t, "Office", a.Location)
				assert.Equal(t, employee.StatusPresent, a.Status)
				require.NotNil(t, a.CheckIn)
				return nil
			})
		deps.redisMock.ExpectDel(summaryKeyFor(userID.String())).SetVal(1)

		resp, err := deps.service.CheckIn(ctx, userID.String(), attendance.CheckInRequest{Time: "09:15:00"})
		require.NoError(t, err)
		assert.Equal(t, "09:15:00", resp.CheckInTime)
	})
}

func TestCheckOut(t *testing.T) {
	ctx := context.Background()

	t.Run("requires check-in", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		userID := uuid.New()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			FindByUserAndDate(gomock.Any(), userID.String(), gomock.Any()).
			Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.CheckOut(ctx, userID.String(), attendance.CheckOutRequest{})
		assert.ErrorIs(t, err, attendanceerrors.ErrNoCheckInRecord)
	})

	t.Run("derives worked duration", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		userID := uuid.New()

		now := time.Now()
		checkIn := time.Date(now.Year(), now.Month(), now.Day(), 9, 0, 0, 0, now.Location())
		row := &attendance.Attendance{UserID: userID, CheckIn: &checkIn, Status: employee.StatusPresent}

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			FindByUserAndDate(gomock.Any(), userID.String(), gomock.Any()).
			Return(row, nil)
		deps.repo.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, a *attendance.Attendance) error {
				require.NotNil(t, a.CheckOut)
				require.NotNil(t, a.DurationHours)
				assert.InDelta(t, 8.5, *a.DurationHours, 0.001)
				return nil
			})
		deps.redisMock.ExpectDel(summaryKeyFor(userID.String())).SetVal(1)

		resp, err := deps.service.CheckOut(ctx, userID.String(), attendance.CheckOutRequest{Time: "17:30:00"})
		require.NoError(t, err)
		assert.Equal(t, "17:30:00", resp.CheckOutTime)
	})
}

func TestSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("cache miss computes percentage", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		userID := uuid.New().String()
		key := summaryKeyFor(userID)

		now := time.Now()
		counts := attendance.MonthlyCounts{PresentDays: 18, LateDays: 2, AbsentDays: 2, TotalDays: 22}

		deps.redisMock.ExpectGet(key).RedisNil()
		deps.repo.EXPECT().
			MonthlyCounts(gomock.Any(), userID, now.Year(), now.Month()).
			Return(counts, nil)
		deps.redisMock.Regexp().ExpectSet(key, `.*`, 15*time.Minute).SetVal("OK")

		resp, err := deps.service.Summary(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 18, resp.PresentDays)
		assert.Equal(t, 2, resp.LateDays)
		assert.Equal(t, 2, resp.AbsentDays)
		assert.InDelta(t, 81.82, resp.AttendancePercentage, 0.001)
	})

	t.Run("cache hit skips storage", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		userID := uuid.New().String()
		key := summaryKeyFor(userID)

		cached, err := json.Marshal(attendance.SummaryResponse{
			PresentDays:          10,
			AttendancePercentage: 100,
		})
		require.NoError(t, err)
		deps.redisMock.ExpectGet(key).SetVal(string(cached))

		resp, err := deps.service.Summary(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 10, resp.PresentDays)
		assert.Equal(t, float64(100), resp.AttendancePercentage)
	})

	t.Run("empty month yields zero percentage", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		userID := uuid.New().String()
		key := summaryKeyFor(userID)

		now := time.Now()
		deps.redisMock.ExpectGet(key).RedisNil()
		deps.repo.EXPECT().
			MonthlyCounts(gomock.Any(), userID, now.Year(), now.Month()).
			Return(attendance.MonthlyCounts{}, nil)
		deps.redisMock.Regexp().ExpectSet(key, `.*`, 15*time.Minute).SetVal("OK")

		resp, err := deps.service.Summary(ctx, userID)
		require.NoError(t, err)
		assert.Zero(t, resp.AttendancePercentage)
	})
}

func TestRecords_LimitedToRecent(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	userID := uuid.New()
	checkIn := time.Date(2026, 8, 28, 9, 0, 0, 0, time.Local)
	rows := []attendance.Attendance{
		{
			UserID:   userID,
			Date:     time.Date(2026, 8, 28, 0, 0, 0, 0, time.Local),
			CheckIn:  &checkIn,
			Status:   employee.StatusPresent,
			Location: "Office",
		},
	}

	deps.repo.EXPECT().
		FindRecentByUser(gomock.Any(), userID.String(), 30).
		Return(rows, nil)

	resp, err := deps.service.Records(context.Background(), userID.String())
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, "09:00", resp[0].CheckIn)
	assert.Equal(t, "-", resp[0].CheckOut)
	assert.Equal(t, "Office", resp[0].Location)
}
