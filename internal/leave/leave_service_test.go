package leave_test

import (
	"context"
	"testing"
	"time"

	autherrors "attendly/internal/auth/errors"
	"attendly/internal/leave"
	leaveerrors "attendly/internal/leave/errors"
	leaveMock "attendly/internal/leave/mock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupServiceTest(t *testing.T) (leave.Service, *leaveMock.MockRepository) {
	ctrl := gomock.NewController(t)
	repo := leaveMock.NewMockRepository(ctrl)
	return leave.NewService(repo), repo
}

func TestCreate_Validation(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	cases := []struct {
		name string
		req  leave.CreateLeaveRequest
		want error
	}{
		{
			name: "missing type",
			req:  leave.CreateLeaveRequest{StartDate: "2026-09-01", EndDate: "2026-09-03"},
			want: leaveerrors.ErrMissingFields,
		},
		{
			name: "missing dates",
			req:  leave.CreateLeaveRequest{Type: leave.TypeSick},
			want: leaveerrors.ErrMissingFields,
		},
		{
			name: "unknown type",
			req:  leave.CreateLeaveRequest{Type: "sabbatical", StartDate: "2026-09-01", EndDate: "2026-09-03"},
			want: leaveerrors.ErrInvalidLeaveType,
		},
		{
			name: "malformed start date",
			req:  leave.CreateLeaveRequest{Type: leave.TypeCasual, StartDate: "01-09-2026", EndDate: "2026-09-03"},
			want: leaveerrors.ErrInvalidDate,
		},
		{
			name: "end before start",
			req:  leave.CreateLeaveRequest{Type: leave.TypePaid, StartDate: "2026-09-03", EndDate: "2026-09-01"},
			want: leaveerrors.ErrInvalidDateRange,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := setupServiceTest(t)
			_, err := svc.Create(ctx, userID, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	t.Run("bad caller id", func(t *testing.T) {
		svc, _ := setupServiceTest(t)
		_, err := svc.Create(ctx, "not-a-uuid", leave.CreateLeaveRequest{
			Type:      leave.TypeSick,
			StartDate: "2026-09-01",
			EndDate:   "2026-09-03",
		})
		assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
	})
}

func TestCreate_SubmitsPending(t *testing.T) {
	svc, repo := setupServiceTest(t)
	userID := uuid.New()

	repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, l *leave.Leave) error {
			assert.Equal(t, userID, l.UserID)
			assert.Equal(t, leave.TypeSick, l.Type)
			assert.Equal(t, leave.StatusPending, l.Status)
			assert.Equal(t, "flu", l.Reason)
			l.ID = uuid.New()
			l.CreatedAt = time.Now()
			return nil
		})

	resp, err := svc.Create(context.Background(), userID.String(), leave.CreateLeaveRequest{
		Type:      leave.TypeSick,
		StartDate: "2026-09-01",
		EndDate:   "2026-09-03",
		Reason:    "flu",
	})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusPending, resp.Status)
	assert.Equal(t, "2026-09-01", resp.StartDate)
	assert.Equal(t, "2026-09-03", resp.EndDate)
}

func TestHistory_MapsRows(t *testing.T) {
	svc, repo := setupServiceTest(t)
	userID := uuid.New()

	rows := []leave.Leave{
		{
			ID:        uuid.New(),
			UserID:    userID,
			Type:      leave.TypePaid,
			StartDate: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 7, 5, 0, 0, 0, 0, time.UTC),
			Status:    leave.StatusApproved,
			CreatedAt: time.Date(2026, 6, 20, 10, 30, 0, 0, time.UTC),
		},
	}
	repo.EXPECT().
		FindAllByUser(gomock.Any(), userID.String()).
		Return(rows, nil)

	resp, err := svc.History(context.Background(), userID.String())
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, leave.StatusApproved, resp[0].Status)
	assert.Equal(t, "2026-07-01", resp[0].StartDate)
	assert.Equal(t, "2026-06-20 10:30:00", resp[0].CreatedAt)
}
