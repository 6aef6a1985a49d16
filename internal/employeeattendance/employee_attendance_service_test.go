package employeeattendance_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"attendly/internal/employee"
	"attendly/internal/employeeattendance"
	eaerrors "attendly/internal/employeeattendance/errors"
	"attendly/internal/events"
	"attendly/internal/messaging/kafka"
	"attendly/internal/user"

	employeeMock "attendly/internal/employee/mock"
	eaMock "attendly/internal/employeeattendance/mock"
	kafkaMock "attendly/internal/messaging/kafka/mock"
	userMock "attendly/internal/user/mock"

	"github.com/DATA-DOG/go-sqlmock"
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
	service   employeeattendance.Service
	records   *eaMock.MockRepository
	employees *employeeMock.MockRepository
	users     *userMock.MockRepository
	outbox    *kafkaMock.MockOutboxRepository
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

	records := eaMock.NewMockRepository(ctrl)
	employees := employeeMock.NewMockRepository(ctrl)
	users := userMock.NewMockRepository(ctrl)
	outbox := kafkaMock.NewMockOutboxRepository(ctrl)

	svc := employeeattendance.NewService(gormDB, records, employees, users, outbox)

	return &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   svc,
		records:   records,
		employees: employees,
		users:     users,
		outbox:    outbox,
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

func testEmployee(id uuid.UUID, email string) *employee.Employee {
	return &employee.Employee{
		ID:     id,
		Name:   "Jane Doe",
		Email:  email,
		Status: employee.StatusAbsent,
	}
}

func testCaller(id uuid.UUID, email string) *user.User {
	return &user.User{ID: id, Name: "Jane Doe", Email: email}
}

func TestMark_InputValidation(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()
	callerID := uuid.New().String()

	t.Run("check-in without status", func(t *testing.T) {
		_, err := deps.service.Mark(ctx, callerID, employeeattendance.MarkRequest{
			EmployeeID: uuid.New().String(),
			Action:     employeeattendance.ActionCheckIn,
		})
		assert.ErrorIs(t, err, eaerrors.ErrStatusRequired)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := deps.service.Mark(ctx, callerID, employeeattendance.MarkRequest{
			EmployeeID: uuid.New().String(),
			Status:     "vacation",
		})
		assert.ErrorIs(t, err, eaerrors.ErrInvalidStatus)
	})

	t.Run("unknown action", func(t *testing.T) {
		_, err := deps.service.Mark(ctx, callerID, employeeattendance.MarkRequest{
			EmployeeID: uuid.New().String(),
			Status:     "present",
			Action:     "teleport",
		})
		assert.ErrorIs(t, err, eaerrors.ErrInvalidAction)
	})
}

func TestMark_SelfServiceOnly(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()
	callerID := uuid.New()
	emplID := uuid.New()

	// Admin flag makes no difference here.
	admin := testCaller(callerID, "admin@example.com")
	admin.IsAdmin = true

	deps.users.EXPECT().
		FindByID(gomock.Any(), callerID).
		Return(admin, nil)
	deps.employees.EXPECT().
		FindByID(gomock.Any(), emplID.String()).
		Return(testEmployee(emplID, "jane@example.com"), nil)

	_, err := deps.service.Mark(ctx, callerID.String(), employeeattendance.MarkRequest{
		EmployeeID: emplID.String(),
		Status:     employee.StatusPresent,
	})
	assert.ErrorIs(t, err, eaerrors.ErrNotYourAttendance)
}

func TestMark_EmailComparisonIsNormalized(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()
	callerID := uuid.New()
	emplID := uuid.New()

	deps.users.EXPECT().
		FindByID(gomock.Any(), callerID).
		Return(testCaller(callerID, "Jane@Example.com "), nil)
	deps.employees.EXPECT().
		FindByID(gomock.Any(), emplID.String()).
		Return(testEmployee(emplID, "jane@example.com"), nil)

	expectTx(t, deps.sqlMock, true)
	deps.records.EXPECT().WithTx(gomock.Any()).Return(deps.records)
	deps.employees.EXPECT().WithTx(gomock.Any()).Return(deps.employees)
	deps.records.EXPECT().
		FindByEmployeeAndDate(gomock.Any(), emplID.String(), gomock.Any()).
		Return(nil, gorm.ErrRecordNotFound)
	deps.records.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, r *employeeattendance.Record) error {
			assert.Equal(t, emplID, r.EmployeeID)
			assert.Equal(t, "Jane Doe", r.EmployeeName)
			assert.Equal(t, employee.StatusPresent, r.Status)
			assert.NotNil(t, r.CheckIn)
			return nil
		})
	deps.employees.EXPECT().
		UpdateStatus(gomock.Any(), emplID.String(), employee.StatusPresent).
		Return(nil)
	deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
	deps.outbox.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, event kafka.OutboxEvent) error {
			assert.Equal(t, events.AttendanceMarkedTopic, event.Topic)
			assert.Equal(t, "attendance_marked", event.EventType)
			assert.Equal(t, kafka.OutboxStatusPending, event.Status)
			return nil
		})

	resp, err := deps.service.Mark(ctx, callerID.String(), employeeattendance.MarkRequest{
		EmployeeID: emplID.String(),
		Status:     employee.StatusPresent,
	})
	require.NoError(t, err)
	assert.Equal(t, employee.StatusPresent, resp.Status)
	assert.Equal(t, time.Now().Format("2006-01-02"), resp.Date)
}

func TestMark_DowngradeBlocked(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()
	callerID := uuid.New()
	emplID := uuid.New()

	for _, current := range []string{employee.StatusPresent, employee.StatusCheckedOut} {
		for _, requested := range []string{employee.StatusAbsent, employee.StatusLate} {
			deps.users.EXPECT().
				FindByID(gomock.Any(), callerID).
				Return(testCaller(callerID, "jane@example.com"), nil)
			deps.employees.EXPECT().
				FindByID(gomock.Any(), emplID.String()).
				Return(testEmployee(emplID, "jane@example.com"), nil)

			expectTx(t, deps.sqlMock, false)
			deps.records.EXPECT().WithTx(gomock.Any()).Return(deps.records)
			deps.employees.EXPECT().WithTx(gomock.Any()).Return(deps.employees)
			deps.records.EXPECT().
				FindByEmployeeAndDate(gomock.Any(), emplID.String(), gomock.Any()).
				Return(&employeeattendance.Record{EmployeeID: emplID, Status: current}, nil)

			_, err := deps.service.Mark(ctx, callerID.String(), employeeattendance.MarkRequest{
				EmployeeID: emplID.String(),
				Status:     requested,
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), `Cannot change status from "`+current+`" to "`+requested+`"`)
		}
	}
}

func TestMark_DuplicateNegativeBlocked(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()
	callerID := uuid.New()
	emplID := uuid.New()

	deps.users.EXPECT().
		FindByID(gomock.Any(), callerID).
		Return(testCaller(callerID, "jane@example.com"), nil)
	deps.employees.EXPECT().
		FindByID(gomock.Any(), emplID.String()).
		Return(testEmployee(emplID, "jane@example.com"), nil)

	expectTx(t, deps.sqlMock, false)
	deps.records.EXPECT().WithTx(gomock.Any()).Return(deps.records)
	deps.employees.EXPECT().WithTx(gomock.Any()).Return(deps.employees)
	deps.records.EXPECT().
		FindByEmployeeAndDate(gomock.Any(), emplID.String(), gomock.Any()).
		Return(&employeeattendance.Record{EmployeeID: emplID, Status: employee.StatusAbsent}, nil)

	_, err := deps.service.Mark(ctx, callerID.String(), employeeattendance.MarkRequest{
		EmployeeID: emplID.String(),
		Status:     employee.StatusLate,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `Attendance already marked as "absent" today`)
}

func TestMark_CorrectionAllowed(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()
	callerID := uuid.New()
	emplID := uuid.New()

	deps.users.EXPECT().
		FindByID(gomock.Any(), callerID).
		Return(testCaller(callerID, "jane@example.com"), nil)
	deps.employees.EXPECT().
		FindByID(gomock.Any(), emplID.String()).
		Return(testEmployee(emplID, "jane@example.com"), nil)

	existing := &employeeattendance.Record{EmployeeID: emplID, Status: employee.StatusAbsent}

	expectTx(t, deps.sqlMock, true)
	deps.records.EXPECT().WithTx(gomock.Any()).Return(deps.records)
	deps.employees.EXPECT().WithTx(gomock.Any()).Return(deps.employees)
	deps.records.EXPECT().
		FindByEmployeeAndDate(gomock.Any(), emplID.String(), gomock.Any()).
		Return(existing, nil)
	deps.records.EXPECT().
		Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, r *employeeattendance.Record) error {
			assert.Equal(t, employee.StatusPresent, r.Status)
			assert.NotNil(t, r.CheckIn)
			return nil
		})
	deps.employees.EXPECT().
		UpdateStatus(gomock.Any(), emplID.String(), employee.StatusPresent).
		Return(nil)
	deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
	deps.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	resp, err := deps.service.Mark(ctx, callerID.String(), employeeattendance.MarkRequest{
		EmployeeID: emplID.String(),
		Status:     employee.StatusPresent,
	})
	require.NoError(t, err)
	assert.Equal(t, employee.StatusPresent, resp.Status)
}

func TestMark_CheckOutRequiresCheckIn(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()
	callerID := uuid.New()
	emplID := uuid.New()

	deps.users.EXPECT().
		FindByID(gomock.Any(), callerID).
		Return(testCaller(callerID, "jane@example.com"), nil)
	deps.employees.EXPECT().
		FindByID(gomock.Any(), emplID.String()).
		Return(testEmployee(emplID, "jane@example.com"), nil)

	expectTx(t, deps.sqlMock, false)
	deps.records.EXPECT().WithTx(gomock.Any()).Return(deps.records)
	deps.employees.EXPECT().WithTx(gomock.Any()).Return(deps.employees)
	deps.records.EXPECT().
		FindByEmployeeAndDate(gomock.Any(), emplID.String(), gomock.Any()).
		Return(nil, gorm.ErrRecordNotFound)

	_, err := deps.service.Mark(ctx, callerID.String(), employeeattendance.MarkRequest{
		EmployeeID: emplID.String(),
		Action:     employeeattendance.ActionCheckOut,
	})
	assert.ErrorIs(t, err, eaerrors.ErrNoCheckInToday)
}

func TestMark_CheckOutOverwritesStatus(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()
	callerID := uuid.New()
	emplID := uuid.New()

	checkIn := time.Now().Add(-8 * time.Hour)
	existing := &employeeattendance.Record{
		EmployeeID: emplID,
		Status:     employee.StatusPresent,
		CheckIn:    &checkIn,
	}

	deps.users.EXPECT().
		FindByID(gomock.Any(), callerID).
		Return(testCaller(callerID, "jane@example.com"), nil)
	deps.employees.EXPECT().
		FindByID(gomock.Any(), emplID.String()).
		Return(testEmployee(emplID, "jane@example.com"), nil)

	expectTx(t, deps.sqlMock, true)
	deps.records.EXPECT().WithTx(gomock.Any()).Return(deps.records)
	deps.employees.EXPECT().WithTx(gomock.Any()).Return(deps.employees)
	deps.records.EXPECT().
		FindByEmployeeAndDate(gomock.Any(), emplID.String(), gomock.Any()).
		Return(existing, nil)
	deps.records.EXPECT().
		Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, r *employeeattendance.Record) error {
			assert.Equal(t, employee.StatusCheckedOut, r.Status)
			assert.NotNil(t, r.CheckOut)
			return nil
		})
	deps.employees.EXPECT().
		UpdateStatus(gomock.Any(), emplID.String(), employee.StatusCheckedOut).
		Return(nil)
	deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
	deps.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	resp, err := deps.service.Mark(ctx, callerID.String(), employeeattendance.MarkRequest{
		EmployeeID: emplID.String(),
		Action:     employeeattendance.ActionCheckOut,
	})
	require.NoError(t, err)
	assert.Equal(t, employee.StatusCheckedOut, resp.Status)
}

func TestMark_TimeOverrideRejectsBadFormat(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()
	callerID := uuid.New()
	emplID := uuid.New()

	deps.users.EXPECT().
		FindByID(gomock.Any(), callerID).
		Return(testCaller(callerID, "jane@example.com"), nil)
	deps.employees.EXPECT().
		FindByID(gomock.Any(), emplID.String()).
		Return(testEmployee(emplID, "jane@example.com"), nil)

	expectTx(t, deps.sqlMock, false)
	deps.records.EXPECT().WithTx(gomock.Any()).Return(deps.records)
	deps.employees.EXPECT().WithTx(gomock.Any()).Return(deps.employees)
	deps.records.EXPECT().
		FindByEmployeeAndDate(gomock.Any(), emplID.String(), gomock.Any()).
		Return(nil, gorm.ErrRecordNotFound)

	_, err := deps.service.Mark(ctx, callerID.String(), employeeattendance.MarkRequest{
		EmployeeID: emplID.String(),
		Status:     employee.StatusPresent,
		CheckIn:    "9am",
	})
	assert.ErrorIs(t, err, eaerrors.ErrInvalidTime)
}

func TestMark_EmployeeNotFound(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()
	callerID := uuid.New()

	deps.users.EXPECT().
		FindByID(gomock.Any(), callerID).
		Return(testCaller(callerID, "jane@example.com"), nil)
	deps.employees.EXPECT().
		FindByID(gomock.Any(), gomock.Any()).
		Return(nil, gorm.ErrRecordNotFound)

	_, err := deps.service.Mark(ctx, callerID.String(), employeeattendance.MarkRequest{
		EmployeeID: uuid.New().String(),
		Status:     employee.StatusPresent,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Employee not found")
}

func TestList_AdminSeesEverything(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()
	callerID := uuid.New()

	admin := testCaller(callerID, "admin@example.com")
	admin.IsAdmin = true

	checkIn := time.Date(2026, 8, 28, 9, 5, 0, 0, time.Local)
	rows := []employeeattendance.Record{
		{
			ID:           uuid.New(),
			EmployeeID:   uuid.New(),
			EmployeeName: "Jane Doe",
			Date:         time.Date(2026, 8, 28, 0, 0, 0, 0, time.Local),
			CheckIn:      &checkIn,
			Status:       employee.StatusPresent,
		},
	}

	deps.users.EXPECT().FindByID(gomock.Any(), callerID).Return(admin, nil)
	deps.records.EXPECT().FindAll(gomock.Any(), 500).Return(rows, nil)

	resp, err := deps.service.List(ctx, callerID.String(), 0)
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, "2026-08-28", resp[0].Date)
	assert.Equal(t, "09:05", resp[0].CheckIn)
	assert.Equal(t, "-", resp[0].CheckOut)
}

func TestList_NonAdminResolvesByEmail(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()
	callerID := uuid.New()
	emplID := uuid.New()

	caller := testCaller(callerID, "jane@example.com")

	deps.users.EXPECT().FindByID(gomock.Any(), callerID).Return(caller, nil)
	deps.employees.EXPECT().
		FindByUserID(gomock.Any(), callerID.String()).
		Return(nil, gorm.ErrRecordNotFound)
	deps.employees.EXPECT().
		FindByEmail(gomock.Any(), "jane@example.com").
		Return(testEmployee(emplID, "jane@example.com"), nil)
	deps.records.EXPECT().
		FindAllByEmployee(gomock.Any(), emplID.String(), 25).
		Return([]employeeattendance.Record{}, nil)

	resp, err := deps.service.List(ctx, callerID.String(), 25)
	require.NoError(t, err)
	assert.Empty(t, resp)
}

func TestList_NoEmployeeRecordYieldsEmpty(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()
	callerID := uuid.New()

	caller := testCaller(callerID, "jane@example.com")

	deps.users.EXPECT().FindByID(gomock.Any(), callerID).Return(caller, nil)
	deps.employees.EXPECT().
		FindByUserID(gomock.Any(), callerID.String()).
		Return(nil, gorm.ErrRecordNotFound)
	deps.employees.EXPECT().
		FindByEmail(gomock.Any(), "jane@example.com").
		Return(nil, gorm.ErrRecordNotFound)
	deps.employees.EXPECT().
		FindByNameFold(gomock.Any(), "Jane Doe").
		Return(nil, gorm.ErrRecordNotFound)

	resp, err := deps.service.List(ctx, callerID.String(), 0)
	require.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Empty(t, resp)
}

func TestListByDate_InvalidDate(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	_, err := deps.service.ListByDate(context.Background(), uuid.New().String(), "28-08-2026")
	assert.ErrorIs(t, err, eaerrors.ErrInvalidDate)
}

func TestListByDate_AdminScopesToDate(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()
	callerID := uuid.New()

	admin := testCaller(callerID, "admin@example.com")
	admin.IsAdmin = true

	deps.users.EXPECT().FindByID(gomock.Any(), callerID).Return(admin, nil)
	deps.records.EXPECT().
		FindByDate(gomock.Any(), time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)).
		Return([]employeeattendance.Record{}, nil)

	resp, err := deps.service.ListByDate(ctx, callerID.String(), "2026-08-28")
	require.NoError(t, err)
	assert.Empty(t, resp)
}

func TestMark_ConcurrentDuplicateMapsToConflict(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()
	callerID := uuid.New()
	emplID := uuid.New()

	deps.users.EXPECT().
		FindByID(gomock.Any(), callerID).
		Return(testCaller(callerID, "jane@example.com"), nil)
	deps.employees.EXPECT().
		FindByID(gomock.Any(), emplID.String()).
		Return(testEmployee(emplID, "jane@example.com"), nil)

	expectTx(t, deps.sqlMock, false)
	deps.records.EXPECT().WithTx(gomock.Any()).Return(deps.records)
	deps.employees.EXPECT().WithTx(gomock.Any()).Return(deps.employees)
	deps.records.EXPECT().
		FindByEmployeeAndDate(gomock.Any(), emplID.String(), gomock.Any()).
		Return(nil, gorm.ErrRecordNotFound)
	deps.records.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(errors.New(`ERROR: duplicate key value violates unique constraint "uq_employee_daily_attendance" (SQLSTATE 23505)`))

	_, err := deps.service.Mark(ctx, callerID.String(), employeeattendance.MarkRequest{
		EmployeeID: emplID.String(),
		Status:     employee.StatusPresent,
	})
	assert.ErrorIs(t, err, eaerrors.ErrDuplicateDailyRecord)
}
