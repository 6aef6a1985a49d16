package employeeattendanceerrors

import (
	"fmt"
	"net/http"

	"attendly/internal/shared/apperror"
)

var (
	ErrStatusRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Status is required for check-in",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid status",
		http.StatusBadRequest,
	)
	ErrInvalidAction = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid action",
		http.StatusBadRequest,
	)
	ErrInvalidTime = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid time format, expected HH:MM:SS",
		http.StatusBadRequest,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrNoCheckInToday = apperror.New(
		apperror.CodeInvalidState,
		"No check-in record found for today. Please check in first.",
		http.StatusBadRequest,
	)

	// Self-service rule: nobody, admins included, marks attendance for an
	// employee record whose email is not their own.
	ErrNotYourAttendance = apperror.New(
		apperror.CodeForbidden,
		"You can only mark your own attendance",
		http.StatusForbidden,
	)

	ErrDuplicateDailyRecord = apperror.New(
		apperror.CodeConflict,
		"Attendance already recorded for today",
		http.StatusConflict,
	)
)

func ErrStatusDowngrade(current, requested string) *apperror.AppError {
	return apperror.New(
		apperror.CodeInvalidState,
		fmt.Sprintf("Cannot change status from %q to %q. Employee already marked as %s today.", current, requested, current),
		http.StatusBadRequest,
	)
}

func ErrDuplicateNegativeMarking(current, requested string) *apperror.AppError {
	return apperror.New(
		apperror.CodeInvalidState,
		fmt.Sprintf("Attendance already marked as %q today. Cannot mark as %s again for the same day.", current, requested),
		http.StatusBadRequest,
	)
}
