package attendanceerrors

import (
	"net/http"

	"attendly/internal/shared/apperror"
)

var (
	ErrAlreadyCheckedIn = apperror.New(
		apperror.CodeInvalidState,
		"Already checked in today",
		http.StatusBadRequest,
	)
	ErrNoCheckInRecord = apperror.New(
		apperror.CodeInvalidState,
		"No check-in record found for today",
		http.StatusBadRequest,
	)
	ErrInvalidTime = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid time format, expected HH:MM:SS",
		http.StatusBadRequest,
	)
)
