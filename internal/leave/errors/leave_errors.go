package leaveerrors

import (
	"net/http"

	"attendly/internal/shared/apperror"
)

var (
	ErrMissingFields = apperror.New(
		apperror.CodeInvalidInput,
		"All fields are required",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid leave type",
		http.StatusBadRequest,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"End date cannot be before start date",
		http.StatusBadRequest,
	)
)
