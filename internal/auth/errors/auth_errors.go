package autherrors

import (
	"net/http"

	"attendly/internal/shared/apperror"
)

var (
	ErrTokenMissing = apperror.New(
		apperror.CodeUnauthorized,
		"Token is missing",
		http.StatusUnauthorized,
	)
	ErrTokenExpired = apperror.New(
		apperror.CodeUnauthorized,
		"Token has expired",
		http.StatusUnauthorized,
	)
	ErrInvalidToken = apperror.New(
		apperror.CodeUnauthorized,
		"Token is invalid",
		http.StatusUnauthorized,
	)
	ErrAdminRequired = apperror.New(
		apperror.CodeForbidden,
		"Admin access required",
		http.StatusForbidden,
	)

	// Login failures share one message so callers cannot probe which
	// factor failed.
	ErrInvalidCredentials = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid credentials",
		http.StatusUnauthorized,
	)

	ErrEmailAlreadyRegistered = apperror.New(
		apperror.CodeConflict,
		"User already exists",
		http.StatusConflict,
	)
	ErrEmployeeCodeTaken = apperror.New(
		apperror.CodeConflict,
		"Employee ID already exists",
		http.StatusConflict,
	)
	ErrInvalidEmployeeCode = apperror.New(
		apperror.CodeInvalidInput,
		"Employee ID must be exactly 6 digits",
		http.StatusBadRequest,
	)
	ErrPasswordTooShort = apperror.New(
		apperror.CodeInvalidInput,
		"Password must be at least 6 characters long",
		http.StatusBadRequest,
	)
	ErrUnknownEmployeeCode = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid employee ID",
		http.StatusUnauthorized,
	)
	ErrTokenGenerationFailed = apperror.New(
		apperror.CodeInternalError,
		"Failed to generate token",
		http.StatusInternalServerError,
	)
)
