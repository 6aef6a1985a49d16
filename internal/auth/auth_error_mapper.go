package auth

import (
	"errors"
	"strings"

	autherrors "attendly/internal/auth/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// mapUniqueViolation covers the race the pre-insert existence checks cannot:
// two concurrent signups pass the SELECTs and one insert trips the constraint.
func mapUniqueViolation(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "uq_user_email":
			return autherrors.ErrEmailAlreadyRegistered
		case "uq_user_employee_code":
			return autherrors.ErrEmployeeCodeTaken
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") {
		if strings.Contains(errMsg, "uq_user_employee_code") {
			return autherrors.ErrEmployeeCodeTaken
		}
		if strings.Contains(errMsg, "uq_user_email") {
			return autherrors.ErrEmailAlreadyRegistered
		}
	}

	return err
}
