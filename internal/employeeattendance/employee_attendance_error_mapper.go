package employeeattendance

import (
	"errors"
	"strings"

	eaerrors "attendly/internal/employeeattendance/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// mapUniqueViolation converts a lost race on the one-row-per-day index into
// a conflict the handler can surface as 409.
func mapUniqueViolation(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_employee_daily_attendance" {
			return eaerrors.ErrDuplicateDailyRecord
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_employee_daily_attendance") {
		return eaerrors.ErrDuplicateDailyRecord
	}

	return err
}
