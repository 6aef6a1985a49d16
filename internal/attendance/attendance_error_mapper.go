package attendance

import (
	"errors"
	"strings"

	attendanceerrors "attendly/internal/attendance/errors"
	autherrors "attendly/internal/auth/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

func parseUserID(userID string) (uuid.UUID, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, autherrors.ErrInvalidToken
	}
	return uid, nil
}

// mapUniqueViolation turns a concurrent double check-in, which slipped past
// the in-transaction existence check, into the same "already checked in"
// answer the slow path gives.
func mapUniqueViolation(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_user_daily_attendance" {
			return attendanceerrors.ErrAlreadyCheckedIn
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_user_daily_attendance") {
		return attendanceerrors.ErrAlreadyCheckedIn
	}

	return err
}
