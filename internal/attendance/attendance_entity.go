package attendance

import (
	"time"

	"github.com/google/uuid"
)

const defaultLocation = "Office"

// Attendance is the user-facing daily record, keyed by account rather than
// employee record. One row per user per day.
type Attendance struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID        uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_user_daily_attendance"`
	Date          time.Time  `gorm:"column:date;type:date;not null;uniqueIndex:uq_user_daily_attendance"`
	CheckIn       *time.Time `gorm:"column:check_in;type:timestamptz"`
	CheckOut      *time.Time `gorm:"column:check_out;type:timestamptz"`
	DurationHours *float64   `gorm:"column:duration_hours"`
	Status        string     `gorm:"column:status;type:varchar(20);not null;default:present"`
	Location      string     `gorm:"column:location;type:varchar(100);not null;default:Office"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
}

func (Attendance) TableName() string {
	return "attendance"
}
