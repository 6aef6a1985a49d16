package employee

import (
	"time"

	"github.com/google/uuid"
)

// Daily status values shared by the employees.status column and the
// per-day attendance rows.
const (
	StatusPresent    = "present"
	StatusAbsent     = "absent"
	StatusLate       = "late"
	StatusCheckedOut = "checked_out"
)

type Employee struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID     *uuid.UUID `gorm:"column:user_id;type:uuid;index"`
	Name       string     `gorm:"column:name;not null"`
	Email      string     `gorm:"column:email;uniqueIndex:uq_employee_email;not null"`
	Department string     `gorm:"column:department;type:varchar(100);not null"`
	Status     string     `gorm:"column:status;type:varchar(20);not null;default:absent"`
	IsActive   bool       `gorm:"column:is_active;not null;default:true"`
	DeletedAt  *time.Time `gorm:"column:deleted_at"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
}

func (Employee) TableName() string {
	return "employees"
}

func IsMarkableStatus(status string) bool {
	switch status {
	case StatusPresent, StatusAbsent, StatusLate:
		return true
	default:
		return false
	}
}
