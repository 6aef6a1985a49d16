package employeeattendance

import (
	"time"

	"github.com/google/uuid"
)

// Record is the single mutable cell per (employee, date); the unique index
// guarantees at most one row per employee per day, even under concurrent
// check-ins.
type Record struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID   uuid.UUID  `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:uq_employee_daily_attendance"`
	EmployeeName string     `gorm:"column:employee_name;not null"`
	Date         time.Time  `gorm:"column:date;type:date;not null;uniqueIndex:uq_employee_daily_attendance"`
	CheckIn      *time.Time `gorm:"column:check_in;type:timestamptz"`
	CheckOut     *time.Time `gorm:"column:check_out;type:timestamptz"`
	Status       string     `gorm:"column:status;type:varchar(20);not null;default:absent"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
}

func (Record) TableName() string {
	return "employee_attendance"
}
