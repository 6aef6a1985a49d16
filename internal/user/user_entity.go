package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string     `gorm:"column:name;not null"`
	Email        string     `gorm:"column:email;uniqueIndex:uq_user_email;not null"`
	Password     string     `gorm:"column:password;not null"`
	EmployeeCode *string    `gorm:"column:employee_code;type:varchar(6);uniqueIndex:uq_user_employee_code"`
	IsAdmin      bool       `gorm:"column:is_admin;not null;default:false"`
	Department   *string    `gorm:"column:department;type:varchar(100)"`
	Designation  *string    `gorm:"column:designation;type:varchar(100)"`
	Phone        *string    `gorm:"column:phone;type:varchar(20)"`
	JoiningDate  *time.Time `gorm:"column:joining_date;type:date"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
}

func (User) TableName() string {
	return "users"
}
