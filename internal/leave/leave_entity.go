package leave

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeSick   = "sick"
	TypeCasual = "casual"
	TypePaid   = "paid"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

func IsValidType(t string) bool {
	switch t {
	case TypeSick, TypeCasual, TypePaid:
		return true
	default:
		return false
	}
}

type Leave struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Type      string    `gorm:"column:type;type:varchar(20);not null"`
	StartDate time.Time `gorm:"column:start_date;type:date;not null"`
	EndDate   time.Time `gorm:"column:end_date;type:date;not null"`
	Reason    string    `gorm:"column:reason;type:text"`
	Status    string    `gorm:"column:status;type:varchar(20);not null;default:pending"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (Leave) TableName() string {
	return "leaves"
}
