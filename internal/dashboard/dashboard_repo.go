package dashboard

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Stats is one row of cross-table aggregates for the landing view.
type Stats struct {
	ActiveEmployees int64 `gorm:"column:active_employees" json:"active_employees"`
	PresentToday    int64 `gorm:"column:present_today" json:"present_today"`
	PendingLeaves   int64 `gorm:"column:pending_leaves" json:"pending_leaves"`
	MyAttendance    int64 `gorm:"column:my_attendance" json:"my_attendance"`
}

type Repository interface {
	Stats(ctx context.Context, userID string, today time.Time) (Stats, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Stats(ctx context.Context, userID string, today time.Time) (Stats, error) {
	var stats Stats
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			(SELECT COUNT(*) FROM employees WHERE is_active = true)                          AS active_employees,
			(SELECT COUNT(*) FROM employee_attendance
			  WHERE date = ? AND status IN ('present', 'checked_out'))                       AS present_today,
			(SELECT COUNT(*) FROM leaves WHERE status = 'pending')                           AS pending_leaves,
			(SELECT COUNT(*) FROM attendance WHERE user_id = ? AND status = 'present')       AS my_attendance
	`, today.Format("2006-01-02"), userID).Scan(&stats).Error
	return stats, err
}
