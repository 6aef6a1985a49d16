package employee

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type AttendanceStats struct {
	TotalDays   int64 `json:"total_days"`
	PresentDays int64 `json:"present_days"`
	AbsentDays  int64 `json:"absent_days"`
	LateDays    int64 `json:"late_days"`
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, e *Employee) error
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindActiveByID(ctx context.Context, id string) (*Employee, error)
	FindAllActive(ctx context.Context) ([]Employee, error)
	FindActiveByEmail(ctx context.Context, email string) ([]Employee, error)
	FindAllDeleted(ctx context.Context) ([]Employee, error)
	FindIDByEmail(ctx context.Context, email string) (string, error)
	FindByUserID(ctx context.Context, userID string) (*Employee, error)
	FindByEmail(ctx context.Context, email string) (*Employee, error)
	FindByNameFold(ctx context.Context, name string) (*Employee, error)
	SoftDelete(ctx context.Context, id string, at time.Time) error
	UpdateStatus(ctx context.Context, id string, status string) error
	AttendanceStats(ctx context.Context, employeeID string) (AttendanceStats, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) FindActiveByID(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) FindAllActive(ctx context.Context) ([]Employee, error) {
	var rows []Employee
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindActiveByEmail(ctx context.Context, email string) ([]Employee, error) {
	var rows []Employee
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Where("is_active = ?", true).
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAllDeleted(ctx context.Context) ([]Employee, error) {
	var rows []Employee
	err := r.db.WithContext(ctx).
		Where("is_active = ?", false).
		Order("deleted_at DESC").
		Find(&rows).Error
	return rows, err
}

// FindIDByEmail returns "" when no employee record matches; the user/employee
// link is by email, not a strict foreign key.
func (r *repository) FindIDByEmail(ctx context.Context, email string) (string, error) {
	var e Employee
	err := r.db.WithContext(ctx).Select("id").First(&e, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return e.ID.String(), nil
}

func (r *repository) FindByUserID(ctx context.Context, userID string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).First(&e, "user_id = ?", userID).Error
	return &e, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).First(&e, "email = ?", email).Error
	return &e, err
}

func (r *repository) FindByNameFold(ctx context.Context, name string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		First(&e).Error
	return &e, err
}

func (r *repository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  false,
			"deleted_at": at,
		}).Error
}

func (r *repository) UpdateStatus(ctx context.Context, id string, status string) error {
	return r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) AttendanceStats(ctx context.Context, employeeID string) (AttendanceStats, error) {
	var stats AttendanceStats
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS total_days,
			COUNT(*) FILTER (WHERE status = 'present') AS present_days,
			COUNT(*) FILTER (WHERE status = 'absent') AS absent_days,
			COUNT(*) FILTER (WHERE status = 'late') AS late_days
		FROM employee_attendance
		WHERE employee_id = ?
	`, employeeID).Scan(&stats).Error
	return stats, err
}
