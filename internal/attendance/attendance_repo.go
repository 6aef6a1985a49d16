package attendance

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// MonthlyCounts is the raw per-status tally behind the summary endpoint.
type MonthlyCounts struct {
	PresentDays int `gorm:"column:present_days"`
	LateDays    int `gorm:"column:late_days"`
	AbsentDays  int `gorm:"column:absent_days"`
	TotalDays   int `gorm:"column:total_days"`
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, a *Attendance) error
	Update(ctx context.Context, a *Attendance) error
	FindByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error)
	FindRecentByUser(ctx context.Context, userID string, limit int) ([]Attendance, error)
	MonthlyCounts(ctx context.Context, userID string, year int, month time.Month) (MonthlyCounts, error)
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

func (r *repository) Create(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) Update(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *repository) FindByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error) {
	var row Attendance
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("date = ?", date.Format("2006-01-02")).
		First(&row).Error
	return &row, err
}

func (r *repository) FindRecentByUser(ctx context.Context, userID string, limit int) ([]Attendance, error) {
	var rows []Attendance
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repository) MonthlyCounts(ctx context.Context, userID string, year int, month time.Month) (MonthlyCounts, error) {
	var counts MonthlyCounts
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) FILTER (WHERE status = 'present') AS present_days,
			COUNT(*) FILTER (WHERE status = 'late')    AS late_days,
			COUNT(*) FILTER (WHERE status = 'absent')  AS absent_days,
			COUNT(*)                                   AS total_days
		FROM attendance
		WHERE user_id = ?
		  AND EXTRACT(MONTH FROM date) = ?
		  AND EXTRACT(YEAR FROM date) = ?
	`, userID, int(month), year).Scan(&counts).Error
	return counts, err
}
