package employeeattendance

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, r *Record) error
	Update(ctx context.Context, r *Record) error
	FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Record, error)
	FindAll(ctx context.Context, limit int) ([]Record, error)
	FindAllByEmployee(ctx context.Context, employeeID string, limit int) ([]Record, error)
	FindByDate(ctx context.Context, date time.Time) ([]Record, error)
	FindByDateAndEmployee(ctx context.Context, date time.Time, employeeID string) ([]Record, error)
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

func (r *repository) Create(ctx context.Context, rec *Record) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *repository) Update(ctx context.Context, rec *Record) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Record, error) {
	var rec Record
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("date = ?", date.Format("2006-01-02")).
		First(&rec).Error
	return &rec, err
}

func (r *repository) FindAll(ctx context.Context, limit int) ([]Record, error) {
	var rows []Record
	err := r.db.WithContext(ctx).
		Order("date DESC, check_in DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string, limit int) ([]Record, error) {
	var rows []Record
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("date DESC, check_in DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByDate(ctx context.Context, date time.Time) ([]Record, error) {
	var rows []Record
	err := r.db.WithContext(ctx).
		Where("date = ?", date.Format("2006-01-02")).
		Order("check_in ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByDateAndEmployee(ctx context.Context, date time.Time, employeeID string) ([]Record, error) {
	var rows []Record
	err := r.db.WithContext(ctx).
		Where("date = ?", date.Format("2006-01-02")).
		Where("employee_id = ?", employeeID).
		Order("check_in ASC").
		Find(&rows).Error
	return rows, err
}
