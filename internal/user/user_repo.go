package user

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByEmployeeCode(ctx context.Context, code string) (*User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	IsAdmin(ctx context.Context, userID string) (bool, error)
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

func (r *repository) Create(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	return &u, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	return &u, err
}

func (r *repository) FindByEmployeeCode(ctx context.Context, code string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "employee_code = ?", code).Error
	return &u, err
}

func (r *repository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", id).
		Update("password", passwordHash).Error
}

// IsAdmin re-reads the admin flag on every call so a revoked flag takes
// effect immediately, tokens never carry it.
func (r *repository) IsAdmin(ctx context.Context, userID string) (bool, error) {
	var isAdmin bool
	err := r.db.WithContext(ctx).
		Model(&User{}).
		Select("is_admin").
		Where("id = ?", userID).
		Scan(&isAdmin).Error
	return isAdmin, err
}
