package repository

import (
	"context"
	"strings"

	"russify/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	if u.Email != nil {
		email := normalizeEmail(*u.Email)
		if email == "" {
			u.Email = nil
		} else {
			u.Email = &email
		}
	}
	u.Phone = strings.TrimSpace(u.Phone)
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Where("phone = ?", strings.TrimSpace(phone)).First(&u).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// GetByLogin finds an account by phone or, when login looks like an
// address, by email.
func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	login = strings.TrimSpace(login)
	if strings.Contains(login, "@") {
		var u domain.User
		if err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(login)).First(&u).Error; err != nil {
			return nil, notFound(err)
		}
		return &u, nil
	}
	return r.GetByPhone(ctx, login)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	res := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Update("password_hash", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&users).Error
	return users, err
}

func (r *UserRepository) ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).
		Where("user_role = ?", role).
		Order("created_at DESC, id DESC").
		Find(&users).Error
	return users, err
}

// AddBonus shifts the denormalized balance by delta. Callers run it in the
// same transaction as the matching ledger row.
func (r *UserRepository) AddBonus(ctx context.Context, id int64, delta int64) error {
	res := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Update("bonus_balance", gorm.Expr("bonus_balance + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func normalizeEmail(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}
