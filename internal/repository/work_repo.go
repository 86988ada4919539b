package repository

import (
	"context"

	"russify/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WorkRepository struct {
	db *gorm.DB
}

func NewWorkRepository(db *gorm.DB) *WorkRepository {
	return &WorkRepository{db: db}
}

func (r *WorkRepository) Create(ctx context.Context, w *domain.CompletedWork) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *WorkRepository) GetByID(ctx context.Context, id int64) (*domain.CompletedWork, error) {
	var w domain.CompletedWork
	if err := r.db.WithContext(ctx).First(&w, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &w, nil
}

func (r *WorkRepository) GetForUpdate(ctx context.Context, id int64) (*domain.CompletedWork, error) {
	var w domain.CompletedWork
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&w, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &w, nil
}

func (r *WorkRepository) ListByUser(ctx context.Context, userID int64) ([]domain.CompletedWork, error) {
	var out []domain.CompletedWork
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("work_date DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *WorkRepository) ListAll(ctx context.Context) ([]domain.CompletedWork, error) {
	var out []domain.CompletedWork
	err := r.db.WithContext(ctx).
		Order("work_date DESC, id DESC").
		Find(&out).Error
	return out, err
}

// MarkBonusPaid flips is_bonus_paid only while it is still false. It reports
// whether this call did the flip.
func (r *WorkRepository) MarkBonusPaid(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.CompletedWork{}).
		Where("id = ? AND is_bonus_paid = ?", id, false).
		Update("is_bonus_paid", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
