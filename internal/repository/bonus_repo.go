package repository

import (
	"context"

	"russify/internal/domain"

	"gorm.io/gorm"
)

type BonusRepository struct {
	db *gorm.DB
}

func NewBonusRepository(db *gorm.DB) *BonusRepository {
	return &BonusRepository{db: db}
}

func (r *BonusRepository) Create(ctx context.Context, txn *domain.BonusTransaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *BonusRepository) ListByUser(ctx context.Context, userID int64) ([]domain.BonusTransaction, error) {
	var out []domain.BonusTransaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

// Balance recomputes earned minus spent from the ledger.
func (r *BonusRepository) Balance(ctx context.Context, userID int64) (int64, error) {
	var balance int64
	err := r.db.WithContext(ctx).
		Model(&domain.BonusTransaction{}).
		Select("COALESCE(SUM(CASE WHEN transaction_type = ? THEN amount ELSE -amount END), 0)", domain.TransactionEarned).
		Where("user_id = ?", userID).
		Scan(&balance).Error
	return balance, err
}
