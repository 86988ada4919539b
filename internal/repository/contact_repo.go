package repository

import (
	"context"

	"russify/internal/domain"

	"gorm.io/gorm"
)

type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(ctx context.Context, lead *domain.ContactLead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}

func (r *ContactRepository) MarkRelayed(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&domain.ContactLead{}).
		Where("id = ?", id).
		Update("relayed", true).Error
}

func (r *ContactRepository) ListRecent(ctx context.Context, limit int) ([]domain.ContactLead, error) {
	var out []domain.ContactLead
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}
