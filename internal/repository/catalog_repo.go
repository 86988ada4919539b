package repository

import (
	"context"

	"russify/internal/domain"

	"gorm.io/gorm"
)

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// List orders by display_order then id. Inactive items are dropped unless
// includeInactive is set.
func (r *CatalogRepository) List(ctx context.Context, typ domain.CatalogType, includeInactive bool) ([]domain.CatalogItem, error) {
	q := r.db.WithContext(ctx).Where("type = ?", typ)
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}

	var items []domain.CatalogItem
	err := q.Order("display_order ASC, id ASC").Find(&items).Error
	return items, err
}

func (r *CatalogRepository) GetByID(ctx context.Context, typ domain.CatalogType, id int64) (*domain.CatalogItem, error) {
	var item domain.CatalogItem
	if err := r.db.WithContext(ctx).Where("type = ?", typ).First(&item, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (r *CatalogRepository) Create(ctx context.Context, item *domain.CatalogItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *CatalogRepository) Save(ctx context.Context, item *domain.CatalogItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *CatalogRepository) Delete(ctx context.Context, typ domain.CatalogType, id int64) error {
	res := r.db.WithContext(ctx).Where("type = ?", typ).Delete(&domain.CatalogItem{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
