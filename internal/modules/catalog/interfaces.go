package catalog

import (
	"context"

	"russify/internal/domain"
	"russify/internal/modules/upload"
)

type Repository interface {
	List(ctx context.Context, typ domain.CatalogType, includeInactive bool) ([]domain.CatalogItem, error)
	GetByID(ctx context.Context, typ domain.CatalogType, id int64) (*domain.CatalogItem, error)
	Create(ctx context.Context, item *domain.CatalogItem) error
	Save(ctx context.Context, item *domain.CatalogItem) error
	Delete(ctx context.Context, typ domain.CatalogType, id int64) error
}

type ImageStore interface {
	SaveBase64(ctx context.Context, userID int64, f upload.File, imageOnly bool) (*domain.Upload, error)
	Release(ctx context.Context, fileURL string) error
}
