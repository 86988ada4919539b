package upload

import (
	"context"

	"russify/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, u *domain.Upload) error
	GetByID(ctx context.Context, id string) (*domain.Upload, error)
	Delete(ctx context.Context, id string) error
}
