package contact

import (
	"context"

	"russify/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, lead *domain.ContactLead) error
	MarkRelayed(ctx context.Context, id int64) error
	ListRecent(ctx context.Context, limit int) ([]domain.ContactLead, error)
}

// Relay forwards a stored lead somewhere a human will see it.
type Relay interface {
	Forward(ctx context.Context, lead *domain.ContactLead) error
}
