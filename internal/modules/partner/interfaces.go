package partner

import (
	"context"

	"russify/internal/domain"
	"russify/internal/modules/messaging"
)

type RequestRepository interface {
	Create(ctx context.Context, req *domain.ServiceRequest) error
	ListByUser(ctx context.Context, userID int64) ([]domain.ServiceRequest, error)
}

type WorkReader interface {
	ListByUser(ctx context.Context, userID int64) ([]domain.CompletedWork, error)
}

type BonusReader interface {
	ListByUser(ctx context.Context, userID int64) ([]domain.BonusTransaction, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type UnreadFiller interface {
	FillUnread(ctx context.Context, viewer messaging.Viewer, reqs []domain.ServiceRequest) error
}
