package admin

import (
	"context"

	"russify/internal/domain"
	"russify/internal/modules/messaging"
)

type UserLister interface {
	List(ctx context.Context) ([]domain.User, error)
}

type RequestLister interface {
	ListAll(ctx context.Context) ([]domain.ServiceRequest, error)
}

type WorkLister interface {
	ListAll(ctx context.Context) ([]domain.CompletedWork, error)
}

type UnreadFiller interface {
	FillUnread(ctx context.Context, viewer messaging.Viewer, reqs []domain.ServiceRequest) error
}
