package messaging

import (
	"context"

	"russify/internal/domain"
	"russify/internal/modules/upload"
)

type RequestReader interface {
	GetByID(ctx context.Context, id int64) (*domain.ServiceRequest, error)
}

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	GetThread(ctx context.Context, requestID int64) ([]domain.Message, error)
	MarkRead(ctx context.Context, requestID int64, sender domain.SenderType) (int64, error)
	CountUnread(ctx context.Context, requestIDs []int64, sender domain.SenderType) (map[int64]int, error)
}

type FileStore interface {
	SaveBase64(ctx context.Context, userID int64, f upload.File, imageOnly bool) (*domain.Upload, error)
}

// Notifier receives thread changes. The websocket Hub implements it.
type Notifier interface {
	NotifyThread(partnerID, requestID int64)
}
