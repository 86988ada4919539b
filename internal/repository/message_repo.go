package repository

import (
	"context"

	"russify/internal/domain"

	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// GetThread returns the whole thread oldest first. id breaks created_at ties
// so refetches never reorder.
func (r *MessageRepository) GetThread(ctx context.Context, requestID int64) ([]domain.Message, error) {
	var msgs []domain.Message
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	return msgs, err
}

// MarkRead marks everything the given side sent in the thread as read.
func (r *MessageRepository) MarkRead(ctx context.Context, requestID int64, sender domain.SenderType) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("request_id = ? AND sender_type = ? AND is_read = ?", requestID, sender, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

// CountUnread counts unread messages from sender per request in one grouped
// query. Requests with nothing unread are absent from the map.
func (r *MessageRepository) CountUnread(ctx context.Context, requestIDs []int64, sender domain.SenderType) (map[int64]int, error) {
	out := make(map[int64]int, len(requestIDs))
	if len(requestIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		RequestID int64
		Unread    int
	}
	err := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Select("request_id, COUNT(*) AS unread").
		Where("request_id IN ? AND sender_type = ? AND is_read = ?", requestIDs, sender, false).
		Group("request_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		out[row.RequestID] = row.Unread
	}
	return out, nil
}
