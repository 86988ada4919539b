package messaging

import "russify/internal/domain"

// ============================================================
// REQUEST DTOs
// ============================================================

type FilePayload struct {
	Content string `json:"content"`
	Name    string `json:"name"`
	Type    string `json:"type"`
}

type SendMessageRequest struct {
	MessageText *string      `json:"message_text"`
	File        *FilePayload `json:"file"`
}

// Viewer is the authenticated side opening or writing to a thread.
type Viewer struct {
	UserID int64
	Role   domain.UserRole
}

// ============================================================
// PUSH EVENTS
// ============================================================

const EventThreadUpdated = "thread_updated"

type ThreadEvent struct {
	Type      string `json:"type"`
	RequestID int64  `json:"request_id"`
}
