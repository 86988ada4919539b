package domain

import (
	"strings"
	"time"
)

// SenderType identifies the side of a thread: the partner ("client") or
// the company staff ("company").
type SenderType string

const (
	SenderClient  SenderType = "client"
	SenderCompany SenderType = "company"
)

func (s SenderType) Valid() bool {
	return s == SenderClient || s == SenderCompany
}

// Other returns the opposite side of the thread.
func (s SenderType) Other() SenderType {
	if s == SenderCompany {
		return SenderClient
	}
	return SenderCompany
}

// Message is one immutable entry of a request thread. It carries text,
// an attachment or both.
type Message struct {
	ID          int64      `json:"id" gorm:"primaryKey"`
	RequestID   int64      `json:"request_id" gorm:"not null;index"`
	SenderID    int64      `json:"sender_id" gorm:"not null"`
	SenderType  SenderType `json:"sender_type" gorm:"type:varchar(16);not null"`
	MessageText *string    `json:"message_text"`
	FileURL     *string    `json:"file_url"`
	FileName    *string    `json:"file_name"`
	FileType    *string    `json:"file_type"`

	// Read by the other side of the thread.
	IsRead bool `json:"is_read" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"created_at"`
}

func (Message) TableName() string {
	return "messages"
}

// HasImage reports whether the attachment renders inline. The MIME prefix is
// the only discriminator.
func (m *Message) HasImage() bool {
	return m.FileType != nil && strings.HasPrefix(*m.FileType, "image/")
}
