package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"russify/internal/domain"
	"russify/internal/modules/upload"
	"russify/internal/repository"

	"go.uber.org/zap"
)

const maxTextLength = 4000

type Service struct {
	requests RequestReader
	messages MessageRepository
	files    FileStore
	notifier Notifier
	log      *zap.Logger
}

func NewService(requests RequestReader, messages MessageRepository, files FileStore, notifier Notifier, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		requests: requests,
		messages: messages,
		files:    files,
		notifier: notifier,
		log:      log,
	}
}

// LoadThread returns the whole thread oldest first. Opening a thread marks
// everything the other side wrote as read, which zeroes the viewer's unread
// count for that request.
func (s *Service) LoadThread(ctx context.Context, viewer Viewer, requestID int64) ([]domain.Message, error) {
	if _, err := s.authorize(ctx, viewer, requestID); err != nil {
		return nil, err
	}

	if _, err := s.messages.MarkRead(ctx, requestID, viewer.Role.SenderType().Other()); err != nil {
		return nil, fmt.Errorf("mark read: %w", err)
	}

	msgs, err := s.messages.GetThread(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("load thread: %w", err)
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	return msgs, nil
}

// SendMessage appends to a thread. Text is trimmed; a message needs text, a
// file or both.
func (s *Service) SendMessage(ctx context.Context, viewer Viewer, requestID int64, req SendMessageRequest) (*domain.Message, error) {
	var text string
	if req.MessageText != nil {
		text = strings.TrimSpace(*req.MessageText)
	}
	hasFile := req.File != nil && strings.TrimSpace(req.File.Content) != ""
	if text == "" && !hasFile {
		return nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > maxTextLength {
		return nil, ErrMessageTooLong
	}

	sr, err := s.authorize(ctx, viewer, requestID)
	if err != nil {
		return nil, err
	}
	if sr.Status == domain.StatusToDelete {
		return nil, ErrRequestLocked
	}

	msg := &domain.Message{
		RequestID:  requestID,
		SenderID:   viewer.UserID,
		SenderType: viewer.Role.SenderType(),
	}
	if text != "" {
		msg.MessageText = &text
	}

	if hasFile {
		stored, err := s.files.SaveBase64(ctx, viewer.UserID, upload.File{
			Content: req.File.Content,
			Name:    req.File.Name,
			Type:    req.File.Type,
		}, false)
		if err != nil {
			switch {
			case errors.Is(err, upload.ErrFileTooLarge):
				return nil, ErrFileTooLarge
			case errors.Is(err, upload.ErrInvalidEncoding), errors.Is(err, upload.ErrEmptyFile):
				return nil, ErrInvalidFile
			}
			return nil, fmt.Errorf("store attachment: %w", err)
		}
		msg.FileURL = &stored.FileURL
		msg.FileName = &stored.OriginalName
		msg.FileType = &stored.MimeType
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	s.log.Info("message sent",
		zap.Int64("request_id", requestID),
		zap.Int64("sender_id", viewer.UserID),
		zap.String("sender_type", string(msg.SenderType)),
		zap.Bool("has_file", hasFile),
	)

	if s.notifier != nil {
		s.notifier.NotifyThread(sr.UserID, requestID)
	}
	return msg, nil
}

// UnreadCounts counts, per request, what the other side wrote and the
// viewer has not opened yet.
func (s *Service) UnreadCounts(ctx context.Context, viewer Viewer, requestIDs []int64) (map[int64]int, error) {
	return s.messages.CountUnread(ctx, requestIDs, viewer.Role.SenderType().Other())
}

// FillUnread sets UnreadCount on every request for the viewer.
func (s *Service) FillUnread(ctx context.Context, viewer Viewer, reqs []domain.ServiceRequest) error {
	ids := make([]int64, len(reqs))
	for i := range reqs {
		ids[i] = reqs[i].ID
	}
	counts, err := s.UnreadCounts(ctx, viewer, ids)
	if err != nil {
		return err
	}
	for i := range reqs {
		reqs[i].UnreadCount = counts[reqs[i].ID]
	}
	return nil
}

func (s *Service) authorize(ctx context.Context, viewer Viewer, requestID int64) (*domain.ServiceRequest, error) {
	sr, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	switch viewer.Role {
	case domain.RoleAdmin:
		return sr, nil
	case domain.RolePartner:
		if sr.UserID == viewer.UserID {
			return sr, nil
		}
	}
	return nil, ErrNotParticipant
}
