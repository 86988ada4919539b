package portal

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"russify/internal/domain"
	"russify/internal/modules/messaging"
)

// MaxAttachmentSize is the largest file a thread accepts. Exactly this many
// bytes is allowed.
const MaxAttachmentSize = 10 * 1024 * 1024

// AttachmentKind values.
const (
	KindNone  = ""
	KindImage = "image"
	KindLink  = "link"
)

// Attachment is a local file about to be sent.
type Attachment struct {
	Name string
	Type string
	Data []byte
}

// Thread is the conversation of one request seen from one side. The viewer
// role picks the endpoint and which lane counts as self; everything else is
// shared by both sides.
type Thread struct {
	client    *Client
	role      domain.SenderType
	requestID int64

	// Warn receives load failures. The thread keeps its previous state.
	Warn func(error)

	mu       sync.Mutex
	messages []domain.Message
}

// Thread opens the thread of requestID. role is SenderClient for the partner
// portal and SenderCompany for the admin console.
func (c *Client) Thread(role domain.SenderType, requestID int64) *Thread {
	return &Thread{client: c, role: role, requestID: requestID}
}

func (t *Thread) RequestID() int64 { return t.requestID }

func (t *Thread) endpoint() string {
	if t.role == domain.SenderCompany {
		return "/api/admin"
	}
	return "/api/partner"
}

func (t *Thread) query(action string) url.Values {
	return url.Values{
		"action":     {action},
		"request_id": {strconv.FormatInt(t.requestID, 10)},
	}
}

// Messages returns a copy of the current thread in server order.
func (t *Thread) Messages() []domain.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]domain.Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Load replaces the thread with the server's copy. On failure the previous
// messages stay (empty before the first successful load), Warn is told and
// the error is returned.
func (t *Thread) Load(ctx context.Context) error {
	var res struct {
		Messages []domain.Message `json:"messages"`
	}
	if err := t.client.do(ctx, http.MethodGet, t.endpoint(), t.query("messages"), nil, &res); err != nil {
		if t.Warn != nil {
			t.Warn(err)
		}
		return err
	}

	t.mu.Lock()
	t.messages = res.Messages
	t.mu.Unlock()
	return nil
}

// Send posts text and/or file, then reloads the thread. Empty input and
// oversized files are refused without a network call.
func (t *Thread) Send(ctx context.Context, text string, file *Attachment) error {
	text = strings.TrimSpace(text)
	if file != nil && len(file.Data) == 0 {
		file = nil
	}
	if text == "" && file == nil {
		return ErrEmptyMessage
	}
	if file != nil && len(file.Data) > MaxAttachmentSize {
		return ErrFileTooLarge
	}

	var body messaging.SendMessageRequest
	if text != "" {
		body.MessageText = &text
	}
	if file != nil {
		body.File = &messaging.FilePayload{
			Content: base64.StdEncoding.EncodeToString(file.Data),
			Name:    file.Name,
			Type:    file.Type,
		}
	}

	if err := t.client.do(ctx, http.MethodPost, t.endpoint(), t.query("send_message"), body, nil); err != nil {
		return err
	}

	// The send went through; a failed refresh only warns.
	_ = t.Load(ctx)
	return nil
}

// Lanes splits the thread into the viewer's own messages and the other
// side's, each keeping server order.
func (t *Thread) Lanes() (self, other []domain.Message) {
	for _, m := range t.Messages() {
		if m.SenderType == t.role {
			self = append(self, m)
		} else {
			other = append(other, m)
		}
	}
	return self, other
}

// IsSelf reports whether m belongs in the viewer's lane.
func (t *Thread) IsSelf(m domain.Message) bool {
	return m.SenderType == t.role
}

// AttachmentKind decides how an attachment renders: inline when file_type
// starts with image/, a download link otherwise.
func AttachmentKind(m domain.Message) string {
	if m.FileURL == nil || *m.FileURL == "" {
		return KindNone
	}
	if m.FileType != nil && strings.HasPrefix(*m.FileType, "image/") {
		return KindImage
	}
	return KindLink
}
