package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"russify/internal/domain"
)

// HTTPRelay posts leads as JSON to a fixed URL.
type HTTPRelay struct {
	url    string
	client *http.Client
}

func NewHTTPRelay(url string, timeout time.Duration) *HTTPRelay {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPRelay{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (r *HTTPRelay) Forward(ctx context.Context, lead *domain.ContactLead) error {
	body, err := json.Marshal(relayPayload{
		ID:      lead.ID,
		Name:    lead.Name,
		Phone:   lead.Phone,
		Car:     lead.Car,
		Message: lead.Message,
		Type:    lead.Type,
		Created: lead.CreatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("encode lead: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRelayFailed, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrRelayRefused, resp.StatusCode)
	}
	return nil
}
