package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"russify/internal/domain"
	"russify/internal/modules/auth"

	"go.uber.org/zap"
)

const minPasswordLength = 6

// Client talks to the back-office HTTP API on behalf of one session.
type Client struct {
	baseURL string
	http    *http.Client
	session *Session
	log     *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient points a client at baseURL (scheme and host, without /api).
func NewClient(baseURL string, session *Session, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
		session: session,
		log:     zap.NewNop(),
	}
	if c.session == nil {
		c.session = NewSession(nil)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Session() *Session { return c.session }

type authResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Login authenticates with a phone or email and stores the session.
func (c *Client) Login(ctx context.Context, login, password string) (*domain.User, error) {
	body := map[string]string{"action": auth.ActionLogin, "login": login, "password": password}
	return c.authenticate(ctx, body)
}

// Register creates a partner account. Confirmation and length are checked
// before anything is sent.
func (c *Client) Register(ctx context.Context, in auth.RegisterRequest) (*domain.User, error) {
	if err := checkPassword(in.Password, in.PasswordConfirm); err != nil {
		return nil, err
	}
	body, err := withAction(auth.ActionRegister, in)
	if err != nil {
		return nil, err
	}
	return c.authenticate(ctx, body)
}

func (c *Client) ResetPassword(ctx context.Context, in auth.ResetPasswordRequest) (*domain.User, error) {
	if err := checkPassword(in.NewPassword, in.PasswordConfirm); err != nil {
		return nil, err
	}
	body, err := withAction(auth.ActionResetPassword, in)
	if err != nil {
		return nil, err
	}
	return c.authenticate(ctx, body)
}

func (c *Client) authenticate(ctx context.Context, body any) (*domain.User, error) {
	var res authResult
	if err := c.do(ctx, http.MethodPost, "/api/auth", nil, body, &res); err != nil {
		return nil, err
	}
	if err := c.session.Set(res.Token, res.User); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return res.User, nil
}

// Me refreshes the cached user from the server.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var res struct {
		User *domain.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &res); err != nil {
		return nil, err
	}
	if err := c.session.SetUser(res.User); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return res.User, nil
}

func (c *Client) Logout() error {
	return c.session.Clear()
}

// do issues one request. A 2xx body is decoded into out when out is set;
// anything else becomes an *APIError carrying the server's text.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("portal request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeError(resp.StatusCode, raw)
		c.log.Warn("portal request rejected",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("code", apiErr.Code),
		)
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(status int, raw []byte) *APIError {
	var body struct {
		Code    string          `json:"code"`
		Message json.RawMessage `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	apiErr := &APIError{StatusCode: status}
	if json.Unmarshal(raw, &body) != nil {
		return apiErr
	}
	apiErr.Code = body.Code
	apiErr.Message = firstText(body.Message, body.Error)
	return apiErr
}

// firstText returns the first field that is a non-empty JSON string.
func firstText(fields ...json.RawMessage) string {
	for _, f := range fields {
		var s string
		if json.Unmarshal(f, &s) == nil && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// withAction flattens v into an object and adds the action discriminator.
func withAction(action string, v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", action, err)
	}
	body := make(map[string]any)
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("encode %s: %w", action, err)
	}
	body["action"] = action
	return body, nil
}

// checkPassword mirrors the server's rules and order.
func checkPassword(password, confirm string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}
