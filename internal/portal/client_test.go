package portal

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"russify/internal/domain"
	"russify/internal/modules/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	Method string
	Path   string
	Query  map[string][]string
	Auth   string
	Body   map[string]any
}

// fakeAPI records every call and answers through handle.
type fakeAPI struct {
	mu     sync.Mutex
	calls  []recorded
	handle func(w http.ResponseWriter, r recorded)
}

func newFakeAPI(t *testing.T, handle func(w http.ResponseWriter, r recorded)) (*fakeAPI, *Client) {
	t.Helper()
	f := &fakeAPI{handle: handle}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query(), Auth: r.Header.Get("Authorization")}
		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &rec.Body)
		}
		f.mu.Lock()
		f.calls = append(f.calls, rec)
		f.mu.Unlock()
		f.handle(w, rec)
	}))
	t.Cleanup(srv.Close)
	return f, NewClient(srv.URL, NewSession(NewMemoryStore()))
}

func (f *fakeAPI) Calls() []recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recorded(nil), f.calls...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestLogin_StoresSessionAndSendsBearer(t *testing.T) {
	api, client := newFakeAPI(t, func(w http.ResponseWriter, r recorded) {
		switch r.Path {
		case "/api/auth":
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"token":   "tok-1",
				"user":    map[string]any{"id": 7, "name": "Garage", "user_role": "partner"},
			})
		case "/api/auth/me":
			writeJSON(w, http.StatusOK, map[string]any{"user": map[string]any{"id": 7, "bonus_balance": 500}})
		}
	})

	user, err := client.Login(context.Background(), "+79990001122", "secret1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, domain.RolePartner, user.Role)
	assert.Equal(t, "tok-1", client.Session().Token())

	me, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(500), me.BonusBalance)

	calls := api.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "login", calls[0].Body["action"])
	assert.Equal(t, "", calls[0].Auth)
	assert.Equal(t, "Bearer tok-1", calls[1].Auth)

	require.NoError(t, client.Logout())
	assert.Empty(t, client.Session().Token())
}

func TestRegister_LocalValidation(t *testing.T) {
	api, client := newFakeAPI(t, func(w http.ResponseWriter, r recorded) {
		writeJSON(w, http.StatusCreated, map[string]any{"token": "t", "user": map[string]any{"id": 1}})
	})
	ctx := context.Background()

	_, err := client.Register(ctx, auth.RegisterRequest{Name: "A", Phone: "1", Password: "secret1", PasswordConfirm: "secret2"})
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	_, err = client.Register(ctx, auth.RegisterRequest{Name: "A", Phone: "1", Password: "abc", PasswordConfirm: "abc"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	// Length counts characters, not bytes, and is checked before the confirmation.
	_, err = client.Register(ctx, auth.RegisterRequest{Name: "A", Phone: "1", Password: "пар", PasswordConfirm: "пар"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
	_, err = client.Register(ctx, auth.RegisterRequest{Name: "A", Phone: "1", Password: "abc", PasswordConfirm: "xyz"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
	assert.Empty(t, api.Calls())

	_, err = client.Register(ctx, auth.RegisterRequest{Name: "A", Phone: "1", Password: "secret1", PasswordConfirm: "secret1"})
	require.NoError(t, err)
	require.Len(t, api.Calls(), 1)
	assert.Equal(t, "register", api.Calls()[0].Body["action"])
}

func TestErrors_SurfaceServerText(t *testing.T) {
	var (
		mu     sync.Mutex
		status int
		body   map[string]any
	)
	answer := func(code int, b map[string]any) {
		mu.Lock()
		defer mu.Unlock()
		status, body = code, b
	}
	_, client := newFakeAPI(t, func(w http.ResponseWriter, r recorded) {
		mu.Lock()
		defer mu.Unlock()
		writeJSON(w, status, body)
	})

	answer(http.StatusConflict, map[string]any{"success": false, "code": "ACCOUNT_EXISTS", "message": "Account already exists", "error": "Account already exists"})
	_, err := client.Login(context.Background(), "x", "y")
	require.Error(t, err)
	assert.Equal(t, "Account already exists", err.Error())
	assert.True(t, IsCode(err, "ACCOUNT_EXISTS"))

	// Only "error" set, as some endpoints answer.
	answer(http.StatusUnauthorized, map[string]any{"error": "Invalid credentials"})
	_, err = client.Login(context.Background(), "x", "y")
	assert.EqualError(t, err, "Invalid credentials")

	// Nothing usable: generic text.
	answer(http.StatusBadGateway, map[string]any{"message": 42})
	_, err = client.Login(context.Background(), "x", "y")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "502")
}
