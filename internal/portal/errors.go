package portal

import (
	"errors"
	"fmt"
	"net/http"
)

// Local validation failures. None of them reaches the network.
var (
	ErrNotAuthenticated = errors.New("not logged in")
	ErrEmptyMessage     = errors.New("message text or a file is required")
	ErrFileTooLarge     = errors.New("file exceeds 10 MiB")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrStatusLocked     = errors.New("request is marked for deletion")
	ErrStatusNotAllowed = errors.New("status is not selectable")
	ErrNotInProgress    = errors.New("work can only be completed for a request in progress")
	ErrNegativeAmount   = errors.New("work cost and bonus must not be negative")
	ErrBonusAlreadyPaid = errors.New("bonus already paid")
	ErrNotConfirmed     = errors.New("action was not confirmed")
)

// APIError is a non-2xx answer from the back office. Message holds the
// server text verbatim when one was sent.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// IsCode reports whether err is an APIError carrying code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}
