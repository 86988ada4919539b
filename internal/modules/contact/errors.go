package contact

import "errors"

var (
	ErrValidation   = errors.New("name and phone are required")
	ErrRelayFailed  = errors.New("contact relay failed")
	ErrRelayRefused = errors.New("contact relay refused the lead")
)
