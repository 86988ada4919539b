package partner

import "errors"

var (
	ErrInvalidServiceType = errors.New("unknown service type")
	ErrInvalidCarYear     = errors.New("car year is out of range")
	ErrUserNotFound       = errors.New("user not found")
)
