package messaging

import "errors"

var (
	ErrEmptyMessage    = errors.New("message must contain text or a file")
	ErrMessageTooLong  = errors.New("message text is too long")
	ErrFileTooLarge    = errors.New("file exceeds the 10 MiB limit")
	ErrInvalidFile     = errors.New("file could not be decoded")
	ErrRequestNotFound = errors.New("request not found")
	ErrNotParticipant  = errors.New("you are not a participant of this thread")
	ErrRequestLocked   = errors.New("request is marked for deletion")
)
