package admin

import "errors"

var (
	ErrRequestNotFound         = errors.New("request not found")
	ErrWorkNotFound            = errors.New("completed work not found")
	ErrInvalidStatus           = errors.New("status cannot be set directly")
	ErrInvalidStatusTransition = errors.New("status transition is not allowed")
	ErrNotInProgress           = errors.New("work can only be completed for requests in progress")
	ErrMissingWorkFields       = errors.New("work_cost and bonus_earned are required")
	ErrNegativeAmount          = errors.New("work_cost and bonus_earned must not be negative")
	ErrWorkExists              = errors.New("work for this request is already recorded")
	ErrBonusAlreadyPaid        = errors.New("bonus for this work is already paid")
)
