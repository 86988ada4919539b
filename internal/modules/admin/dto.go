package admin

import (
	"time"

	"russify/internal/domain"
)

const (
	ActionUpdateStatus    = "update_status"
	ActionCompleteWork    = "complete_work"
	ActionPayBonus        = "pay_bonus"
	ActionDeleteRequest   = "delete_request"
	ActionMarkForDeletion = "mark_for_deletion"
)

type actionEnvelope struct {
	Action string `json:"action"`
}

type UpdateStatusRequest struct {
	RequestID int64                `json:"request_id" binding:"required"`
	Status    domain.RequestStatus `json:"status" binding:"required"`
}

// CompleteWorkRequest keeps both amounts as pointers so a missing field is
// told apart from an explicit zero.
type CompleteWorkRequest struct {
	RequestID   int64      `json:"request_id" binding:"required"`
	WorkCost    *float64   `json:"work_cost"`
	BonusEarned *int64     `json:"bonus_earned"`
	Notes       *string    `json:"notes"`
	WorkDate    *time.Time `json:"work_date"`
}

type PayBonusRequest struct {
	WorkID int64 `json:"work_id" binding:"required"`
}

type RequestIDRequest struct {
	RequestID int64 `json:"request_id" binding:"required"`
}

// Aggregate is the admin console's single fetch.
type Aggregate struct {
	Requests []domain.ServiceRequest `json:"requests"`
	Users    []domain.User           `json:"users"`
	Works    []domain.CompletedWork  `json:"works"`
}
