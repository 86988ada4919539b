package portal

import (
	"context"
	"fmt"
	"net/http"
	"slices"

	"russify/internal/domain"
	"russify/internal/modules/admin"

	"go.uber.org/zap"
)

var editableStatuses = []domain.RequestStatus{
	domain.StatusPending,
	domain.StatusInProgress,
	domain.StatusCancelled,
}

// StatusOptions lists the statuses the admin may pick for a request that
// currently has status current. to_delete is never offered, and nothing is
// offered once a request is completed or marked for deletion.
func StatusOptions(current domain.RequestStatus) []domain.RequestStatus {
	if current.Terminal() {
		return nil
	}
	out := make([]domain.RequestStatus, len(editableStatuses))
	copy(out, editableStatuses)
	return out
}

// CanCompleteWork reports whether the complete-work action is shown.
func CanCompleteWork(current domain.RequestStatus) bool {
	return current == domain.StatusInProgress
}

// StatusController runs the admin mutations. Each one is fire and refresh:
// one call, and on success OnChange reloads the aggregate. Failures leave
// the caller's projection as it was.
type StatusController struct {
	client *Client

	// Confirm gates irreversible actions. nil refuses them.
	Confirm func(prompt string) bool
	// OnChange runs after every successful mutation.
	OnChange func(ctx context.Context) error
}

func (c *Client) StatusController() *StatusController {
	return &StatusController{client: c}
}

func (s *StatusController) SetStatus(ctx context.Context, req domain.ServiceRequest, status domain.RequestStatus) error {
	if req.Status == domain.StatusToDelete {
		return ErrStatusLocked
	}
	if !slices.Contains(StatusOptions(req.Status), status) {
		return ErrStatusNotAllowed
	}
	return s.post(ctx, admin.ActionUpdateStatus, admin.UpdateStatusRequest{RequestID: req.ID, Status: status})
}

// CompleteWork closes an in-progress request. Both amounts are sent exactly
// as given.
func (s *StatusController) CompleteWork(ctx context.Context, req domain.ServiceRequest, workCost float64, bonusEarned int64) error {
	if !CanCompleteWork(req.Status) {
		return ErrNotInProgress
	}
	if workCost < 0 || bonusEarned < 0 {
		return ErrNegativeAmount
	}
	return s.post(ctx, admin.ActionCompleteWork, admin.CompleteWorkRequest{
		RequestID:   req.ID,
		WorkCost:    &workCost,
		BonusEarned: &bonusEarned,
	})
}

func (s *StatusController) PayBonus(ctx context.Context, work domain.CompletedWork) error {
	if work.IsBonusPaid {
		return ErrBonusAlreadyPaid
	}
	return s.post(ctx, admin.ActionPayBonus, admin.PayBonusRequest{WorkID: work.ID})
}

// DeleteRequest asks Confirm first and sends nothing when it says no.
func (s *StatusController) DeleteRequest(ctx context.Context, req domain.ServiceRequest) error {
	if !s.confirm(fmt.Sprintf("Delete request #%d (%s %s)?", req.ID, req.CarBrand, req.CarModel)) {
		return ErrNotConfirmed
	}
	return s.post(ctx, admin.ActionDeleteRequest, admin.RequestIDRequest{RequestID: req.ID})
}

// MarkForDeletion moves the request to to_delete after confirmation. The
// request stays visible but can no longer be edited.
func (s *StatusController) MarkForDeletion(ctx context.Context, req domain.ServiceRequest) error {
	if req.Status == domain.StatusToDelete {
		return ErrStatusLocked
	}
	if !s.confirm(fmt.Sprintf("Mark request #%d for deletion?", req.ID)) {
		return ErrNotConfirmed
	}
	return s.post(ctx, admin.ActionMarkForDeletion, admin.RequestIDRequest{RequestID: req.ID})
}

func (s *StatusController) confirm(prompt string) bool {
	return s.Confirm != nil && s.Confirm(prompt)
}

func (s *StatusController) post(ctx context.Context, action string, payload any) error {
	body, err := withAction(action, payload)
	if err != nil {
		return err
	}
	if err := s.client.do(ctx, http.MethodPost, "/api/admin", nil, body, nil); err != nil {
		s.client.log.Warn("admin action failed", zap.String("action", action), zap.Error(err))
		return err
	}
	if s.OnChange == nil {
		return nil
	}
	if err := s.OnChange(ctx); err != nil {
		s.client.log.Warn("refresh after admin action failed", zap.String("action", action), zap.Error(err))
	}
	return nil
}
