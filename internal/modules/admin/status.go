package admin

import (
	"context"
	"errors"

	"russify/internal/domain"
	"russify/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// -------------------- Status transitions --------------------
//
// pending <-> in_progress <-> cancelled are plain edits. completed is only
// reached through CompleteWork and to_delete only through MarkForDeletion;
// both accept no further edits.

// SetStatus writes one of the plain statuses.
func (s *Service) SetStatus(ctx context.Context, requestID int64, status domain.RequestStatus) (*domain.ServiceRequest, error) {
	if !status.Editable() {
		return nil, ErrInvalidStatus
	}

	var out *domain.ServiceRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		requests := repository.NewRequestRepository(tx)

		sr, err := lockRequest(ctx, requests, requestID)
		if err != nil {
			return err
		}
		if sr.Status.Terminal() {
			return ErrInvalidStatusTransition
		}

		if err := requests.UpdateStatus(ctx, sr.ID, status); err != nil {
			return err
		}
		sr.Status = status
		out = sr
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("request status changed", zap.Int64("request_id", requestID), zap.String("status", string(status)))
	return out, nil
}

// MarkForDeletion moves a non-terminal request to to_delete.
func (s *Service) MarkForDeletion(ctx context.Context, requestID int64) (*domain.ServiceRequest, error) {
	var out *domain.ServiceRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		requests := repository.NewRequestRepository(tx)

		sr, err := lockRequest(ctx, requests, requestID)
		if err != nil {
			return err
		}
		if sr.Status == domain.StatusToDelete {
			out = sr
			return nil
		}
		if !sr.Status.Editable() {
			return ErrInvalidStatusTransition
		}

		if err := requests.UpdateStatus(ctx, sr.ID, domain.StatusToDelete); err != nil {
			return err
		}
		sr.Status = domain.StatusToDelete
		out = sr
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("request marked for deletion", zap.Int64("request_id", requestID))
	return out, nil
}

// DeleteRequest soft-deletes a request so it drops out of every aggregate.
// Works and ledger rows of a completed request are kept.
func (s *Service) DeleteRequest(ctx context.Context, requestID int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		requests := repository.NewRequestRepository(tx)

		sr, err := lockRequest(ctx, requests, requestID)
		if err != nil {
			return err
		}
		return requests.Delete(ctx, sr.ID)
	})
	if err != nil {
		return err
	}

	s.log.Info("request deleted", zap.Int64("request_id", requestID))
	return nil
}

func lockRequest(ctx context.Context, requests *repository.RequestRepository, id int64) (*domain.ServiceRequest, error) {
	sr, err := requests.GetForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return sr, nil
}
