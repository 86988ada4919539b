package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"russify/internal/domain"
	"russify/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// -------------------- Work / bonus ledger --------------------
//
// bonus_balance on users always equals earned minus spent transactions.
// Both sides change in the same transaction.

// CompleteWork records the work for an in-progress request, completes it
// and credits the partner with bonus_earned.
func (s *Service) CompleteWork(ctx context.Context, in CompleteWorkRequest) (*domain.CompletedWork, error) {
	if in.WorkCost == nil || in.BonusEarned == nil {
		return nil, ErrMissingWorkFields
	}
	if *in.WorkCost < 0 || *in.BonusEarned < 0 {
		return nil, ErrNegativeAmount
	}

	workDate := s.now()
	if in.WorkDate != nil && !in.WorkDate.IsZero() {
		workDate = *in.WorkDate
	}

	var work *domain.CompletedWork
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		requests := repository.NewRequestRepository(tx)
		works := repository.NewWorkRepository(tx)

		sr, err := lockRequest(ctx, requests, in.RequestID)
		if err != nil {
			return err
		}
		if sr.Status != domain.StatusInProgress {
			return ErrNotInProgress
		}

		work = &domain.CompletedWork{
			RequestID:   sr.ID,
			UserID:      sr.UserID,
			WorkCost:    *in.WorkCost,
			BonusEarned: *in.BonusEarned,
			WorkDate:    workDate,
			Notes:       trimmedOrNil(in.Notes),
		}
		if err := works.Create(ctx, work); err != nil {
			if repository.IsUniqueViolation(err) {
				return ErrWorkExists
			}
			return fmt.Errorf("create work: %w", err)
		}

		if err := requests.UpdateStatus(ctx, sr.ID, domain.StatusCompleted); err != nil {
			return err
		}

		return postBonus(ctx, tx, sr.UserID, &work.ID, domain.TransactionEarned, work.BonusEarned,
			fmt.Sprintf("Bonus for request #%d (%s %s)", sr.ID, sr.CarBrand, sr.CarModel))
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("work completed",
		zap.Int64("request_id", in.RequestID),
		zap.Int64("work_id", work.ID),
		zap.Float64("work_cost", work.WorkCost),
		zap.Int64("bonus_earned", work.BonusEarned),
	)
	return work, nil
}

// PayBonus settles a work's bonus exactly once. Later calls for the same
// work fail with ErrBonusAlreadyPaid and change nothing.
func (s *Service) PayBonus(ctx context.Context, workID int64) (*domain.CompletedWork, error) {
	var work *domain.CompletedWork
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		works := repository.NewWorkRepository(tx)

		w, err := works.GetForUpdate(ctx, workID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrWorkNotFound
			}
			return err
		}

		// conditional update; the row lock alone is not enough on sqlite
		flipped, err := works.MarkBonusPaid(ctx, w.ID)
		if err != nil {
			return err
		}
		if !flipped {
			return ErrBonusAlreadyPaid
		}
		w.IsBonusPaid = true
		work = w

		return postBonus(ctx, tx, w.UserID, &w.ID, domain.TransactionSpent, w.BonusEarned,
			fmt.Sprintf("Bonus payout for work #%d", w.ID))
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("bonus paid", zap.Int64("work_id", workID), zap.Int64("amount", work.BonusEarned))
	return work, nil
}

// postBonus appends a ledger entry and moves the balance with it. Zero
// amounts leave no trace.
func postBonus(ctx context.Context, tx *gorm.DB, userID int64, workID *int64, typ domain.TransactionType, amount int64, description string) error {
	if amount == 0 {
		return nil
	}

	txn := &domain.BonusTransaction{
		UserID:          userID,
		WorkID:          workID,
		TransactionType: typ,
		Amount:          amount,
		Description:     description,
		CreatedAt:       time.Now(),
	}
	if err := repository.NewBonusRepository(tx).Create(ctx, txn); err != nil {
		return fmt.Errorf("create bonus transaction: %w", err)
	}

	delta := amount
	if typ == domain.TransactionSpent {
		delta = -amount
	}
	if err := repository.NewUserRepository(tx).AddBonus(ctx, userID, delta); err != nil {
		return fmt.Errorf("update bonus balance: %w", err)
	}
	return nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
