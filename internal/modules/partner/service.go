package partner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"russify/internal/domain"
	"russify/internal/modules/messaging"
	"russify/internal/repository"

	"go.uber.org/zap"
)

const minCarYear = 1950

type Service struct {
	requests RequestRepository
	works    WorkReader
	bonuses  BonusReader
	users    UserReader
	unread   UnreadFiller
	log      *zap.Logger
	now      func() time.Time
}

func NewService(requests RequestRepository, works WorkReader, bonuses BonusReader, users UserReader, unread UnreadFiller, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		requests: requests,
		works:    works,
		bonuses:  bonuses,
		users:    users,
		unread:   unread,
		log:      log,
		now:      time.Now,
	}
}

// CreateRequest files a new request for the partner. It always starts pending.
func (s *Service) CreateRequest(ctx context.Context, userID int64, in CreateRequestRequest) (*domain.ServiceRequest, error) {
	if !in.ServiceType.Valid() {
		return nil, ErrInvalidServiceType
	}
	if in.CarYear < minCarYear || in.CarYear > s.now().Year()+1 {
		return nil, ErrInvalidCarYear
	}

	req := &domain.ServiceRequest{
		UserID:      userID,
		ClientName:  strings.TrimSpace(in.ClientName),
		ClientPhone: strings.TrimSpace(in.ClientPhone),
		ClientEmail: trimmedOrNil(in.ClientEmail),
		CarBrand:    strings.TrimSpace(in.CarBrand),
		CarModel:    strings.TrimSpace(in.CarModel),
		CarYear:     in.CarYear,
		ServiceType: in.ServiceType,
		Description: trimmedOrNil(in.Description),
		Status:      domain.StatusPending,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	s.log.Info("service request created",
		zap.Int64("request_id", req.ID),
		zap.Int64("user_id", userID),
		zap.String("service_type", string(req.ServiceType)),
	)
	return req, nil
}

// Dashboard loads the partner aggregate: own requests with unread counts,
// completed works, bonus history and the refreshed account.
func (s *Service) Dashboard(ctx context.Context, userID int64) (*Dashboard, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	reqs, err := s.requests.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	if err := s.unread.FillUnread(ctx, messaging.Viewer{UserID: userID, Role: domain.RolePartner}, reqs); err != nil {
		return nil, fmt.Errorf("count unread: %w", err)
	}

	works, err := s.works.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list works: %w", err)
	}

	history, err := s.bonuses.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bonus history: %w", err)
	}

	return &Dashboard{
		Requests:     nonNil(reqs),
		Works:        nonNil(works),
		BonusHistory: nonNil(history),
		User:         user,
	}, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
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
