package admin

import (
	"context"
	"fmt"
	"time"

	"russify/internal/domain"
	"russify/internal/modules/messaging"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service runs the admin console. Reads go through the injected listers;
// every mutation runs in its own transaction on db.
type Service struct {
	db       *gorm.DB
	users    UserLister
	requests RequestLister
	works    WorkLister
	unread   UnreadFiller
	log      *zap.Logger
	now      func() time.Time
}

func NewService(
	db *gorm.DB,
	users UserLister,
	requests RequestLister,
	works WorkLister,
	unread UnreadFiller,
	log *zap.Logger,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		db:       db,
		users:    users,
		requests: requests,
		works:    works,
		unread:   unread,
		log:      log,
		now:      time.Now,
	}
}

// Aggregate loads every live request with the admin's unread counts, all
// accounts and all completed works.
func (s *Service) Aggregate(ctx context.Context, adminID int64) (*Aggregate, error) {
	reqs, err := s.requests.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	if err := s.unread.FillUnread(ctx, messaging.Viewer{UserID: adminID, Role: domain.RoleAdmin}, reqs); err != nil {
		return nil, fmt.Errorf("count unread: %w", err)
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	works, err := s.works.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list works: %w", err)
	}

	if reqs == nil {
		reqs = []domain.ServiceRequest{}
	}
	if users == nil {
		users = []domain.User{}
	}
	if works == nil {
		works = []domain.CompletedWork{}
	}
	return &Aggregate{Requests: reqs, Users: users, Works: works}, nil
}
