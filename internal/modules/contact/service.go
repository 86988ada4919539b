package contact

import (
	"context"
	"fmt"
	"strings"

	"russify/internal/domain"
	"russify/internal/pkg/validator"

	"go.uber.org/zap"
)

const defaultLeadType = "general"

type Service struct {
	repo  Repository
	relay Relay
	log   *zap.Logger
}

// NewService wires the contact form. relay may be nil, in which case leads
// are only stored.
func NewService(repo Repository, relay Relay, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, relay: relay, log: log}
}

// Submit stores the lead and then tries to forward it. A relay failure is
// logged and leaves the lead stored with relayed=false.
func (s *Service) Submit(ctx context.Context, in SubmitRequest) (*domain.ContactLead, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	if errs := validator.Validate(in); errs != nil {
		return nil, validator.Wrap(ErrValidation, errs)
	}

	lead := &domain.ContactLead{
		Name:    in.Name,
		Phone:   in.Phone,
		Car:     strings.TrimSpace(in.Car),
		Message: strings.TrimSpace(in.Message),
		Type:    strings.TrimSpace(in.Type),
	}
	if lead.Type == "" {
		lead.Type = defaultLeadType
	}
	if err := s.repo.Create(ctx, lead); err != nil {
		return nil, fmt.Errorf("store lead: %w", err)
	}

	s.log.Info("contact lead stored", zap.Int64("lead_id", lead.ID), zap.String("type", lead.Type))

	if s.relay == nil {
		return lead, nil
	}

	// The visitor's request may be gone by the time the relay answers.
	if err := s.relay.Forward(context.WithoutCancel(ctx), lead); err != nil {
		s.log.Warn("contact relay failed", zap.Int64("lead_id", lead.ID), zap.Error(err))
		return lead, nil
	}
	if err := s.repo.MarkRelayed(ctx, lead.ID); err != nil {
		s.log.Error("mark lead relayed", zap.Int64("lead_id", lead.ID), zap.Error(err))
		return lead, nil
	}
	lead.Relayed = true
	return lead, nil
}

// Recent lists the latest leads, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]domain.ContactLead, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return s.repo.ListRecent(ctx, limit)
}
