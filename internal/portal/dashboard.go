package portal

import (
	"context"
	"net/http"

	"russify/internal/domain"
	"russify/internal/modules/partner"

	"go.uber.org/zap"
)

// PartnerDashboard is the partner aggregate as served by GET /api/partner.
type PartnerDashboard struct {
	Requests     []domain.ServiceRequest   `json:"requests"`
	Works        []domain.CompletedWork    `json:"works"`
	BonusHistory []domain.BonusTransaction `json:"bonusHistory"`
	User         *domain.User              `json:"user"`
}

// AdminDashboard is the admin aggregate as served by GET /api/admin.
type AdminDashboard struct {
	Requests []domain.ServiceRequest `json:"requests"`
	Users    []domain.User           `json:"users"`
	Works    []domain.CompletedWork  `json:"works"`
}

// PartnerDashboard fetches the partner aggregate. The account in it is the
// authoritative bonus balance and refreshes the cached user.
func (c *Client) PartnerDashboard(ctx context.Context) (*PartnerDashboard, error) {
	var d PartnerDashboard
	if err := c.do(ctx, http.MethodGet, "/api/partner", nil, nil, &d); err != nil {
		return nil, err
	}
	if d.User != nil {
		if err := c.session.SetUser(d.User); err != nil {
			c.log.Warn("cache user failed", zap.Error(err))
		}
	}
	return &d, nil
}

func (c *Client) AdminDashboard(ctx context.Context) (*AdminDashboard, error) {
	var d AdminDashboard
	if err := c.do(ctx, http.MethodGet, "/api/admin", nil, nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// CreateRequest files a new service request as the logged-in partner.
func (c *Client) CreateRequest(ctx context.Context, in partner.CreateRequestRequest) (*domain.ServiceRequest, error) {
	var res struct {
		Request *domain.ServiceRequest `json:"request"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/partner", nil, in, &res); err != nil {
		return nil, err
	}
	return res.Request, nil
}
