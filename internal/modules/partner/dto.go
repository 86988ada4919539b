package partner

import "russify/internal/domain"

type CreateRequestRequest struct {
	ClientName  string             `json:"client_name" binding:"required,max=255"`
	ClientPhone string             `json:"client_phone" binding:"required,max=32"`
	ClientEmail *string            `json:"client_email" binding:"omitempty,email"`
	CarBrand    string             `json:"car_brand" binding:"required,max=100"`
	CarModel    string             `json:"car_model" binding:"required,max=100"`
	CarYear     int                `json:"car_year" binding:"required"`
	ServiceType domain.ServiceType `json:"service_type" binding:"required"`
	Description *string            `json:"description"`
}

// Dashboard is everything the partner portal renders in one fetch.
type Dashboard struct {
	Requests     []domain.ServiceRequest   `json:"requests"`
	Works        []domain.CompletedWork    `json:"works"`
	BonusHistory []domain.BonusTransaction `json:"bonusHistory"`
	User         *domain.User              `json:"user"`
}
