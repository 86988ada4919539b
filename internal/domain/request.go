package domain

import (
	"time"

	"gorm.io/gorm"
)

type ServiceType string

const (
	ServiceMultimedia ServiceType = "multimedia"
	ServiceDashboard  ServiceType = "dashboard"
	ServiceNavigation ServiceType = "navigation"
	ServiceClimate    ServiceType = "climate"
	ServiceFull       ServiceType = "full"
)

func (t ServiceType) Valid() bool {
	switch t {
	case ServiceMultimedia, ServiceDashboard, ServiceNavigation, ServiceClimate, ServiceFull:
		return true
	}
	return false
}

type RequestStatus string

const (
	StatusPending    RequestStatus = "pending"
	StatusInProgress RequestStatus = "in_progress"
	StatusCompleted  RequestStatus = "completed"
	StatusCancelled  RequestStatus = "cancelled"
	StatusToDelete   RequestStatus = "to_delete"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled, StatusToDelete:
		return true
	}
	return false
}

// Terminal statuses accept no further status edits.
func (s RequestStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusToDelete
}

// Editable reports whether s can be written by a plain status edit.
// completed needs the work payload and to_delete has its own action.
func (s RequestStatus) Editable() bool {
	return s == StatusPending || s == StatusInProgress || s == StatusCancelled
}

// ServiceRequest is a partner's request to russify one car.
type ServiceRequest struct {
	ID          int64         `json:"id" gorm:"primaryKey"`
	UserID      int64         `json:"user_id" gorm:"not null;index"`
	ClientName  string        `json:"client_name" gorm:"not null"`
	ClientPhone string        `json:"client_phone" gorm:"not null"`
	ClientEmail *string       `json:"client_email"`
	CarBrand    string        `json:"car_brand" gorm:"not null"`
	CarModel    string        `json:"car_model" gorm:"not null"`
	CarYear     int           `json:"car_year" gorm:"not null"`
	ServiceType ServiceType   `json:"service_type" gorm:"type:varchar(16);not null"`
	Description *string       `json:"description"`
	Status      RequestStatus `json:"status" gorm:"type:varchar(16);not null;default:'pending';index"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Filled per viewer role, not stored.
	UnreadCount int `json:"unread_count" gorm:"-"`
}

func (ServiceRequest) TableName() string {
	return "service_requests"
}
