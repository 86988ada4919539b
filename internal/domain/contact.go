package domain

import "time"

// ContactLead is a site-wide contact form submission.
type ContactLead struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Phone     string    `json:"phone" gorm:"not null"`
	Car       string    `json:"car"`
	Message   string    `json:"message"`
	Type      string    `json:"type" gorm:"index"`
	Relayed   bool      `json:"relayed" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
}

func (ContactLead) TableName() string {
	return "contact_leads"
}
