package domain

import "time"

type UserRole string

const (
	RolePartner UserRole = "partner"
	RoleAdmin   UserRole = "admin"
)

// User is either a partner (external business) or an admin (company staff).
// BonusBalance is denormalized: it always equals earned minus spent
// BonusTransactions and is only changed inside ledger transactions.
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	CompanyName  *string   `json:"company_name"`
	Phone        string    `json:"phone" gorm:"not null;uniqueIndex"`
	Email        *string   `json:"email" gorm:"uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	Role         UserRole  `json:"user_role" gorm:"column:user_role;type:varchar(16);not null;default:'partner'"`
	BonusBalance int64     `json:"bonus_balance" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// SenderType maps a role to the message lane it writes into.
func (r UserRole) SenderType() SenderType {
	if r == RoleAdmin {
		return SenderCompany
	}
	return SenderClient
}
