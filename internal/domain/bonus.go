package domain

import "time"

type TransactionType string

const (
	TransactionEarned TransactionType = "earned"
	TransactionSpent  TransactionType = "spent"
)

// BonusTransaction is an append-only ledger entry for a partner.
type BonusTransaction struct {
	ID              int64           `json:"id" gorm:"primaryKey"`
	UserID          int64           `json:"user_id" gorm:"not null;index"`
	WorkID          *int64          `json:"work_id" gorm:"index"`
	TransactionType TransactionType `json:"transaction_type" gorm:"type:varchar(16);not null;check:transaction_type IN ('earned','spent')"`
	Amount          int64           `json:"amount" gorm:"not null"`
	Description     string          `json:"description"`
	CreatedAt       time.Time       `json:"created_at"`
}

func (BonusTransaction) TableName() string {
	return "bonus_transactions"
}
