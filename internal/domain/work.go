package domain

import "time"

// CompletedWork settles one completed request. Exactly one row exists per
// request and IsBonusPaid only ever flips from false to true.
type CompletedWork struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	RequestID   int64     `json:"request_id" gorm:"not null;uniqueIndex"`
	UserID      int64     `json:"user_id" gorm:"not null;index"`
	WorkCost    float64   `json:"work_cost" gorm:"not null"`
	BonusEarned int64     `json:"bonus_earned" gorm:"not null"`
	IsBonusPaid bool      `json:"is_bonus_paid" gorm:"not null;default:false"`
	WorkDate    time.Time `json:"work_date" gorm:"not null"`
	Notes       *string   `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
}

func (CompletedWork) TableName() string {
	return "completed_works"
}
