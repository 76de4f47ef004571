package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DepositStatusPending = "pending"
	DepositStatusSettled = "settled"
)

// Deposit mirrors a Transaction one-to-one by PaymentID.
type Deposit struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	PaymentID   string          `gorm:"uniqueIndex;size:128;not null" json:"payment_id"`
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	Amount      decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	Type        string          `gorm:"size:32;not null;default:'pix'" json:"type"`
	AcceptBonus bool            `gorm:"not null;default:false" json:"accept_bonus"`
	Status      string          `gorm:"size:16;not null;default:'pending';index" json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
