package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	WithdrawalStatusPending = "pending"
	WithdrawalStatusPaid    = "paid"
)

// Withdrawal is an ordinary payout request from a user's withdrawable balance.
type Withdrawal struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	UserID    uint            `gorm:"not null;index" json:"user_id"`
	Amount    decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	PixKey    string          `gorm:"size:128;not null" json:"pix_key"`
	PixType   string          `gorm:"size:32;not null" json:"pix_type"`
	Document  string          `gorm:"size:32" json:"document"`
	Status    string          `gorm:"size:16;not null;default:'pending';index" json:"status"`
	Proof     string          `gorm:"size:128" json:"proof"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// AffiliateWithdrawal is a payout of accumulated referral rewards.
type AffiliateWithdrawal struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	UserID    uint            `gorm:"not null;index" json:"user_id"`
	Amount    decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	PixKey    string          `gorm:"size:128;not null" json:"pix_key"`
	PixType   string          `gorm:"size:32;not null" json:"pix_type"`
	Document  string          `gorm:"size:32" json:"document"`
	Status    string          `gorm:"size:16;not null;default:'pending';index" json:"status"`
	Proof     string          `gorm:"size:128" json:"proof"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (AffiliateWithdrawal) TableName() string { return "affiliate_withdrawals" }
