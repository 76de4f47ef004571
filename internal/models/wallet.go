package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet buckets. Column names are used directly in increment/set statements.
const (
	BucketBalance                = "balance"
	BucketBalanceBonus           = "balance_bonus"
	BucketBalanceBonusRollover   = "balance_bonus_rollover"
	BucketBalanceWithdrawal      = "balance_withdrawal"
	BucketBalanceDepositRollover = "balance_deposit_rollover"
	BucketReferRewards           = "refer_rewards"
)

type Wallet struct {
	ID                     uint            `gorm:"primarykey" json:"id"`
	UserID                 uint            `gorm:"uniqueIndex;not null" json:"user_id"`
	Currency               string          `gorm:"default:'BRL'" json:"currency"`
	Balance                decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"balance"`
	BalanceBonus           decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"balance_bonus"`
	BalanceBonusRollover   decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"balance_bonus_rollover"`
	BalanceWithdrawal      decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"balance_withdrawal"`
	BalanceDepositRollover decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"balance_deposit_rollover"`
	ReferRewards           decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"refer_rewards"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
}

// IsBucket reports whether name is a mutable wallet bucket column.
func IsBucket(name string) bool {
	switch name {
	case BucketBalance, BucketBalanceBonus, BucketBalanceBonusRollover,
		BucketBalanceWithdrawal, BucketBalanceDepositRollover, BucketReferRewards:
		return true
	}
	return false
}
