package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	CommissionTypeCPA      = "cpa"
	CommissionTypeRevShare = "revshare"
)

const (
	AffiliateStatusOpen = "open"
	AffiliateStatusPaid = "paid"
)

// AffiliateHistory tracks a referred user's deposits toward the inviter's commission.
// Created at registration, paid at most once.
type AffiliateHistory struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	UserID          uint            `gorm:"not null;index" json:"user_id"`
	InviterID       uint            `gorm:"not null;index" json:"inviter_id"`
	CommissionType  string          `gorm:"size:16;not null;default:'cpa'" json:"commission_type"`
	DepositedAmount decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"deposited_amount"`
	CommissionPaid  decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"commission_paid"`
	Status          string          `gorm:"size:16;not null;default:'open';index" json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
