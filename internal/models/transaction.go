package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction statuses
const (
	TransactionStatusPending = "pending"
	TransactionStatusSettled = "settled"
)

const PaymentMethodPix = "pix"

// Transaction is the ledger entry of a payment intent, keyed by the gateway's payment id.
type Transaction struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	PaymentID     string          `gorm:"uniqueIndex;size:128;not null" json:"payment_id"`
	UserID        uint            `gorm:"not null;index" json:"user_id"`
	PaymentMethod string          `gorm:"size:32;not null;default:'pix'" json:"payment_method"`
	Price         decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"price"`
	Currency      string          `gorm:"size:8;not null;default:'BRL'" json:"currency"`
	Status        string          `gorm:"size:16;not null;default:'pending';index" json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
