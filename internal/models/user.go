package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	gorm.Model
	Name      string `gorm:"not null"`
	Email     string `gorm:"uniqueIndex;not null"`
	Password  string `gorm:"not null" json:"-"`
	Role      string `gorm:"default:'user';index"`
	InviterID *uint  `gorm:"index"`
	FCMToken  string `gorm:"size:255" json:"-"`

	// Thresholds applied when this user is the inviter of a referred depositor.
	AffiliatePercentageBaseline decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0"`
	AffiliateBaseline           decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0"`
	AffiliatePercentageRate     decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
	AffiliateCPA                decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0"`
}
