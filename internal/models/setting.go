package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Setting holds tenant-wide settlement configuration. One row.
type Setting struct {
	ID              uint            `gorm:"primarykey"`
	InitialBonus    decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"` // percent of the first deposit
	Rollover        decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
	RolloverDeposit decimal.Decimal `gorm:"type:numeric(10,2);not null;default:1"`
	DisableRollover bool            `gorm:"not null;default:false"`
	VipBonusRate    decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"` // percent of every deposit
	CurrencyCode    string          `gorm:"size:8;not null;default:'BRL'"`
	MinDeposit      decimal.Decimal `gorm:"type:numeric(20,2);not null;default:1"`
	MaxDeposit      decimal.Decimal `gorm:"type:numeric(20,2);not null;default:50000"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Gateway holds the BsPay credentials. One row.
type Gateway struct {
	ID                uint   `gorm:"primarykey"`
	BsPayURI          string `gorm:"column:bspay_uri;size:255"`
	BsPayClientID     string `gorm:"column:bspay_client_id;size:255"`
	BsPayClientSecret string `gorm:"column:bspay_client_secret;size:255" json:"-"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// GatewaySplit is a revenue-share recipient attached to every charge.
type GatewaySplit struct {
	ID              uint   `gorm:"primarykey"`
	Username        string `gorm:"size:128;not null"`
	PercentageSplit string `gorm:"size:16;not null"`
	Active          bool   `gorm:"not null;default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
