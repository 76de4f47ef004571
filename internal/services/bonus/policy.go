// Package bonus holds the VIP bonus accrual applied on every settled deposit.
package bonus

import (
	"context"

	"pixpay/internal/models"
	"pixpay/internal/services/wallet"

	"github.com/shopspring/decimal"
)

// Input describes the deposit being settled.
type Input struct {
	UserID       uint
	Amount       decimal.Decimal
	FirstDeposit bool
	Setting      *models.Setting
}

// Policy returns the wallet mutations a deposit earns. They are applied by
// the caller in the same statement as the deposit credit.
type Policy interface {
	Accrue(ctx context.Context, in Input) ([]wallet.Mutation, error)
}

type NoopPolicy struct{}

func (NoopPolicy) Accrue(context.Context, Input) ([]wallet.Mutation, error) { return nil, nil }

// RatePolicy credits Setting.VipBonusRate percent of every deposit to balance_bonus.
type RatePolicy struct{}

func (RatePolicy) Accrue(_ context.Context, in Input) ([]wallet.Mutation, error) {
	if in.Setting == nil || !in.Setting.VipBonusRate.IsPositive() || !in.Amount.IsPositive() {
		return nil, nil
	}
	vip := in.Amount.Mul(in.Setting.VipBonusRate).Div(decimal.NewFromInt(100)).Round(2)
	if !vip.IsPositive() {
		return nil, nil
	}
	return []wallet.Mutation{wallet.Increment(models.BucketBalanceBonus, vip)}, nil
}
