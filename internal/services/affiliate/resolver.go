// Package affiliate pays referral commissions when a referred user deposits.
package affiliate

import (
	"context"
	"errors"
	"fmt"
	"log"

	"pixpay/internal/models"
	"pixpay/internal/repositories"
	"pixpay/internal/services/wallet"

	"github.com/shopspring/decimal"
)

type Tier string

const (
	TierNone       Tier = ""
	TierPercentage Tier = "percentage"
	TierCPA        Tier = "cpa"
)

var hundred = decimal.NewFromInt(100)

// Thresholds are the inviter's commission terms.
type Thresholds struct {
	PercentageBaseline decimal.Decimal
	CPABaseline        decimal.Decimal
	PercentageRate     decimal.Decimal // percent of the deposit
	CPAFlatAmount      decimal.Decimal
}

func ThresholdsFor(inviter *models.User) Thresholds {
	return Thresholds{
		PercentageBaseline: inviter.AffiliatePercentageBaseline,
		CPABaseline:        inviter.AffiliateBaseline,
		PercentageRate:     inviter.AffiliatePercentageRate,
		CPAFlatAmount:      inviter.AffiliateCPA,
	}
}

// Evaluate picks the tier for a deposit. The percentage tier is checked
// first and wins whenever both qualify.
func Evaluate(t Thresholds, deposited, amount decimal.Decimal) (Tier, decimal.Decimal) {
	if deposited.GreaterThanOrEqual(t.PercentageBaseline) || amount.GreaterThanOrEqual(t.PercentageBaseline) {
		return TierPercentage, amount.Mul(t.PercentageRate).Div(hundred).Round(2)
	}
	if deposited.GreaterThanOrEqual(t.CPABaseline) || amount.GreaterThanOrEqual(t.CPABaseline) {
		return TierCPA, t.CPAFlatAmount
	}
	return TierNone, decimal.Zero
}

// Commission is a payout made to an inviter.
type Commission struct {
	HistoryID uint
	InviterID uint
	Tier      Tier
	Amount    decimal.Decimal
}

type Resolver struct {
	wallets wallet.Service
}

func NewResolver(wallets wallet.Service) *Resolver {
	if wallets == nil {
		panic("wallet service is required")
	}
	return &Resolver{wallets: wallets}
}

// Resolve accumulates the deposit on the user's open cpa record and pays the
// inviter when a tier is reached. All writes go through tx. It returns nil
// when nothing was paid.
func (r *Resolver) Resolve(ctx context.Context, tx repositories.Store, userID uint, amount decimal.Decimal) (*Commission, error) {
	history, err := tx.Affiliates().LockOpen(ctx, userID, models.CommissionTypeCPA)
	if err != nil {
		if errors.Is(err, repositories.ErrAffiliateHistoryNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if err := tx.Affiliates().AddDeposited(ctx, history.ID, amount); err != nil {
		return nil, err
	}
	deposited := history.DepositedAmount.Add(amount)

	inviter, err := tx.Users().GetByID(ctx, history.InviterID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			log.Printf("[affiliate] inviter %d of user %d not found, keeping accumulation", history.InviterID, userID)
			return nil, nil
		}
		return nil, err
	}

	tier, commission := Evaluate(ThresholdsFor(inviter), deposited, amount)
	if tier == TierNone {
		return nil, nil
	}

	inviterWallet, err := tx.Wallets().LockByUserID(ctx, inviter.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			log.Printf("[affiliate] inviter %d has no wallet, keeping accumulation", inviter.ID)
			return nil, nil
		}
		return nil, err
	}

	if err := r.wallets.Apply(ctx, tx, inviterWallet.ID, wallet.Increment(models.BucketReferRewards, commission)); err != nil {
		return nil, fmt.Errorf("failed to credit inviter %d: %w", inviter.ID, err)
	}
	if err := tx.Affiliates().MarkPaid(ctx, history.ID, commission); err != nil {
		return nil, err
	}

	log.Printf("[affiliate] paid %s commission %s to inviter %d for user %d", tier, commission, inviter.ID, userID)
	return &Commission{
		HistoryID: history.ID,
		InviterID: inviter.ID,
		Tier:      tier,
		Amount:    commission,
	}, nil
}
