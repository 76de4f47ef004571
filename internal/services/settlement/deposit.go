// Package settlement applies gateway confirmations to the ledger, the
// wallets and the affiliate program.
package settlement

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	apperrors "pixpay/internal/errors"
	"pixpay/internal/models"
	"pixpay/internal/repositories"
	"pixpay/internal/repositories/cache"
	"pixpay/internal/services/affiliate"
	"pixpay/internal/services/bonus"
	"pixpay/internal/services/ledger"
	"pixpay/internal/services/notification"
	"pixpay/internal/services/wallet"

	"github.com/shopspring/decimal"
)

const (
	opSettleDeposit    = "settle_deposit"
	opSettleWithdrawal = "settle_withdrawal"

	defaultLockTTL = 30 * time.Second
)

var hundred = decimal.NewFromInt(100)

// Notifier receives events once a settlement has committed.
type Notifier interface {
	NotifyAdmins(ctx context.Context, ev notification.Event) error
}

type DepositEngineConfig struct {
	Store    repositories.Store
	Ledger   *ledger.Service
	Wallets  wallet.Service
	Resolver *affiliate.Resolver
	Bonus    bonus.Policy
	Locker   cache.Locker
	Notifier Notifier
	Metrics  MetricsCollector
	LockTTL  time.Duration
}

type DepositEngine struct {
	store    repositories.Store
	ledger   *ledger.Service
	wallets  wallet.Service
	resolver *affiliate.Resolver
	bonus    bonus.Policy
	locker   cache.Locker
	notifier Notifier
	metrics  MetricsCollector
	lockTTL  time.Duration
}

func NewDepositEngine(cfg DepositEngineConfig) *DepositEngine {
	if cfg.Store == nil {
		panic("store is required")
	}
	if cfg.Ledger == nil {
		panic("ledger is required")
	}
	if cfg.Wallets == nil {
		panic("wallet service is required")
	}
	if cfg.Resolver == nil {
		panic("affiliate resolver is required")
	}
	if cfg.Bonus == nil {
		cfg.Bonus = bonus.NoopPolicy{}
	}
	if cfg.Locker == nil {
		cfg.Locker = cache.NewLocalLocker()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = &NoopMetricsCollector{}
	}
	if cfg.LockTTL == 0 {
		cfg.LockTTL = defaultLockTTL
	}

	return &DepositEngine{
		store:    cfg.Store,
		ledger:   cfg.Ledger,
		wallets:  cfg.Wallets,
		resolver: cfg.Resolver,
		bonus:    cfg.Bonus,
		locker:   cfg.Locker,
		notifier: cfg.Notifier,
		metrics:  cfg.Metrics,
		lockTTL:  cfg.LockTTL,
	}
}

// settled is what a committed settlement did.
type settled struct {
	txn          *models.Transaction
	firstDeposit bool
	bonus        decimal.Decimal
	commission   *affiliate.Commission
	currency     string
}

// SettleDeposit applies a deposit confirmation. It returns false, nil when
// the payment id is unknown or already settled.
func (e *DepositEngine) SettleDeposit(ctx context.Context, paymentID string) (bool, error) {
	start := time.Now()
	defer func() {
		e.metrics.RecordOperationDuration(opSettleDeposit, time.Since(start))
	}()

	release, ok, err := e.locker.TryLock(ctx, "settle:deposit:"+paymentID, e.lockTTL)
	if err != nil {
		e.metrics.RecordError(opSettleDeposit, "lock")
		return false, err
	}
	if !ok {
		e.metrics.RecordOperationResult(opSettleDeposit, "in_progress")
		return false, apperrors.ErrSettlementInProgress
	}
	defer release()

	var result *settled
	err = e.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		var err error
		result, err = e.settle(ctx, tx, paymentID)
		return err
	})
	if err != nil {
		e.metrics.RecordError(opSettleDeposit, "rollback")
		log.Printf("[settlement] deposit %s rolled back: %v", paymentID, err)
		return false, err
	}
	if result == nil {
		e.metrics.RecordOperationResult(opSettleDeposit, "duplicate")
		log.Printf("[settlement] deposit %s has no pending transaction, ignoring", paymentID)
		return false, nil
	}

	e.afterCommit(ctx, paymentID, result)
	e.metrics.RecordOperationResult(opSettleDeposit, "settled")
	return true, nil
}

func (e *DepositEngine) settle(ctx context.Context, tx repositories.Store, paymentID string) (*settled, error) {
	txn, err := e.ledger.Finalize(ctx, tx, paymentID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	setting, err := tx.Settings().Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	prior, err := e.ledger.CountSettled(ctx, tx, txn.UserID, paymentID)
	if err != nil {
		return nil, err
	}
	firstDeposit := prior == 0

	deposit, err := tx.Deposits().LockPendingByPaymentID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, repositories.ErrDepositNotFound) {
			return nil, apperrors.ErrDepositNotFound
		}
		return nil, err
	}

	w, err := tx.Wallets().LockByUserID(ctx, txn.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil, apperrors.ErrWalletNotFound
		}
		return nil, err
	}

	amount := txn.Price
	var muts []wallet.Mutation

	bonusAmount := decimal.Zero
	if firstDeposit && deposit.AcceptBonus {
		bonusAmount = amount.Mul(setting.InitialBonus).Div(hundred).Round(2)
		if bonusAmount.IsPositive() {
			muts = append(muts, wallet.Increment(models.BucketBalanceBonus, bonusAmount))
			if !setting.DisableRollover {
				muts = append(muts, wallet.Set(models.BucketBalanceBonusRollover, bonusAmount.Mul(setting.Rollover).Round(2)))
			}
		}
	}

	vip, err := e.bonus.Accrue(ctx, bonus.Input{
		UserID:       txn.UserID,
		Amount:       amount,
		FirstDeposit: firstDeposit,
		Setting:      setting,
	})
	if err != nil {
		return nil, fmt.Errorf("bonus policy failed: %w", err)
	}
	muts = append(muts, vip...)

	if setting.DisableRollover {
		muts = append(muts, wallet.Increment(models.BucketBalanceWithdrawal, amount))
	} else {
		muts = append(muts,
			wallet.Increment(models.BucketBalance, amount),
			wallet.Set(models.BucketBalanceDepositRollover, amount.Mul(setting.RolloverDeposit).Round(2)),
		)
	}

	if err := e.wallets.Apply(ctx, tx, w.ID, muts...); err != nil {
		return nil, err
	}

	if err := tx.Deposits().MarkSettled(ctx, deposit.ID); err != nil {
		if errors.Is(err, repositories.ErrDepositNotFound) {
			return nil, apperrors.ErrDepositNotFound
		}
		return nil, err
	}

	commission, err := e.resolver.Resolve(ctx, tx, txn.UserID, amount)
	if err != nil {
		return nil, fmt.Errorf("affiliate resolution failed: %w", err)
	}

	return &settled{
		txn:          txn,
		firstDeposit: firstDeposit,
		bonus:        bonusAmount,
		commission:   commission,
		currency:     setting.CurrencyCode,
	}, nil
}

func (e *DepositEngine) afterCommit(ctx context.Context, paymentID string, r *settled) {
	touched := []uint{r.txn.UserID}
	if r.commission != nil {
		touched = append(touched, r.commission.InviterID)
		e.metrics.RecordCommission(string(r.commission.Tier), r.commission.Amount.InexactFloat64())
	}
	e.wallets.Invalidate(ctx, touched...)

	log.Printf("[settlement] deposit %s settled: user=%d amount=%s first=%t bonus=%s",
		paymentID, r.txn.UserID, r.txn.Price, r.firstDeposit, r.bonus)

	if e.notifier == nil {
		return
	}
	currency := r.currency
	if currency == "" {
		currency = r.txn.Currency
	}
	if err := e.notifier.NotifyAdmins(ctx, notification.DepositConfirmed(paymentID, r.txn.UserID, r.txn.Price, currency)); err != nil {
		log.Printf("[settlement] failed to notify admins of %s: %v", paymentID, err)
	}
}
