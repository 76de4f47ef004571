// Package payout sends pending withdrawals to the gateway and records the
// gateway proof once the transfer is accepted.
package payout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	apperrors "pixpay/internal/errors"
	"pixpay/internal/gateway/bspay"
	"pixpay/internal/models"
	"pixpay/internal/repositories"
	"pixpay/internal/repositories/cache"
	"pixpay/internal/services/settlement"
	"pixpay/internal/validation"

	"github.com/google/uuid"
)

const (
	description     = "Withdrawal payment"
	defaultLockTTL  = time.Minute
	fallbackPayeeID = "Customer"
)

type Config struct {
	Store    repositories.Store
	Gateways bspay.Opener
	Engine   *settlement.WithdrawalEngine
	Locker   cache.Locker
	LockTTL  time.Duration
}

type Service struct {
	store    repositories.Store
	gateways bspay.Opener
	engine   *settlement.WithdrawalEngine
	locker   cache.Locker
	lockTTL  time.Duration
}

func NewService(cfg Config) *Service {
	if cfg.Store == nil {
		panic("store is required")
	}
	if cfg.Gateways == nil {
		panic("gateway opener is required")
	}
	if cfg.Engine == nil {
		panic("withdrawal engine is required")
	}
	if cfg.Locker == nil {
		cfg.Locker = cache.NewLocalLocker()
	}
	if cfg.LockTTL == 0 {
		cfg.LockTTL = defaultLockTTL
	}
	return &Service{
		store:    cfg.Store,
		gateways: cfg.Gateways,
		engine:   cfg.Engine,
		locker:   cfg.Locker,
		lockTTL:  cfg.LockTTL,
	}
}

// Pay transfers a pending withdrawal through the gateway and marks it paid.
// The returned string is the proof stored on the withdrawal.
func (s *Service) Pay(ctx context.Context, withdrawalID uint, isAffiliate bool) (string, error) {
	w, err := s.pending(ctx, withdrawalID, isAffiliate)
	if err != nil {
		return "", err
	}

	release, ok, err := s.locker.TryLock(ctx, lockKey(withdrawalID, isAffiliate), s.lockTTL)
	if err != nil {
		return "", fmt.Errorf("acquire payout lock: %w", err)
	}
	if !ok {
		return "", apperrors.ErrSettlementInProgress
	}
	defer release()

	// Re-read under the lock; a concurrent payout may have finished.
	if w, err = s.pending(ctx, withdrawalID, isAffiliate); err != nil {
		return "", err
	}

	gw, err := s.gateways.Open(ctx)
	if err != nil {
		return "", err
	}
	res, err := gw.CreatePayout(ctx, bspay.PayoutParams{
		Amount:      w.Amount.Round(2).InexactFloat64(),
		ExternalID:  uuid.NewString(),
		Description: description,
		CreditParty: bspay.CreditParty{
			Name:    s.payeeName(ctx, w.UserID),
			Key:     w.PixKey,
			KeyType: bspay.PixKeyType(w.PixType),
			TaxID:   validation.OnlyDigits(w.Document),
		},
	})
	if err != nil {
		log.Printf("[payout] withdrawal %d (affiliate=%t) rejected by gateway: %v", withdrawalID, isAffiliate, err)
		return "", err
	}

	proof := res.TransactionID
	if proof == "" {
		proof = uuid.NewString()
	}
	paid, err := s.engine.SettleWithdrawal(ctx, withdrawalID, proof, isAffiliate)
	if err != nil {
		return "", fmt.Errorf("record payout proof: %w", err)
	}
	if !paid {
		return "", apperrors.ErrWithdrawalAlreadyPaid
	}
	return proof, nil
}

func (s *Service) pending(ctx context.Context, id uint, isAffiliate bool) (*models.Withdrawal, error) {
	w, err := s.store.Withdrawals().GetByID(ctx, id, isAffiliate)
	if err != nil {
		if errors.Is(err, repositories.ErrWithdrawalNotFound) {
			return nil, apperrors.ErrWithdrawalNotFound
		}
		return nil, err
	}
	if w.Status == models.WithdrawalStatusPaid {
		return nil, apperrors.ErrWithdrawalAlreadyPaid
	}
	return w, nil
}

func (s *Service) payeeName(ctx context.Context, userID uint) string {
	u, err := s.store.Users().GetByID(ctx, userID)
	if err != nil || u.Name == "" {
		return fallbackPayeeID
	}
	return u.Name
}

func lockKey(id uint, isAffiliate bool) string {
	kind := "withdrawal"
	if isAffiliate {
		kind = "affiliate"
	}
	return "payout:" + kind + ":" + strconv.FormatUint(uint64(id), 10)
}
