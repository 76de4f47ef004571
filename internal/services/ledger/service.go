// Package ledger tracks payment intents from pending to settled.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"pixpay/internal/models"
	"pixpay/internal/repositories"
	"pixpay/internal/repositories/cache"

	"github.com/shopspring/decimal"
)

// ErrNotFound means no pending transaction exists for the payment id:
// it is unknown or already settled.
var ErrNotFound = errors.New("no pending transaction for payment")

type Status string

const (
	StatusPaid    Status = "PAID"
	StatusNotPaid Status = "NOPAID"
)

const statusCacheTTL = 24 * time.Hour

// PendingDeposit describes a charge accepted by the gateway.
type PendingDeposit struct {
	PaymentID   string
	UserID      uint
	Amount      decimal.Decimal
	Currency    string
	AcceptBonus bool
}

type Service struct {
	store repositories.Store
	cache cache.Cache
}

// NewService creates the ledger. cache may be nil.
func NewService(store repositories.Store, c cache.Cache) *Service {
	if store == nil {
		panic("store is required")
	}
	return &Service{store: store, cache: c}
}

// Finalize flips the pending transaction to settled through tx and returns
// it. A second call for the same id returns ErrNotFound.
func (s *Service) Finalize(ctx context.Context, tx repositories.Store, paymentID string) (*models.Transaction, error) {
	txn, err := tx.Transactions().MarkSettled(ctx, paymentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to finalize %s: %w", paymentID, err)
	}
	return txn, nil
}

// CountSettled counts the user's settled transactions other than excludePaymentID.
func (s *Service) CountSettled(ctx context.Context, tx repositories.Store, userID uint, excludePaymentID string) (int64, error) {
	return tx.Transactions().CountSettledByUser(ctx, userID, excludePaymentID)
}

// CreatePending records the transaction and its deposit together.
func (s *Service) CreatePending(ctx context.Context, tx repositories.Store, p PendingDeposit) error {
	currency := p.Currency
	if currency == "" {
		currency = "BRL"
	}
	if err := tx.Transactions().Create(ctx, &models.Transaction{
		PaymentID:     p.PaymentID,
		UserID:        p.UserID,
		PaymentMethod: models.PaymentMethodPix,
		Price:         p.Amount,
		Currency:      currency,
		Status:        models.TransactionStatusPending,
	}); err != nil {
		return err
	}
	return tx.Deposits().Create(ctx, &models.Deposit{
		PaymentID:   p.PaymentID,
		UserID:      p.UserID,
		Amount:      p.Amount,
		Type:        models.PaymentMethodPix,
		AcceptBonus: p.AcceptBonus,
		Status:      models.DepositStatusPending,
	})
}

// QueryStatus reports PAID when a settled transaction for paymentID belongs
// to userID. Payments of other users answer NOPAID.
func (s *Service) QueryStatus(ctx context.Context, userID uint, paymentID string) (Status, error) {
	key := fmt.Sprintf("payment:status:%d:%s", userID, paymentID)
	if s.cache != nil {
		var cached Status
		if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
			return cached, nil
		}
	}

	txn, err := s.store.Transactions().FindByPaymentID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return StatusNotPaid, nil
		}
		return StatusNotPaid, err
	}
	if txn.UserID != userID || txn.Status != models.TransactionStatusSettled {
		return StatusNotPaid, nil
	}

	// settled is terminal, only positive answers are cached
	if s.cache != nil {
		if err := s.cache.SetWithTTL(ctx, key, StatusPaid, statusCacheTTL); err != nil {
			log.Printf("[ledger] failed to cache status for %s: %v", paymentID, err)
		}
	}
	return StatusPaid, nil
}
