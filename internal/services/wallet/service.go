package wallet

import (
	"context"
	"errors"
	"fmt"
	"log"

	apperrors "pixpay/internal/errors"
	"pixpay/internal/models"
	"pixpay/internal/repositories"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrConflictingMutation = errors.New("bucket is both set and incremented")

// Service defines the wallet balance manager.
type Service interface {
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, error)
	CreateWallet(ctx context.Context, userID uint, currency string) (*models.Wallet, error)

	// Apply runs the mutations as one statement through tx. The caller is
	// expected to hold the wallet row lock.
	Apply(ctx context.Context, tx repositories.Store, walletID uint, muts ...Mutation) error

	Invalidate(ctx context.Context, userIDs ...uint)
}

// Cache holds wallet snapshots keyed by user. *cache.CacheService implements it.
type Cache interface {
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, error)
	CacheWallet(ctx context.Context, wallet *models.Wallet) error
	InvalidateWallet(ctx context.Context, userID uint) error
}

type service struct {
	store repositories.Store
	cache Cache
}

// NewService creates a new wallet service. cache may be nil.
func NewService(store repositories.Store, c Cache) Service {
	if store == nil {
		panic("store is required")
	}
	return &service{
		store: store,
		cache: c,
	}
}

func (s *service) GetWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetWallet(ctx, userID); err == nil && cached != nil {
			return cached, nil
		}
	}

	wallet, err := s.store.Wallets().GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil, apperrors.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.CacheWallet(ctx, wallet); err != nil {
			log.Printf("[wallet] failed to cache wallet for user %d: %v", userID, err)
		}
	}
	return wallet, nil
}

func (s *service) CreateWallet(ctx context.Context, userID uint, currency string) (*models.Wallet, error) {
	if currency == "" {
		currency = "BRL"
	}
	wallet := &models.Wallet{
		UserID:   userID,
		Currency: currency,
	}
	if err := s.store.Wallets().Create(ctx, wallet); err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}
	return wallet, nil
}

func (s *service) Apply(ctx context.Context, tx repositories.Store, walletID uint, muts ...Mutation) error {
	updates, err := buildUpdates(muts)
	if err != nil {
		return err
	}
	if len(updates) == 0 {
		return nil
	}
	if err := tx.Wallets().ApplyUpdates(ctx, walletID, updates); err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return apperrors.ErrWalletNotFound
		}
		return err
	}
	return nil
}

func (s *service) Invalidate(ctx context.Context, userIDs ...uint) {
	if s.cache == nil {
		return
	}
	for _, id := range userIDs {
		if err := s.cache.InvalidateWallet(ctx, id); err != nil {
			log.Printf("[wallet] failed to invalidate cache for user %d: %v", id, err)
		}
	}
}

// buildUpdates folds the mutations into a column map. Increments of the
// same bucket are summed; a bucket cannot be both set and incremented.
func buildUpdates(muts []Mutation) (map[string]interface{}, error) {
	type acc struct {
		op     Op
		amount decimal.Decimal
	}
	folded := make(map[string]*acc, len(muts))

	for _, m := range muts {
		if !models.IsBucket(m.Bucket) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidBucket, m.Bucket)
		}
		if m.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: %s on %s", apperrors.ErrInvalidAmount, m.Amount, m.Bucket)
		}

		cur, ok := folded[m.Bucket]
		switch {
		case !ok:
			folded[m.Bucket] = &acc{op: m.Op, amount: m.Amount}
		case cur.op != m.Op:
			return nil, fmt.Errorf("%w: %s", ErrConflictingMutation, m.Bucket)
		case m.Op == OpIncrement:
			cur.amount = cur.amount.Add(m.Amount)
		default:
			// last set wins
			cur.amount = m.Amount
		}
	}

	updates := make(map[string]interface{}, len(folded))
	for bucket, a := range folded {
		if a.op == OpIncrement {
			if a.amount.IsZero() {
				continue
			}
			updates[bucket] = gorm.Expr(bucket+" + ?", a.amount)
			continue
		}
		updates[bucket] = a.amount
	}
	return updates, nil
}
