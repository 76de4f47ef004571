package repositories

import (
	"context"
	"errors"

	"pixpay/internal/models"
)

var (
	ErrWalletNotFound    = errors.New("wallet not found")
	ErrDuplicateWallet   = errors.New("wallet already exists")
	ErrInvalidWalletData = errors.New("invalid wallet data")
)

// WalletRepository defines the interface for wallet-related database operations
type WalletRepository interface {
	Create(ctx context.Context, wallet *models.Wallet) error
	GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error)

	// LockByUserID loads the wallet row with a row-level write lock held
	// until the surrounding transaction ends.
	LockByUserID(ctx context.Context, userID uint) (*models.Wallet, error)

	// ApplyUpdates runs a single UPDATE for the wallet. Values may be
	// gorm expressions so increments stay atomic in SQL.
	ApplyUpdates(ctx context.Context, walletID uint, updates map[string]interface{}) error
}
