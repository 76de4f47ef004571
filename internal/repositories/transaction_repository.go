package repositories

import (
	"context"
	"errors"
	"fmt"

	"pixpay/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrTransactionNotFound = errors.New("transaction not found")

// TransactionRepository is the ledger store. Rows are keyed by the gateway payment id.
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	FindByPaymentID(ctx context.Context, paymentID string) (*models.Transaction, error)

	// MarkSettled moves a pending transaction to settled and returns it.
	// Only one caller can win; every other caller gets ErrTransactionNotFound.
	MarkSettled(ctx context.Context, paymentID string) (*models.Transaction, error)

	// CountSettledByUser counts settled transactions of a user, leaving out excludePaymentID.
	CountSettledByUser(ctx context.Context, userID uint, excludePaymentID string) (int64, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) FindByPaymentID(ctx context.Context, paymentID string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.WithContext(ctx).Where("payment_id = ?", paymentID).First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &tx, nil
}

func (r *transactionRepository) MarkSettled(ctx context.Context, paymentID string) (*models.Transaction, error) {
	var tx models.Transaction
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("payment_id = ? AND status = ?", paymentID, models.TransactionStatusPending).
		First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to load pending transaction: %w", err)
	}

	result := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ? AND status = ?", tx.ID, models.TransactionStatusPending).
		Update("status", models.TransactionStatusSettled)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to settle transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrTransactionNotFound
	}

	tx.Status = models.TransactionStatusSettled
	return &tx, nil
}

func (r *transactionRepository) CountSettledByUser(ctx context.Context, userID uint, excludePaymentID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("user_id = ? AND status = ? AND payment_id <> ?", userID, models.TransactionStatusSettled, excludePaymentID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count settled transactions: %w", err)
	}
	return count, nil
}
