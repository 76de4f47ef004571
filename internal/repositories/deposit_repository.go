package repositories

import (
	"context"
	"errors"
	"fmt"

	"pixpay/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrDepositNotFound = errors.New("deposit not found")

type DepositRepository interface {
	Create(ctx context.Context, deposit *models.Deposit) error
	LockPendingByPaymentID(ctx context.Context, paymentID string) (*models.Deposit, error)
	MarkSettled(ctx context.Context, depositID uint) error
}

type depositRepository struct {
	db *gorm.DB
}

func NewDepositRepository(db *gorm.DB) DepositRepository {
	return &depositRepository{db: db}
}

func (r *depositRepository) Create(ctx context.Context, deposit *models.Deposit) error {
	if err := r.db.WithContext(ctx).Create(deposit).Error; err != nil {
		return fmt.Errorf("failed to create deposit: %w", err)
	}
	return nil
}

func (r *depositRepository) LockPendingByPaymentID(ctx context.Context, paymentID string) (*models.Deposit, error) {
	var deposit models.Deposit
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("payment_id = ? AND status = ?", paymentID, models.DepositStatusPending).
		First(&deposit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepositNotFound
		}
		return nil, fmt.Errorf("failed to load deposit: %w", err)
	}
	return &deposit, nil
}

func (r *depositRepository) MarkSettled(ctx context.Context, depositID uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.Deposit{}).
		Where("id = ? AND status = ?", depositID, models.DepositStatusPending).
		Update("status", models.DepositStatusSettled)
	if result.Error != nil {
		return fmt.Errorf("failed to settle deposit: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrDepositNotFound
	}
	return nil
}
