package repositories

import (
	"context"
	"errors"
	"fmt"

	"pixpay/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrAffiliateHistoryNotFound = errors.New("affiliate history not found")

type AffiliateRepository interface {
	Create(ctx context.Context, history *models.AffiliateHistory) error

	// LockOpen returns the open record of the given commission type for a
	// referred user, locked for update.
	LockOpen(ctx context.Context, userID uint, commissionType string) (*models.AffiliateHistory, error)
	AddDeposited(ctx context.Context, historyID uint, amount decimal.Decimal) error
	MarkPaid(ctx context.Context, historyID uint, commission decimal.Decimal) error
	GetByID(ctx context.Context, historyID uint) (*models.AffiliateHistory, error)
}

type affiliateRepository struct {
	db *gorm.DB
}

func NewAffiliateRepository(db *gorm.DB) AffiliateRepository {
	return &affiliateRepository{db: db}
}

func (r *affiliateRepository) Create(ctx context.Context, history *models.AffiliateHistory) error {
	if err := r.db.WithContext(ctx).Create(history).Error; err != nil {
		return fmt.Errorf("failed to create affiliate history: %w", err)
	}
	return nil
}

func (r *affiliateRepository) LockOpen(ctx context.Context, userID uint, commissionType string) (*models.AffiliateHistory, error) {
	var history models.AffiliateHistory
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND status = ? AND commission_type = ?", userID, models.AffiliateStatusOpen, commissionType).
		Order("id").
		First(&history).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAffiliateHistoryNotFound
		}
		return nil, fmt.Errorf("failed to load affiliate history: %w", err)
	}
	return &history, nil
}

func (r *affiliateRepository) AddDeposited(ctx context.Context, historyID uint, amount decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&models.AffiliateHistory{}).
		Where("id = ?", historyID).
		Update("deposited_amount", gorm.Expr("deposited_amount + ?", amount))
	if result.Error != nil {
		return fmt.Errorf("failed to accumulate deposit: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAffiliateHistoryNotFound
	}
	return nil
}

func (r *affiliateRepository) MarkPaid(ctx context.Context, historyID uint, commission decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&models.AffiliateHistory{}).
		Where("id = ? AND status = ?", historyID, models.AffiliateStatusOpen).
		Updates(map[string]interface{}{
			"status":          models.AffiliateStatusPaid,
			"commission_paid": commission,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark commission paid: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAffiliateHistoryNotFound
	}
	return nil
}

func (r *affiliateRepository) GetByID(ctx context.Context, historyID uint) (*models.AffiliateHistory, error) {
	var history models.AffiliateHistory
	if err := r.db.WithContext(ctx).First(&history, historyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAffiliateHistoryNotFound
		}
		return nil, fmt.Errorf("failed to get affiliate history: %w", err)
	}
	return &history, nil
}
