package repositories

import (
	"context"
	"errors"
	"fmt"

	"pixpay/internal/models"

	"gorm.io/gorm"
)

var ErrWithdrawalNotFound = errors.New("withdrawal not found")

// WithdrawalRepository serves both withdrawal tables. Affiliate rows are
// read into models.Withdrawal since both tables share their columns.
type WithdrawalRepository interface {
	Create(ctx context.Context, w *models.Withdrawal, isAffiliate bool) error
	GetByID(ctx context.Context, id uint, isAffiliate bool) (*models.Withdrawal, error)

	// MarkPaid flips a pending withdrawal to paid with the given proof.
	// It reports false when the row was not pending.
	MarkPaid(ctx context.Context, id uint, proof string, isAffiliate bool) (bool, error)

	ListByStatus(ctx context.Context, status string, isAffiliate bool, offset, limit int) ([]models.Withdrawal, int64, error)
}

type withdrawalRepository struct {
	db *gorm.DB
}

func NewWithdrawalRepository(db *gorm.DB) WithdrawalRepository {
	return &withdrawalRepository{db: db}
}

func withdrawalTable(isAffiliate bool) string {
	if isAffiliate {
		return models.AffiliateWithdrawal{}.TableName()
	}
	return "withdrawals"
}

func (r *withdrawalRepository) Create(ctx context.Context, w *models.Withdrawal, isAffiliate bool) error {
	var err error
	if isAffiliate {
		row := models.AffiliateWithdrawal{
			UserID:   w.UserID,
			Amount:   w.Amount,
			PixKey:   w.PixKey,
			PixType:  w.PixType,
			Document: w.Document,
			Status:   w.Status,
		}
		err = r.db.WithContext(ctx).Create(&row).Error
		w.ID, w.CreatedAt, w.UpdatedAt = row.ID, row.CreatedAt, row.UpdatedAt
	} else {
		err = r.db.WithContext(ctx).Create(w).Error
	}
	if err != nil {
		return fmt.Errorf("failed to create withdrawal: %w", err)
	}
	return nil
}

func (r *withdrawalRepository) GetByID(ctx context.Context, id uint, isAffiliate bool) (*models.Withdrawal, error) {
	var w models.Withdrawal
	err := r.db.WithContext(ctx).Table(withdrawalTable(isAffiliate)).Where("id = ?", id).Take(&w).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWithdrawalNotFound
		}
		return nil, fmt.Errorf("failed to get withdrawal: %w", err)
	}
	return &w, nil
}

func (r *withdrawalRepository) MarkPaid(ctx context.Context, id uint, proof string, isAffiliate bool) (bool, error) {
	result := r.db.WithContext(ctx).
		Table(withdrawalTable(isAffiliate)).
		Where("id = ? AND status = ?", id, models.WithdrawalStatusPending).
		Updates(map[string]interface{}{
			"status":     models.WithdrawalStatusPaid,
			"proof":      proof,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to mark withdrawal paid: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *withdrawalRepository) ListByStatus(ctx context.Context, status string, isAffiliate bool, offset, limit int) ([]models.Withdrawal, int64, error) {
	q := r.db.WithContext(ctx).Table(withdrawalTable(isAffiliate)).Where("status = ?", status).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count withdrawals: %w", err)
	}

	var items []models.Withdrawal
	if err := q.Order("id").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list withdrawals: %w", err)
	}
	return items, total, nil
}
