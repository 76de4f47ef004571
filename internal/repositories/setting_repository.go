package repositories

import (
	"context"
	"errors"
	"fmt"

	"pixpay/internal/models"

	"gorm.io/gorm"
)

var (
	ErrSettingNotFound = errors.New("settings not configured")
	ErrGatewayNotFound = errors.New("gateway not configured")
)

// SettingRepository reads the single-row configuration tables.
type SettingRepository interface {
	Get(ctx context.Context) (*models.Setting, error)
	Save(ctx context.Context, setting *models.Setting) error
	GetGateway(ctx context.Context) (*models.Gateway, error)
	SaveGateway(ctx context.Context, gateway *models.Gateway) error
	ListActiveSplits(ctx context.Context) ([]models.GatewaySplit, error)
}

type settingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) Get(ctx context.Context) (*models.Setting, error) {
	var setting models.Setting
	if err := r.db.WithContext(ctx).Order("id").First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return &setting, nil
}

func (r *settingRepository) Save(ctx context.Context, setting *models.Setting) error {
	if err := r.db.WithContext(ctx).Save(setting).Error; err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

func (r *settingRepository) GetGateway(ctx context.Context) (*models.Gateway, error) {
	var gateway models.Gateway
	if err := r.db.WithContext(ctx).Order("id").First(&gateway).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGatewayNotFound
		}
		return nil, fmt.Errorf("failed to load gateway: %w", err)
	}
	return &gateway, nil
}

func (r *settingRepository) SaveGateway(ctx context.Context, gateway *models.Gateway) error {
	if err := r.db.WithContext(ctx).Save(gateway).Error; err != nil {
		return fmt.Errorf("failed to save gateway: %w", err)
	}
	return nil
}

func (r *settingRepository) ListActiveSplits(ctx context.Context) ([]models.GatewaySplit, error) {
	var splits []models.GatewaySplit
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("id").Find(&splits).Error; err != nil {
		return nil, fmt.Errorf("failed to load splits: %w", err)
	}
	return splits, nil
}
