// Package repositories provides data access layer implementations.
// It handles all database operations and data persistence logic.
package repositories

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"pixpay/internal/config"
	"pixpay/internal/models"
	"pixpay/internal/repositories/cache"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the global database instance used across the application.
var DB *gorm.DB
var RedisClient *redis.Client
var CacheService *cache.CacheService

// AllModels lists every table owned by the service, in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Wallet{},
		&models.Transaction{},
		&models.Deposit{},
		&models.AffiliateHistory{},
		&models.Withdrawal{},
		&models.AffiliateWithdrawal{},
		&models.Setting{},
		&models.Gateway{},
		&models.GatewaySplit{},
		&models.Notification{},
	}
}

// Migrate applies the schema to db.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// InitDB connects Postgres and Redis, then migrates the schema.
func InitDB(cfg *config.Config) error {
	db, err := openPostgres(cfg.Database)
	if err != nil {
		return err
	}
	DB = db

	RedisClient = cache.NewRedisClient(&cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := cache.Ping(context.Background(), RedisClient); err != nil {
		return err
	}
	CacheService = cache.NewCacheService(RedisClient, 24*time.Hour)

	if err := Migrate(DB); err != nil {
		return err
	}
	log.Println("[DB] PostgreSQL connected & migrations applied")
	return nil
}

func openPostgres(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, cfg.SSLMode)

	// ignore "record not found", the repositories map it to sentinels
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  !config.IsProduction(),
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         newLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

// Close releases the global connections.
func Close() {
	if CacheService != nil {
		if err := CacheService.Close(); err != nil {
			log.Printf("[DB] failed to close redis: %v", err)
		}
	}
	if DB != nil {
		if sqlDB, err := DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
}
