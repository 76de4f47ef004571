// Command seed creates the settings row, the gateway credentials row and
// the admin account. Existing rows are left untouched.
package main

import (
	"context"
	"errors"
	"log"
	"os"

	"pixpay/internal/config"
	"pixpay/internal/models"
	"pixpay/internal/repositories"
	"pixpay/internal/services/auth"
	"pixpay/internal/services/wallet"

	"github.com/shopspring/decimal"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set in environment")
	}

	if err := repositories.InitDB(cfg); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer repositories.Close()

	ctx := context.Background()
	store := repositories.NewStore(repositories.DB)

	if err := seedSettings(ctx, store); err != nil {
		log.Fatalf("Failed to seed settings: %v", err)
	}
	if err := seedGateway(ctx, store); err != nil {
		log.Fatalf("Failed to seed gateway: %v", err)
	}
	if err := seedAdmin(ctx, store, adminEmail, adminPassword); err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}
	log.Println("Seed complete")
}

func seedSettings(ctx context.Context, store repositories.Store) error {
	if _, err := store.Settings().Get(ctx); err == nil {
		log.Println("Settings already exist")
		return nil
	} else if !errors.Is(err, repositories.ErrSettingNotFound) {
		return err
	}
	return store.Settings().Save(ctx, &models.Setting{
		InitialBonus:    decimal.NewFromInt(int64(config.GetIntEnv("SEED_INITIAL_BONUS", 100))),
		Rollover:        decimal.NewFromInt(int64(config.GetIntEnv("SEED_ROLLOVER", 3))),
		RolloverDeposit: decimal.NewFromInt(int64(config.GetIntEnv("SEED_ROLLOVER_DEPOSIT", 1))),
		DisableRollover: config.GetBoolEnv("SEED_DISABLE_ROLLOVER", false),
		CurrencyCode:    "BRL",
		MinDeposit:      decimal.NewFromInt(int64(config.GetIntEnv("SEED_MIN_DEPOSIT", 10))),
		MaxDeposit:      decimal.NewFromInt(int64(config.GetIntEnv("SEED_MAX_DEPOSIT", 50000))),
	})
}

func seedGateway(ctx context.Context, store repositories.Store) error {
	if _, err := store.Settings().GetGateway(ctx); err == nil {
		log.Println("Gateway row already exists")
		return nil
	} else if !errors.Is(err, repositories.ErrGatewayNotFound) {
		return err
	}
	return store.Settings().SaveGateway(ctx, &models.Gateway{
		BsPayURI:          config.GetEnv("BSPAY_URI", "https://api.bspay.co"),
		BsPayClientID:     os.Getenv("BSPAY_CLIENT_ID"),
		BsPayClientSecret: os.Getenv("BSPAY_CLIENT_SECRET"),
	})
}

func seedAdmin(ctx context.Context, store repositories.Store, email, password string) error {
	if _, err := store.Users().GetByEmail(ctx, email); err == nil {
		log.Println("Admin user already exists")
		return nil
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		admin := &models.User{Name: "Administrator", Email: email, Password: hash, Role: models.RoleAdmin}
		if err := tx.Users().Create(ctx, admin); err != nil {
			return err
		}
		_, err := wallet.NewService(tx, nil).CreateWallet(ctx, admin.ID, "BRL")
		return err
	})
}
