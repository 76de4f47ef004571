// Package routes wires services and handlers onto the fiber app.
package routes

import (
	"time"

	"pixpay/internal/config"
	"pixpay/internal/gateway/bspay"
	"pixpay/internal/handlers"
	"pixpay/internal/middleware"
	"pixpay/internal/models"
	"pixpay/internal/repositories"
	"pixpay/internal/repositories/cache"
	"pixpay/internal/services/affiliate"
	"pixpay/internal/services/auth"
	"pixpay/internal/services/bonus"
	"pixpay/internal/services/charge"
	"pixpay/internal/services/ledger"
	"pixpay/internal/services/notification"
	"pixpay/internal/services/payout"
	"pixpay/internal/services/settlement"
	"pixpay/internal/services/wallet"
	"pixpay/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the process-wide resources the routes are built from. Redis and
// Pusher are optional; without redis, locks and caching stay in-process.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Redis    *redis.Client
	Pusher   notification.Pusher
	Gateways bspay.Opener
	Metrics  settlement.MetricsCollector
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, deps Deps) error {
	cfg := deps.Config
	store := repositories.NewStore(deps.DB)

	// interfaces stay nil without redis
	var (
		cacheService *cache.CacheService
		appCache     cache.Cache
		walletCache  wallet.Cache
		locker       cache.Locker = cache.NewLocalLocker()
	)
	if deps.Redis != nil {
		cacheService = cache.NewCacheService(deps.Redis, 24*time.Hour)
		appCache = cacheService
		walletCache = cacheService
		locker = cache.NewRedisLocker(deps.Redis)
	}

	tokens, err := utils.NewTokenIssuer(cfg.JWT)
	if err != nil {
		return err
	}
	gateways := deps.Gateways
	if gateways == nil {
		gateways = bspay.NewFactory(store.Settings(), cfg.Gateway)
	}

	walletService := wallet.NewService(store, walletCache)
	ledgerService := ledger.NewService(store, appCache)
	notifier := notification.NewService(store, deps.Pusher)

	depositEngine := settlement.NewDepositEngine(settlement.DepositEngineConfig{
		Store:    store,
		Ledger:   ledgerService,
		Wallets:  walletService,
		Resolver: affiliate.NewResolver(walletService),
		Bonus:    bonus.RatePolicy{},
		Locker:   locker,
		Notifier: notifier,
		Metrics:  deps.Metrics,
	})
	withdrawalEngine := settlement.NewWithdrawalEngine(store, deps.Metrics)

	chargeService := charge.NewService(charge.Config{
		Store:     store,
		Ledger:    ledgerService,
		Gateways:  gateways,
		PublicURL: cfg.Server.PublicURL,
	})
	payoutService := payout.NewService(payout.Config{
		Store:    store,
		Gateways: gateways,
		Engine:   withdrawalEngine,
		Locker:   locker,
	})
	authService := auth.NewService(store.Users(), tokens)

	healthHandler := handlers.NewHealthHandler(deps.DB, cacheService)
	authHandler := handlers.NewAuthHandler(authService)
	webhookHandler := handlers.NewWebhookHandler(depositEngine, withdrawalEngine)
	paymentHandler := handlers.NewPaymentHandler(chargeService, ledgerService)
	walletHandler := handlers.NewWalletHandler(walletService)
	adminHandler := handlers.NewAdminHandler(payoutService, store.Withdrawals())
	authMiddleware := middleware.NewAuthMiddleware(tokens, authService)

	app.Get("/health", healthHandler.Check)

	// gateway postbacks
	app.Post("/bspay/callback", webhookHandler.DepositCallback)
	app.Post("/bspay/withdrawal/callback", webhookHandler.WithdrawalCallback)

	api := app.Group("/api")
	api.Post("/login", loginLimiter(), authHandler.Login)

	protected := api.Group("", authMiddleware.Handler)

	payments := protected.Group("/payments/bspay", middleware.HasPermission(models.PermissionPaymentWrite))
	payments.Post("/qrcode", paymentHandler.RequestQRCode)
	payments.Post("/consult-status", paymentHandler.ConsultStatus)

	protected.Get("/wallet", middleware.HasPermission(models.PermissionWalletRead), walletHandler.GetWallet)

	admin := protected.Group("/admin", middleware.AdminAuthMiddleware)
	admin.Get("/withdrawals", adminHandler.ListWithdrawals)
	admin.Post("/withdrawals/:id/pay", middleware.HasPermission(models.PermissionWithdrawalWrite), adminHandler.PayWithdrawal)
	admin.Get("/cache-stats", healthHandler.CacheStats)

	return nil
}

func loginLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        5,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	})
}
