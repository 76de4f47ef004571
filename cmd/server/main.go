// Package main is the entry point of the settlement API.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pixpay/internal/config"
	"pixpay/internal/repositories"
	"pixpay/internal/repositories/cache"
	"pixpay/internal/routes"
	"pixpay/internal/services/notification"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()

	if err := repositories.InitDB(cfg); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer repositories.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sqlDB, err := repositories.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats := sqlDB.Stats()
				log.Printf("[DB] Open=%d Idle=%d InUse=%d WaitCount=%d WaitDuration=%s",
					stats.OpenConnections, stats.Idle, stats.InUse, stats.WaitCount, stats.WaitDuration)
			}
		}
	}()
	go cache.MonitorPool(ctx, repositories.RedisClient, time.Minute)

	var pusher notification.Pusher
	if p := notification.NewFCMPusher(ctx, cfg.Firebase.CredentialsFile); p != nil {
		pusher = p
	}

	app := fiber.New(fiber.Config{
		AppName:      "pixpay",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	if err := routes.SetupRoutes(app, routes.Deps{
		Config: cfg,
		DB:     repositories.DB,
		Redis:  repositories.RedisClient,
		Pusher: pusher,
	}); err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}

	go func() {
		<-ctx.Done()
		log.Println("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
