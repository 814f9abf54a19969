package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	"feedesk_backend/internals/configs"
	database "feedesk_backend/internals/databases"
	"feedesk_backend/internals/features/fees/reports/views"
	"feedesk_backend/internals/features/fees/scheduler"
	"feedesk_backend/internals/features/fees/store"
	middlewares "feedesk_backend/internals/middlewares"
	routes "feedesk_backend/internals/route"
)

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		Views:                   views.NewEngine(),
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	// ⚙️ recover → compress/etag → Request-ID + timeout (selaras statement_timeout DB) → cors/log/limit
	middlewares.SetupMiddlewares(app, 5*time.Second)

	// 🔌 DB connect + pool + migrate + warm-up
	database.ConnectDB()
	database.TunePool()
	if err := database.Migrate(database.DB); err != nil {
		log.Fatalf("[ERROR] migrate failed: %v", err)
	}
	database.WarmUpQueries()

	// 📚 snapshot students/payments
	st := store.New(database.DB)
	if err := st.Refresh(context.Background()); err != nil {
		log.Printf("[WARN] initial snapshot load failed (akan dicoba lagi saat request): %v", err)
	}

	// ⏱ scheduler setelah DB siap
	refresher, err := scheduler.StartSnapshotRefresher(st, configs.SnapshotRefreshCron)
	if err != nil {
		log.Fatalf("[ERROR] %v", err)
	}

	// ✅ Routes
	routes.SetupRoutes(app, database.DB, st)

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := configs.GetEnv("PORT", "3000")

	// Start server non-blocking
	go func() {
		log.Printf("✅ Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown + tutup pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	<-refresher.Stop().Done()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
