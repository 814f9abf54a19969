package routes

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"feedesk_backend/internals/features/fees/store"
)

func BaseRoutes(app *fiber.App, db *gorm.DB, st *store.Store) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Fee desk backend is running 🚀")
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		dbStatus := "Connected"
		serverStatus := "OK"
		httpStatus := fiber.StatusOK

		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			dbStatus = "Database connection error"
			serverStatus = "DOWN"
			httpStatus = fiber.StatusServiceUnavailable
		}

		body := fiber.Map{
			"status":         serverStatus,
			"database":       dbStatus,
			"server_time":    time.Now().Format(time.RFC3339),
			"uptime_seconds": int(time.Since(startTime).Seconds()),
			"environment":    os.Getenv("RAILWAY_ENVIRONMENT"),
		}
		if taken := st.SnapshotTakenAt(); !taken.IsZero() {
			body["snapshot_taken_at"] = taken.Format(time.RFC3339)
		}
		return c.Status(httpStatus).JSON(body)
	})
}
