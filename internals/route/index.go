// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"feedesk_backend/internals/features/fees/store"
	"feedesk_backend/internals/middlewares"
	routeDetails "feedesk_backend/internals/route/details"
)

var startTime = time.Now()

func SetupRoutes(app *fiber.App, db *gorm.DB, st *store.Store) {
	startTime = time.Now()

	log.Println("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, db, st)

	log.Println("[INFO] Mounting /api fees routes...")
	api := app.Group("/api")
	api.Use("/reports/monthly.xlsx", middlewares.ExportRateLimiter())
	routeDetails.FeesAPIRoutes(api, st)

	log.Println("[INFO] Mounting printable pages...")
	routeDetails.FeesPageRoutes(app, st)
}
