package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"

	"feedesk_backend/internals/configs"
	"feedesk_backend/internals/helpers/dbtime"
	"feedesk_backend/internals/middlewares/logger"
)

// SetupMiddlewares memasang middleware global. Urutan penting: recover paling luar,
// supaya panic di compress/etag/handler tetap jadi envelope 500.
func SetupMiddlewares(app *fiber.App, requestTimeout time.Duration) {
	app.Use(RecoveryMiddleware())
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault})) // gzip
	app.Use(etag.New())                                                  // 304 caching
	app.Use(RequestContext(requestTimeout))
	app.Use(CorsMiddleware())
	app.Use(logger.LoggerMiddleware())
	app.Use(GlobalRateLimiter())
	app.Use(dbtime.SchoolTimezone(configs.SchoolLocation()))
}
