// middlewares/cors.go

package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"feedesk_backend/internals/configs"
)

// CorsMiddleware: origin diambil dari CORS_ALLOW_ORIGINS (dipisah koma)
func CorsMiddleware() fiber.Handler {
	origins := configs.CorsAllowOrigins
	if origins == "" {
		origins = "*"
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, X-Request-ID",
		ExposeHeaders:    "X-Request-ID, Content-Disposition",
		AllowCredentials: origins != "*",
	})
}
