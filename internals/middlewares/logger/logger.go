package logger

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"feedesk_backend/internals/configs"
)

// LoggerMiddleware untuk mencatat semua request
func LoggerMiddleware() fiber.Handler {
	tz := configs.SchoolTimezone
	if tz == "" {
		tz = "Asia/Kolkata"
	}
	return logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   tz,
		Format:     "[${time}] ${locals:reqid} ${ip} - ${method} ${path} - ${status} - ${latency}\n",
	})
}
