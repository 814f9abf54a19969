package middlewares

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"feedesk_backend/internals/configs"
	helper "feedesk_backend/internals/helpers"
)

// Global limiter: untuk semua endpoint biasa (RATE_LIMIT_PER_MINUTE, default 120)
func GlobalRateLimiter() fiber.Handler {
	max, err := strconv.Atoi(configs.GetEnv("RATE_LIMIT_PER_MINUTE", "120"))
	if err != nil || max <= 0 {
		max = 120
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, "too many requests, please try again later")
		},
	})
}

// Export limiter: XLSX dibangun in-memory, jadi dibatasi lebih ketat
func ExportRateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, "too many export requests, wait a minute")
		},
	})
}
