package middlewares

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	helper "feedesk_backend/internals/helpers"
)

// RecoveryMiddleware menangkap panic (dan error non-fiber) jadi envelope 500 standar.
func RecoveryMiddleware() fiber.Handler {
	recoverer := recover.New(recover.Config{
		EnableStackTrace: true, // stack trace dicetak saat panic
	})
	return func(c *fiber.Ctx) error {
		err := recoverer(c)
		if err == nil {
			return nil
		}
		if _, ok := err.(*fiber.Error); ok {
			return err
		}
		log.Printf("[ERROR] unhandled %s %s reqid=%v: %v", c.Method(), c.OriginalURL(), c.Locals("reqid"), err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
