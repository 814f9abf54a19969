// file: internals/features/fees/payments/route/payment_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	paymentController "feedesk_backend/internals/features/fees/payments/controller"
	"feedesk_backend/internals/features/fees/store"
)

func PaymentRoutes(r fiber.Router, st *store.Store) {
	ctl := paymentController.NewPaymentController(st)

	payments := r.Group("/payments")
	{
		// /toggle harus didaftarkan sebelum /:studentId
		payments.Patch("/toggle", ctl.Toggle)
		payments.Get("/:studentId", ctl.List)
		payments.Post("/:studentId", ctl.Upsert)
	}
}
