// file: internals/route/details/fees_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"

	paymentRoute "feedesk_backend/internals/features/fees/payments/route"
	reportRoute "feedesk_backend/internals/features/fees/reports/route"
	"feedesk_backend/internals/features/fees/store"
	studentRoute "feedesk_backend/internals/features/fees/students/route"
)

// FeesAPIRoutes: semua endpoint JSON di bawah /api.
func FeesAPIRoutes(api fiber.Router, st *store.Store) {
	studentRoute.StudentRoutes(api, st)
	paymentRoute.PaymentRoutes(api, st)
	reportRoute.ReportAPIRoutes(api, st)
}

// FeesPageRoutes: halaman HTML (kuitansi, laporan cetak).
func FeesPageRoutes(app fiber.Router, st *store.Store) {
	reportRoute.ReportPageRoutes(app, st)
}
