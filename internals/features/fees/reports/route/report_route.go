// file: internals/features/fees/reports/route/report_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	reportController "feedesk_backend/internals/features/fees/reports/controller"
	"feedesk_backend/internals/features/fees/store"
)

// ReportAPIRoutes dipasang di bawah /api.
func ReportAPIRoutes(r fiber.Router, st *store.Store) {
	ctl := reportController.NewReportController(st)

	r.Get("/dashboard/stats", ctl.DashboardStats)

	reports := r.Group("/reports")
	{
		reports.Get("/monthly.xlsx", ctl.MonthlyXLSX)
		reports.Get("/monthly", ctl.MonthlyJSON)
	}
}

// ReportPageRoutes: halaman HTML siap cetak.
func ReportPageRoutes(app fiber.Router, st *store.Store) {
	ctl := reportController.NewReportController(st)

	app.Get("/reports/monthly", ctl.MonthlyHTML)
	app.Get("/receipts/:studentId", ctl.Receipt)
}
