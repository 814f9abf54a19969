// Package views berisi template HTML cetak (kuitansi & laporan bulanan).
package views

import (
	"embed"
	"net/http"
	"time"

	"github.com/gofiber/template/html/v2"

	paymentModel "feedesk_backend/internals/features/fees/payments/model"
	helper "feedesk_backend/internals/helpers"
)

//go:embed *.html
var files embed.FS

// NewEngine: template engine untuk fiber.Config{Views: ...}.
func NewEngine() *html.Engine {
	engine := html.NewFileSystem(http.FS(files), ".html")
	engine.AddFunc("rupees", helper.FormatRupees)
	engine.AddFunc("amount", func(v *int64) string {
		if v == nil {
			return "-"
		}
		return helper.FormatRupees(*v)
	})
	engine.AddFunc("mode", func(m *paymentModel.PaymentMode) string {
		if m == nil {
			return "-"
		}
		return string(*m)
	})
	engine.AddFunc("date", func(t time.Time) string {
		return t.Format("02 January 2006")
	})
	engine.AddFunc("inc", func(i int) int { return i + 1 })
	return engine
}
