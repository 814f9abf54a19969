// file: internals/features/fees/reports/controller/report_controller.go
package controller

import (
	"bytes"
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"feedesk_backend/internals/features/fees/reconciliation"
	"feedesk_backend/internals/features/fees/reports/service"
	"feedesk_backend/internals/features/fees/store"
	helper "feedesk_backend/internals/helpers"
	"feedesk_backend/internals/helpers/dbtime"
)

type ReportController struct {
	Store *store.Store
}

func NewReportController(st *store.Store) *ReportController {
	return &ReportController{Store: st}
}

func storeError(c *fiber.Ctx, op string, err error) error {
	status, msg := store.MapError(err)
	if status >= 500 {
		log.Printf("[ERROR] %s: %v", op, err)
	}
	return helper.JsonError(c, status, msg)
}

func (ctl *ReportController) monthlyReport(c *fiber.Ctx) (service.MonthlyReport, error) {
	month, year, err := dbtime.ResolvePeriod(c)
	if err != nil {
		return service.MonthlyReport{}, err
	}
	snap, err := ctl.Store.Snapshot(c.UserContext())
	if err != nil {
		return service.MonthlyReport{}, err
	}
	q := strings.TrimSpace(c.Query("q"))
	return service.BuildMonthlyReport(snap, month, year, q, dbtime.NowInSchool(c)), nil
}

/* =========================================================
   GET /api/dashboard/stats?month=&year=
========================================================= */

func (ctl *ReportController) DashboardStats(c *fiber.Ctx) error {
	month, year, err := dbtime.ResolvePeriod(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	snap, err := ctl.Store.Snapshot(c.UserContext())
	if err != nil {
		return storeError(c, "dashboard stats", err)
	}
	return helper.JsonOK(c, "ok", fiber.Map{
		"month": month,
		"year":  year,
		"stats": reconciliation.ComputeStats(snap.Students, snap.Payments, month, year),
	})
}

/* =========================================================
   GET /api/reports/monthly?month=&year=&q=
========================================================= */

func (ctl *ReportController) MonthlyJSON(c *fiber.Ctx) error {
	r, err := ctl.monthlyReport(c)
	if err != nil {
		return ctl.fail(c, "monthly report", err)
	}
	return helper.JsonOK(c, "ok", r)
}

/* =========================================================
   GET /api/reports/monthly.xlsx?month=&year=&q=
========================================================= */

func (ctl *ReportController) MonthlyXLSX(c *fiber.Ctx) error {
	r, err := ctl.monthlyReport(c)
	if err != nil {
		return ctl.fail(c, "monthly xlsx", err)
	}

	var buf bytes.Buffer
	if err := service.WriteXLSX(&buf, r); err != nil {
		log.Printf("[ERROR] monthly xlsx: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to build spreadsheet")
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", service.ReportFilename(r)))
	return c.Send(buf.Bytes())
}

/* =========================================================
   GET /reports/monthly?month=&year=&q=   (HTML cetak)
========================================================= */

func (ctl *ReportController) MonthlyHTML(c *fiber.Ctx) error {
	r, err := ctl.monthlyReport(c)
	if err != nil {
		return ctl.fail(c, "monthly html", err)
	}
	return c.Render("monthly_report", fiber.Map{"Report": r})
}

/* =========================================================
   GET /receipts/:studentId?month=&year=   (HTML cetak)
========================================================= */

func (ctl *ReportController) Receipt(c *fiber.Ctx) error {
	sid, err := uuid.Parse(strings.TrimSpace(c.Params("studentId")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid studentId")
	}
	month, year, err := dbtime.ResolvePeriod(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	st, err := ctl.Store.GetStudent(c.UserContext(), sid)
	if err != nil {
		return storeError(c, "receipt", err)
	}
	payments, err := ctl.Store.ListPayments(c.UserContext(), sid)
	if err != nil {
		return storeError(c, "receipt", err)
	}

	rc := service.BuildReceipt(st, payments, month, year, dbtime.NowInSchool(c))
	if strings.EqualFold(c.Query("format"), "json") {
		return helper.JsonOK(c, "ok", rc)
	}
	return c.Render("receipt", fiber.Map{"Receipt": rc})
}

// fail: *fiber.Error (query invalid) apa adanya, selain itu lewat mapping store.
func (ctl *ReportController) fail(c *fiber.Ctx, op string, err error) error {
	if _, ok := err.(*fiber.Error); ok {
		return helper.FromError(c, err)
	}
	return storeError(c, op, err)
}
