// file: internals/features/fees/payments/controller/payment_controller.go
package controller

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	dto "feedesk_backend/internals/features/fees/payments/dto"
	"feedesk_backend/internals/features/fees/store"
	helper "feedesk_backend/internals/helpers"
)

type PaymentController struct {
	Store *store.Store
}

func NewPaymentController(st *store.Store) *PaymentController {
	return &PaymentController{Store: st}
}

func storeError(c *fiber.Ctx, op string, err error) error {
	status, msg := store.MapError(err)
	if status >= 500 {
		log.Printf("[ERROR] %s: %v", op, err)
	}
	return helper.JsonError(c, status, msg)
}

func parseStudentID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("studentId")))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid studentId")
	}
	return id, nil
}

/* =========================================================
   GET /api/payments/:studentId   (terbaru dulu)
========================================================= */

func (ctl *PaymentController) List(c *fiber.Ctx) error {
	sid, err := parseStudentID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	rows, err := ctl.Store.ListPayments(c.UserContext(), sid)
	if err != nil {
		return storeError(c, "list payments", err)
	}
	return helper.JsonOK(c, "ok", dto.FromModels(rows))
}

/* =========================================================
   POST /api/payments/:studentId   (upsert per student+month+year)
========================================================= */

func (ctl *PaymentController) Upsert(c *fiber.Ctx) error {
	sid, err := parseStudentID(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	var req dto.UpsertPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid JSON body: "+err.Error())
	}
	in, errs := req.Normalize()
	if len(errs) > 0 {
		return helper.JsonValidationError(c, errs)
	}

	p, err := ctl.Store.UpsertPayment(c.UserContext(), store.UpsertPayment{
		StudentID: sid,
		Month:     in.Month,
		Year:      in.Year,
		Amount:    in.Amount,
		Status:    in.Status,
		Mode:      in.Mode,
		Note:      in.Note,
	})
	if err != nil {
		return storeError(c, "upsert payment", err)
	}
	log.Printf("[INFO] payment upserted student=%s %s %d status=%s", sid, in.Month, in.Year, p.PaymentStatus)
	return helper.JsonOK(c, "payment saved", dto.FromModel(p))
}

/* =========================================================
   PATCH /api/payments/toggle   {student_id, month, year[, payment_mode]}
========================================================= */

func (ctl *PaymentController) Toggle(c *fiber.Ctx) error {
	var req dto.TogglePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid JSON body: "+err.Error())
	}
	in, errs := req.Normalize()
	if len(errs) > 0 {
		return helper.JsonValidationError(c, errs)
	}

	p, err := ctl.Store.TogglePayment(c.UserContext(), in.StudentID, in.Month, in.Year, in.Mode)
	if err != nil {
		return storeError(c, "toggle payment", err)
	}
	return helper.JsonUpdated(c, "payment toggled", dto.FromModel(p))
}
