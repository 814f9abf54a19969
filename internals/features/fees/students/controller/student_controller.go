// file: internals/features/fees/students/controller/student_controller.go
package controller

import (
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"feedesk_backend/internals/features/fees/reconciliation"
	"feedesk_backend/internals/features/fees/store"
	dto "feedesk_backend/internals/features/fees/students/dto"
	model "feedesk_backend/internals/features/fees/students/model"
	helper "feedesk_backend/internals/helpers"
	"feedesk_backend/internals/helpers/dbtime"
)

/* =========================
   Controller
========================= */

type StudentController struct {
	Store     *store.Store
	Validator *validator.Validate
}

func NewStudentController(st *store.Store) *StudentController {
	return &StudentController{Store: st, Validator: helper.NewValidator()}
}

func parseID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(name)))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

func storeError(c *fiber.Ctx, op string, err error) error {
	status, msg := store.MapError(err)
	if status >= 500 {
		log.Printf("[ERROR] %s: %v", op, err)
	}
	return helper.JsonError(c, status, msg)
}

/* =========================
   List
   GET /api/students?q=&page=&per_page=
========================= */

func (ctl *StudentController) List(c *fiber.Ctx) error {
	snap, err := ctl.Store.Snapshot(c.UserContext())
	if err != nil {
		return storeError(c, "list students", err)
	}

	rows := snap.Filter(c.Query("q"))
	p := helper.ResolvePaging(c, 20, 200)
	page, pagination := helper.PageSlice(rows, p)

	return helper.JsonList(c, "ok", dto.FromModels(page), &pagination)
}

/* =========================
   Get
   GET /api/students/:id
========================= */

func (ctl *StudentController) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	st, err := ctl.Store.GetStudent(c.UserContext(), id)
	if err != nil {
		return storeError(c, "get student", err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(st))
}

/* =========================
   Create
   POST /api/students
========================= */

func (ctl *StudentController) Create(c *fiber.Ctx) error {
	req, err := dto.DecodeCreate(c.Body(), c.App().Config().JSONDecoder)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid JSON body: "+err.Error())
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMessages(err))
	}

	rec := req.ToModel()
	if err := ctl.Store.CreateStudent(c.UserContext(), &rec); err != nil {
		return storeError(c, "create student", err)
	}
	log.Printf("[INFO] student created id=%s code=%s", rec.StudentID, rec.StudentCode)
	return helper.JsonCreated(c, "student created", dto.FromModel(rec))
}

/* =========================
   Patch
   PATCH /api/students/:id
========================= */

func (ctl *StudentController) Patch(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}

	var req dto.UpdateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid JSON body: "+err.Error())
	}
	if req.IsEmpty() {
		return helper.JsonError(c, fiber.StatusBadRequest, "no updatable fields in body")
	}
	if errs := req.Validate(); len(errs) > 0 {
		return helper.JsonValidationError(c, errs)
	}

	st, err := ctl.Store.UpdateStudent(c.UserContext(), id, func(m *model.Student) { req.Apply(m) })
	if err != nil {
		return storeError(c, "update student", err)
	}
	return helper.JsonUpdated(c, "student updated", dto.FromModel(st))
}

/* =========================
   Delete (soft)
   DELETE /api/students/:id
========================= */

func (ctl *StudentController) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	st, err := ctl.Store.DeleteStudent(c.UserContext(), id)
	if err != nil {
		return storeError(c, "delete student", err)
	}
	log.Printf("[INFO] student soft-deleted id=%s", id)
	return helper.JsonDeleted(c, "student deleted", dto.FromModel(st))
}

/* =========================
   Fee table (12 bulan)
   GET /api/students/:id/fees?year=
========================= */

func (ctl *StudentController) FeeTable(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	year, err := dbtime.ResolveYear(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	st, err := ctl.Store.GetStudent(c.UserContext(), id)
	if err != nil {
		return storeError(c, "fee table", err)
	}
	payments, err := ctl.Store.ListPayments(c.UserContext(), id)
	if err != nil {
		return storeError(c, "fee table", err)
	}

	months := reconciliation.MonthlyStatus(payments, year)
	return helper.JsonOK(c, "ok", dto.NewFeeTable(st, year, months))
}
