// file: internals/features/fees/payments/dto/payment_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"feedesk_backend/internals/constants"
	model "feedesk_backend/internals/features/fees/payments/model"
)

/* =========================================================
   UPSERT  POST /api/payments/:studentId
========================================================= */

// UpsertPaymentRequest: month/year/amount wajib; status default PAID.
// Alias lama (month, year, amount, status, paymentMode, mode) tetap diterima.
type UpsertPaymentRequest struct {
	PaymentMonth  string  `json:"payment_month"`
	PaymentYear   int     `json:"payment_year"`
	PaymentAmount *int64  `json:"payment_amount"`
	PaymentStatus string  `json:"payment_status"`
	PaymentMode   string  `json:"payment_mode"`
	PaymentNote   *string `json:"payment_note"`

	Month      string  `json:"month"`
	Year       int     `json:"year"`
	Amount     *int64  `json:"amount"`
	Status     string  `json:"status"`
	LegacyMode string  `json:"paymentMode"`
	ShortMode  string  `json:"mode"`
	LegacyNote *string `json:"note"`
}

// Normalized adalah hasil validasi UpsertPaymentRequest.
type Normalized struct {
	Month  constants.Month
	Year   int
	Amount int64
	Status model.PaymentStatus
	Mode   *model.PaymentMode
	Note   *string
}

// Normalize menggabungkan alias lalu memvalidasi. Error dikembalikan per field.
func (r UpsertPaymentRequest) Normalize() (Normalized, map[string][]string) {
	errs := map[string][]string{}
	var out Normalized

	monthRaw := firstNonEmpty(r.PaymentMonth, r.Month)
	if monthRaw == "" {
		errs["payment_month"] = append(errs["payment_month"], "is required")
	} else if m, err := constants.ParseMonth(monthRaw); err != nil {
		errs["payment_month"] = append(errs["payment_month"], err.Error())
	} else {
		out.Month = m
	}

	out.Year = r.PaymentYear
	if out.Year == 0 {
		out.Year = r.Year
	}
	if out.Year == 0 {
		errs["payment_year"] = append(errs["payment_year"], "is required")
	} else if out.Year < 2000 || out.Year > 2100 {
		errs["payment_year"] = append(errs["payment_year"], "must be between 2000 and 2100")
	}

	amount := r.PaymentAmount
	if amount == nil {
		amount = r.Amount
	}
	switch {
	case amount == nil:
		errs["payment_amount"] = append(errs["payment_amount"], "is required")
	case *amount < 0:
		errs["payment_amount"] = append(errs["payment_amount"], "must be >= 0")
	default:
		out.Amount = *amount
	}

	out.Status = model.PaymentStatusPaid
	if s := strings.ToUpper(firstNonEmpty(r.PaymentStatus, r.Status)); s != "" {
		out.Status = model.PaymentStatus(s)
		if !out.Status.Valid() {
			errs["payment_status"] = append(errs["payment_status"], "must be PAID or UNPAID")
		}
	}

	if md, ok := ParseMode(firstNonEmpty(r.PaymentMode, r.LegacyMode, r.ShortMode)); !ok {
		errs["payment_mode"] = append(errs["payment_mode"], "must be ONLINE or CASH")
	} else {
		out.Mode = md
	}

	out.Note = r.PaymentNote
	if out.Note == nil {
		out.Note = r.LegacyNote
	}
	if out.Note != nil {
		n := strings.TrimSpace(*out.Note)
		out.Note = &n
	}

	return out, errs
}

/* =========================================================
   TOGGLE  PATCH /api/payments/toggle
========================================================= */

type TogglePaymentRequest struct {
	StudentID   string `json:"student_id"`
	LegacyID    string `json:"studentId"`
	Month       string `json:"month"`
	Year        int    `json:"year"`
	PaymentMode string `json:"payment_mode"`
	ShortMode   string `json:"mode"`
}

type NormalizedToggle struct {
	StudentID uuid.UUID
	Month     constants.Month
	Year      int
	Mode      *model.PaymentMode
}

func (r TogglePaymentRequest) Normalize() (NormalizedToggle, map[string][]string) {
	errs := map[string][]string{}
	var out NormalizedToggle

	if id, err := uuid.Parse(firstNonEmpty(r.StudentID, r.LegacyID)); err != nil {
		errs["student_id"] = append(errs["student_id"], "must be a valid uuid")
	} else {
		out.StudentID = id
	}
	if m, err := constants.ParseMonth(r.Month); err != nil {
		errs["month"] = append(errs["month"], err.Error())
	} else {
		out.Month = m
	}
	if r.Year < 2000 || r.Year > 2100 {
		errs["year"] = append(errs["year"], "must be between 2000 and 2100")
	} else {
		out.Year = r.Year
	}
	if md, ok := ParseMode(firstNonEmpty(r.PaymentMode, r.ShortMode)); !ok {
		errs["payment_mode"] = append(errs["payment_mode"], "must be ONLINE or CASH")
	} else {
		out.Mode = md
	}
	return out, errs
}

/* =========================================================
   RESPONSE
========================================================= */

type PaymentResponse struct {
	PaymentID        uuid.UUID           `json:"payment_id"`
	PaymentStudentID uuid.UUID           `json:"payment_student_id"`
	PaymentMonth     constants.Month     `json:"payment_month"`
	PaymentYear      int                 `json:"payment_year"`
	PaymentStatus    model.PaymentStatus `json:"payment_status"`
	PaymentMode      *model.PaymentMode  `json:"payment_mode,omitempty"`
	PaymentAmount    int64               `json:"payment_amount"`
	PaymentPaidAt    *time.Time          `json:"payment_paid_at,omitempty"`
	PaymentNote      *string             `json:"payment_note,omitempty"`
	PaymentCreatedAt time.Time           `json:"payment_created_at"`
	PaymentUpdatedAt time.Time           `json:"payment_updated_at"`
}

func FromModel(p model.Payment) PaymentResponse {
	out := PaymentResponse{
		PaymentID:        p.PaymentID,
		PaymentStudentID: p.PaymentStudentID,
		PaymentMonth:     p.PaymentMonth,
		PaymentYear:      p.PaymentYear,
		PaymentStatus:    p.PaymentStatus,
		PaymentMode:      p.PaymentMode,
		PaymentAmount:    p.PaymentAmount,
		PaymentPaidAt:    p.PaymentPaidAt,
		PaymentCreatedAt: p.PaymentCreatedAt,
		PaymentUpdatedAt: p.PaymentUpdatedAt,
	}
	if n, ok := p.PaymentMeta["note"].(string); ok && n != "" {
		out.PaymentNote = &n
	}
	return out
}

func FromModels(xs []model.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(xs))
	for _, it := range xs {
		out = append(out, FromModel(it))
	}
	return out
}

/* =========================================================
   utils
========================================================= */

// ParseMode: "" → (nil, true); ONLINE/CASH case-insensitive; lainnya invalid.
func ParseMode(s string) (*model.PaymentMode, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return nil, true
	}
	m := model.PaymentMode(s)
	if !m.Valid() {
		return nil, false
	}
	return &m, true
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
