// file: internals/features/fees/students/dto/student_dto.go
package dto

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"feedesk_backend/internals/features/fees/reconciliation"
	model "feedesk_backend/internals/features/fees/students/model"
)

/* =========================================================
   PATCH FIELD (tri-state: absent / null / value)
========================================================= */

type PatchField[T any] struct {
	Present bool
	Value   *T
}

func (p *PatchField[T]) UnmarshalJSON(b []byte) error {
	p.Present = true
	if string(b) == "null" {
		p.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	p.Value = &v
	return nil
}

func (p PatchField[T]) Get() (*T, bool) { return p.Value, p.Present }

/* =========================================================
   FLEX FEE (number atau string angka, data lama kirim "1500")
========================================================= */

type FlexInt64 struct {
	Set   bool
	Value int64
}

func (f *FlexInt64) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		return nil
	}
	s = strings.TrimSpace(strings.Trim(s, `"`))
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		f.Set, f.Value = true, n
		return nil
	}
	// "1500.0" masih boleh; pecahan, NaN, Inf & di luar int64 ditolak
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) || v < math.MinInt64 || v >= math.MaxInt64 {
		return fmt.Errorf("invalid amount %q: must be a whole number", s)
	}
	f.Set, f.Value = true, int64(v)
	return nil
}

/* =========================================================
   MONGO EXTENDED JSON ({"$oid": ...}, {"$date": ...})
========================================================= */

// LegacyOID menerima "abc" maupun {"$oid":"abc"}.
type LegacyOID string

func (o *LegacyOID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '{' {
		var w struct {
			OID string `json:"$oid"`
		}
		if err := json.Unmarshal(b, &w); err != nil {
			return err
		}
		*o = LegacyOID(w.OID)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*o = LegacyOID(s)
	return nil
}

// LegacyTime menerima RFC3339 string maupun {"$date": "..."} / {"$date": millis}.
type LegacyTime struct {
	Time *time.Time
}

func (t *LegacyTime) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	raw := b
	if len(b) > 0 && b[0] == '{' {
		var w struct {
			Date json.RawMessage `json:"$date"`
		}
		if err := json.Unmarshal(b, &w); err != nil {
			return err
		}
		raw = w.Date
	}
	var ms int64
	if err := json.Unmarshal(raw, &ms); err == nil {
		v := time.UnixMilli(ms).UTC()
		t.Time = &v
		return nil
	}
	var v time.Time
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	t.Time = &v
	return nil
}

/* =========================================================
   CREATE (canonical + legacy aliases)
========================================================= */

// CreateStudentRequest menerima nama field kanonik dan juga nama lama
// dari export mongo / frontend lama (name, studentId, class, className,
// village, section, guardian, guardianName, monthlyFee).
type CreateStudentRequest struct {
	StudentName         string  `json:"student_name"          validate:"required,min=1,max=120"`
	StudentCode         string  `json:"student_code"          validate:"required,min=1,max=40"`
	StudentClassName    string  `json:"student_class_name"    validate:"required,min=1,max=40"`
	StudentSection      *string `json:"student_section"       validate:"omitempty,max=80"`
	StudentPhone        string  `json:"student_phone"         validate:"omitempty,max=20"`
	StudentGuardianName string  `json:"student_guardian_name" validate:"omitempty,max=120"`
	StudentMonthlyFee   *int64  `json:"student_monthly_fee"   validate:"required,gte=0"`
}

// LegacyStudent adalah bentuk dokumen lama. Semua alias dipetakan di ToCreate.
type LegacyStudent struct {
	ID           LegacyOID  `json:"_id"`
	Name         string     `json:"name"`
	StudentID    string     `json:"studentId"`
	Class        string     `json:"class"`
	ClassName    string     `json:"className"`
	Village      *string    `json:"village"`
	Section      *string    `json:"section"`
	Phone        string     `json:"phone"`
	Guardian     string     `json:"guardian"`
	GuardianName string     `json:"guardianName"`
	MonthlyFee   FlexInt64  `json:"monthlyFee"`
	IsDeleted    bool       `json:"isDeleted"`
	CreatedAt    LegacyTime `json:"createdAt"`
}

// createBody is what POST /api/students actually decodes: canonical fields
// win, legacy ones fill the gaps.
type createBody struct {
	CreateStudentRequest
	LegacyStudent
	RawFee FlexInt64 `json:"student_monthly_fee"`
}

// DecodeCreate parses a POST body that may use either naming scheme.
func DecodeCreate(body []byte, unmarshal func([]byte, any) error) (CreateStudentRequest, error) {
	var b createBody
	if err := unmarshal(body, &b); err != nil {
		return CreateStudentRequest{}, err
	}
	req := b.CreateStudentRequest
	if b.RawFee.Set {
		v := b.RawFee.Value
		req.StudentMonthlyFee = &v
	}
	req.ApplyLegacy(b.LegacyStudent)
	req.Normalize()
	return req, nil
}

// ApplyLegacy mengisi field kanonik yang kosong dari alias lama.
func (r *CreateStudentRequest) ApplyLegacy(l LegacyStudent) {
	r.StudentName = firstNonEmpty(r.StudentName, l.Name)
	r.StudentCode = firstNonEmpty(r.StudentCode, l.StudentID)
	r.StudentClassName = firstNonEmpty(r.StudentClassName, l.ClassName, l.Class)
	r.StudentPhone = firstNonEmpty(r.StudentPhone, l.Phone)
	r.StudentGuardianName = firstNonEmpty(r.StudentGuardianName, l.Guardian, l.GuardianName)
	if r.StudentSection == nil {
		switch {
		case l.Section != nil:
			r.StudentSection = l.Section
		case l.Village != nil:
			r.StudentSection = l.Village
		}
	}
	if r.StudentMonthlyFee == nil && l.MonthlyFee.Set {
		v := l.MonthlyFee.Value
		r.StudentMonthlyFee = &v
	}
}

// ToCreate mengubah dokumen lama menjadi request kanonik (dipakai seeder).
func (l LegacyStudent) ToCreate() CreateStudentRequest {
	var r CreateStudentRequest
	r.ApplyLegacy(l)
	r.Normalize()
	return r
}

func (r *CreateStudentRequest) Normalize() {
	r.StudentName = strings.TrimSpace(r.StudentName)
	r.StudentCode = strings.TrimSpace(r.StudentCode)
	r.StudentClassName = strings.TrimSpace(r.StudentClassName)
	r.StudentPhone = strings.TrimSpace(r.StudentPhone)
	r.StudentGuardianName = strings.TrimSpace(r.StudentGuardianName)
	r.StudentSection = trimPtr(r.StudentSection)
}

func (r CreateStudentRequest) ToModel() model.Student {
	var fee int64
	if r.StudentMonthlyFee != nil {
		fee = *r.StudentMonthlyFee
	}
	return model.Student{
		StudentName:         r.StudentName,
		StudentCode:         r.StudentCode,
		StudentClassName:    r.StudentClassName,
		StudentSection:      r.StudentSection,
		StudentPhone:        r.StudentPhone,
		StudentGuardianName: r.StudentGuardianName,
		StudentMonthlyFee:   fee,
	}
}

/* =========================================================
   PATCH
========================================================= */

type UpdateStudentRequest struct {
	StudentName         PatchField[string] `json:"student_name"`
	StudentClassName    PatchField[string] `json:"student_class_name"`
	StudentSection      PatchField[string] `json:"student_section"`
	StudentPhone        PatchField[string] `json:"student_phone"`
	StudentGuardianName PatchField[string] `json:"student_guardian_name"`
	StudentMonthlyFee   PatchField[int64]  `json:"student_monthly_fee"`
}

// Validate returns per-field messages; empty map means ok.
func (r UpdateStudentRequest) Validate() map[string][]string {
	errs := map[string][]string{}
	requiredText := func(key string, f PatchField[string], max int) {
		v, ok := f.Get()
		if !ok {
			return
		}
		if v == nil || strings.TrimSpace(*v) == "" {
			errs[key] = append(errs[key], "must not be empty")
			return
		}
		if len(strings.TrimSpace(*v)) > max {
			errs[key] = append(errs[key], "too long (max "+strconv.Itoa(max)+")")
		}
	}
	requiredText("student_name", r.StudentName, 120)
	requiredText("student_class_name", r.StudentClassName, 40)

	if v, ok := r.StudentMonthlyFee.Get(); ok {
		if v == nil {
			errs["student_monthly_fee"] = append(errs["student_monthly_fee"], "must not be null")
		} else if *v < 0 {
			errs["student_monthly_fee"] = append(errs["student_monthly_fee"], "must be >= 0")
		}
	}
	if v, ok := r.StudentPhone.Get(); ok && v != nil && len(strings.TrimSpace(*v)) > 20 {
		errs["student_phone"] = append(errs["student_phone"], "too long (max 20)")
	}
	if v, ok := r.StudentSection.Get(); ok && v != nil && len(strings.TrimSpace(*v)) > 80 {
		errs["student_section"] = append(errs["student_section"], "too long (max 80)")
	}
	return errs
}

func (r UpdateStudentRequest) IsEmpty() bool {
	return !r.StudentName.Present && !r.StudentClassName.Present && !r.StudentSection.Present &&
		!r.StudentPhone.Present && !r.StudentGuardianName.Present && !r.StudentMonthlyFee.Present
}

// Apply menulis field yang dikirim ke model. Panggil Validate dulu.
func (r UpdateStudentRequest) Apply(m *model.Student) {
	if v, ok := r.StudentName.Get(); ok && v != nil {
		m.StudentName = strings.TrimSpace(*v)
	}
	if v, ok := r.StudentClassName.Get(); ok && v != nil {
		m.StudentClassName = strings.TrimSpace(*v)
	}
	if v, ok := r.StudentSection.Get(); ok {
		m.StudentSection = trimPtr(v)
	}
	if v, ok := r.StudentPhone.Get(); ok {
		m.StudentPhone = derefTrim(v)
	}
	if v, ok := r.StudentGuardianName.Get(); ok {
		m.StudentGuardianName = derefTrim(v)
	}
	if v, ok := r.StudentMonthlyFee.Get(); ok && v != nil {
		m.StudentMonthlyFee = *v
	}
}

/* =========================================================
   RESPONSE
========================================================= */

type StudentResponse struct {
	StudentID           uuid.UUID `json:"student_id"`
	StudentName         string    `json:"student_name"`
	StudentCode         string    `json:"student_code"`
	StudentClassName    string    `json:"student_class_name"`
	StudentSection      *string   `json:"student_section,omitempty"`
	StudentPhone        string    `json:"student_phone"`
	StudentGuardianName string    `json:"student_guardian_name"`
	StudentMonthlyFee   int64     `json:"student_monthly_fee"`
	StudentIsDeleted    bool      `json:"student_is_deleted"`
	StudentCreatedAt    time.Time `json:"student_created_at"`
	StudentUpdatedAt    time.Time `json:"student_updated_at"`
}

func FromModel(m model.Student) StudentResponse {
	return StudentResponse{
		StudentID:           m.StudentID,
		StudentName:         m.StudentName,
		StudentCode:         m.StudentCode,
		StudentClassName:    m.StudentClassName,
		StudentSection:      m.StudentSection,
		StudentPhone:        m.StudentPhone,
		StudentGuardianName: m.StudentGuardianName,
		StudentMonthlyFee:   m.StudentMonthlyFee,
		StudentIsDeleted:    m.StudentIsDeleted,
		StudentCreatedAt:    m.StudentCreatedAt,
		StudentUpdatedAt:    m.StudentUpdatedAt,
	}
}

func FromModels(xs []model.Student) []StudentResponse {
	out := make([]StudentResponse, 0, len(xs))
	for _, it := range xs {
		out = append(out, FromModel(it))
	}
	return out
}

// FeeTableResponse adalah tabel 12 bulan untuk satu siswa.
type FeeTableResponse struct {
	Student StudentResponse              `json:"student"`
	Year    int                          `json:"year"`
	Months  []reconciliation.MonthStatus `json:"months"`
	Paid    int                          `json:"paid_months"`
	Unpaid  int                          `json:"unpaid_months"`
}

func NewFeeTable(st model.Student, year int, months []reconciliation.MonthStatus) FeeTableResponse {
	out := FeeTableResponse{Student: FromModel(st), Year: year, Months: months}
	for _, m := range months {
		if m.IsPaid() {
			out.Paid++
		} else {
			out.Unpaid++
		}
	}
	return out
}

/* =========================================================
   small utils
========================================================= */

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	if s == "" {
		return nil
	}
	return &s
}

func derefTrim(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}
