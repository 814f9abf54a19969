// file: internals/features/fees/students/model/student_model.go
package model

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

// =========================================================
// MODEL
// =========================================================

type Student struct {
	// PK
	StudentID uuid.UUID `gorm:"column:student_id;type:uuid;primaryKey" json:"student_id"`

	StudentName string `gorm:"column:student_name;type:varchar(120);not null" json:"student_name"`

	// Roll no. (unik di antara siswa aktif, case-insensitive lewat student_code_key)
	StudentCode    string `gorm:"column:student_code;type:varchar(40);not null" json:"student_code"`
	StudentCodeKey string `gorm:"column:student_code_key;type:varchar(40);not null;index:ix_student_code_key" json:"-"`

	StudentClassName string  `gorm:"column:student_class_name;type:varchar(40);not null" json:"student_class_name"`
	StudentSection   *string `gorm:"column:student_section;type:varchar(80)" json:"student_section,omitempty"` // section / village
	StudentPhone     string  `gorm:"column:student_phone;type:varchar(20);not null" json:"student_phone"`

	StudentGuardianName string `gorm:"column:student_guardian_name;type:varchar(120);not null" json:"student_guardian_name"`

	// Rupiah/rupee utuh, tanpa pecahan
	StudentMonthlyFee int64 `gorm:"column:student_monthly_fee;not null;check:student_monthly_fee >= 0" json:"student_monthly_fee"`

	StudentIsDeleted bool `gorm:"column:student_is_deleted;not null;default:false;index:ix_student_is_deleted" json:"student_is_deleted"`

	StudentCreatedAt time.Time `gorm:"column:student_created_at;not null;index:ix_student_created_at" json:"student_created_at"`
	StudentUpdatedAt time.Time `gorm:"column:student_updated_at;not null" json:"student_updated_at"`
}

func (Student) TableName() string { return "students" }

// =========================================================
// HOOKS
// =========================================================

func (m *Student) BeforeCreate(tx *gorm.DB) (err error) {
	if m.StudentID == uuid.Nil {
		m.StudentID = uuid.New()
	}
	now := time.Now()
	if m.StudentCreatedAt.IsZero() {
		m.StudentCreatedAt = now
	}
	m.StudentUpdatedAt = now
	m.StudentCodeKey = CodeKey(m.StudentCode)
	return nil
}

func (m *Student) BeforeUpdate(tx *gorm.DB) (err error) {
	m.StudentUpdatedAt = time.Now()
	return nil
}

// =========================================================
// HELPERS
// =========================================================

// CodeKey menormalisasi roll no. untuk perbandingan unik (trim, NFKC, lowercase).
func CodeKey(code string) string {
	return strings.Map(unicode.ToLower, norm.NFKC.String(strings.TrimSpace(code)))
}

func (m *Student) IsActive() bool { return !m.StudentIsDeleted }

// Clone menyalin juga pointer field, tidak berbagi memori dengan m.
func (m Student) Clone() Student {
	if m.StudentSection != nil {
		v := *m.StudentSection
		m.StudentSection = &v
	}
	return m
}

// LocationLabel returns the section/village label or "".
func (m *Student) LocationLabel() string {
	if m.StudentSection == nil {
		return ""
	}
	return *m.StudentSection
}

// Matches is the search predicate of the students page:
// name or roll no. contains q (case-insensitive), or phone contains q.
func (m *Student) Matches(q string) bool {
	q = strings.TrimSpace(q)
	if q == "" {
		return true
	}
	lq := strings.ToLower(q)
	return strings.Contains(strings.ToLower(m.StudentName), lq) ||
		strings.Contains(strings.ToLower(m.StudentCode), lq) ||
		strings.Contains(m.StudentPhone, q)
}
