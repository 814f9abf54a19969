// file: internals/features/fees/payments/model/payment_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"feedesk_backend/internals/constants"
)

/* ===================== Enums (string) ===================== */

type PaymentStatus string
type PaymentMode string

const (
	PaymentStatusPaid   PaymentStatus = "PAID"
	PaymentStatusUnpaid PaymentStatus = "UNPAID"
)

const (
	PaymentModeOnline PaymentMode = "ONLINE"
	PaymentModeCash   PaymentMode = "CASH"
)

func (s PaymentStatus) Valid() bool {
	return s == PaymentStatusPaid || s == PaymentStatusUnpaid
}

func (m PaymentMode) Valid() bool {
	return m == PaymentModeOnline || m == PaymentModeCash
}

/* ===================== Model ===================== */

// Satu baris per (student, month, year); lihat uq_payment_student_month_year.
type Payment struct {
	PaymentID uuid.UUID `gorm:"column:payment_id;type:uuid;primaryKey" json:"payment_id"`

	PaymentStudentID uuid.UUID `gorm:"column:payment_student_id;type:uuid;not null;uniqueIndex:uq_payment_student_month_year,priority:1" json:"payment_student_id"`

	PaymentMonth constants.Month `gorm:"column:payment_month;type:varchar(12);not null;uniqueIndex:uq_payment_student_month_year,priority:2" json:"payment_month"`
	PaymentYear  int             `gorm:"column:payment_year;not null;uniqueIndex:uq_payment_student_month_year,priority:3" json:"payment_year"`

	PaymentStatus PaymentStatus `gorm:"column:payment_status;type:varchar(10);not null;default:'UNPAID'" json:"payment_status"`
	PaymentMode   *PaymentMode  `gorm:"column:payment_mode;type:varchar(10)" json:"payment_mode,omitempty"`

	PaymentAmount int64      `gorm:"column:payment_amount;not null;check:payment_amount >= 0" json:"payment_amount"`
	PaymentPaidAt *time.Time `gorm:"column:payment_paid_at" json:"payment_paid_at,omitempty"`

	// Metadata bebas (note, receipt_no, dll)
	PaymentMeta datatypes.JSONMap `gorm:"column:payment_meta" json:"payment_meta,omitempty"`

	PaymentCreatedAt time.Time `gorm:"column:payment_created_at;not null;index:ix_payment_created_at" json:"payment_created_at"`
	PaymentUpdatedAt time.Time `gorm:"column:payment_updated_at;not null" json:"payment_updated_at"`
}

func (Payment) TableName() string { return "payments" }

/* ===================== Hooks ===================== */

func (m *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if m.PaymentID == uuid.Nil {
		m.PaymentID = uuid.New()
	}
	now := time.Now()
	if m.PaymentCreatedAt.IsZero() {
		m.PaymentCreatedAt = now
	}
	m.PaymentUpdatedAt = now
	return nil
}

func (m *Payment) BeforeUpdate(tx *gorm.DB) (err error) {
	m.PaymentUpdatedAt = time.Now()
	return nil
}

/* ===================== Helpers ===================== */

func (m *Payment) IsPaid() bool {
	return m.PaymentStatus == PaymentStatusPaid
}

// SetStatus menjaga invariant paid_at & mode:
// PAID → paid_at = now (kalau belum ada), mode boleh diisi;
// selain PAID → paid_at & mode dikosongkan.
func (m *Payment) SetStatus(status PaymentStatus, mode *PaymentMode, now time.Time) {
	m.PaymentStatus = status
	if status != PaymentStatusPaid {
		m.PaymentPaidAt = nil
		m.PaymentMode = nil
		return
	}
	if m.PaymentPaidAt == nil {
		t := now
		m.PaymentPaidAt = &t
	}
	if mode != nil {
		md := *mode
		m.PaymentMode = &md
	}
}

func ModePtr(m PaymentMode) *PaymentMode { return &m }

// Clone menyalin mode, paid_at & meta (level atas) supaya salinan aman diubah.
func (m Payment) Clone() Payment {
	if m.PaymentMode != nil {
		v := *m.PaymentMode
		m.PaymentMode = &v
	}
	if m.PaymentPaidAt != nil {
		v := *m.PaymentPaidAt
		m.PaymentPaidAt = &v
	}
	if m.PaymentMeta != nil {
		meta := make(datatypes.JSONMap, len(m.PaymentMeta))
		for k, v := range m.PaymentMeta {
			meta[k] = v
		}
		m.PaymentMeta = meta
	}
	return m
}
