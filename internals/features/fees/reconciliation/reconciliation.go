// Package reconciliation folds students and their payment records into
// per-month status, dashboard statistics and report rows.
//
// Every function here is pure: inputs are read-only snapshots, nothing is
// cached, and the same snapshot always yields the same output.
package reconciliation

import (
	"github.com/google/uuid"

	"feedesk_backend/internals/constants"
	paymentModel "feedesk_backend/internals/features/fees/payments/model"
	studentModel "feedesk_backend/internals/features/fees/students/model"
)

type Status string

const (
	StatusPaid   Status = "paid"
	StatusUnpaid Status = "unpaid"
)

// Derived is the reconciled state of one student for one (month, year).
type Derived struct {
	Status Status                    `json:"status"`
	Mode   *paymentModel.PaymentMode `json:"mode,omitempty"`
	Amount *int64                    `json:"amount,omitempty"`
}

func (d Derived) IsPaid() bool { return d.Status == StatusPaid }

// FindPayment returns the first record matching month and year, ignoring
// status. Duplicates resolve to whichever comes first in payments.
func FindPayment(payments []paymentModel.Payment, month constants.Month, year int) *paymentModel.Payment {
	for i := range payments {
		if payments[i].PaymentMonth == month && payments[i].PaymentYear == year {
			return &payments[i]
		}
	}
	return nil
}

// DeriveStatus maps a lookup result to paid/unpaid.
func DeriveStatus(p *paymentModel.Payment) Derived {
	if p == nil || p.PaymentStatus != paymentModel.PaymentStatusPaid {
		return Derived{Status: StatusUnpaid}
	}
	d := Derived{Status: StatusPaid}
	if p.PaymentMode != nil {
		mode := *p.PaymentMode
		d.Mode = &mode
	}
	amount := p.PaymentAmount
	d.Amount = &amount
	return d
}

// Reconcile is FindPayment followed by DeriveStatus.
func Reconcile(payments []paymentModel.Payment, month constants.Month, year int) Derived {
	return DeriveStatus(FindPayment(payments, month, year))
}

// MonthlyStatus returns the derived status for all twelve months of year, in calendar order.
func MonthlyStatus(payments []paymentModel.Payment, year int) []MonthStatus {
	out := make([]MonthStatus, 0, len(constants.Months))
	for _, m := range constants.Months {
		out = append(out, MonthStatus{Month: m, Year: year, Derived: Reconcile(payments, m, year)})
	}
	return out
}

type MonthStatus struct {
	Month constants.Month `json:"month"`
	Year  int             `json:"year"`
	Derived
}

// PaymentsByStudent is the grouped payment source, keyed by student id.
type PaymentsByStudent map[uuid.UUID][]paymentModel.Payment

// =========================================================
// AGGREGATE STATISTICS
// =========================================================

type StatsReport struct {
	Total            int   `json:"total"`
	Paid             int   `json:"paid"`
	Unpaid           int   `json:"unpaid"`
	OnlineCount      int   `json:"online_count"`
	CashCount        int   `json:"cash_count"`
	TotalCollection  int64 `json:"total_collection"`
	OnlineCollection int64 `json:"online_collection"`
	CashCollection   int64 `json:"cash_collection"`
	PendingAmount    int64 `json:"pending_amount"`
	CollectionRate   int64 `json:"collection_rate"`
	AverageFee       int64 `json:"average_fee"`
}

// ComputeStats expects active students only; filtering deleted ones is the caller's job.
func ComputeStats(students []studentModel.Student, payments PaymentsByStudent, month constants.Month, year int) StatsReport {
	var st StatsReport
	var feeSum int64

	for i := range students {
		s := &students[i]
		st.Total++
		feeSum += s.StudentMonthlyFee

		d := Reconcile(payments[s.StudentID], month, year)
		if !d.IsPaid() {
			st.PendingAmount += s.StudentMonthlyFee
			continue
		}

		st.Paid++
		amount := *d.Amount
		st.TotalCollection += amount
		if d.Mode == nil {
			continue
		}
		switch *d.Mode {
		case paymentModel.PaymentModeOnline:
			st.OnlineCount++
			st.OnlineCollection += amount
		case paymentModel.PaymentModeCash:
			st.CashCount++
			st.CashCollection += amount
		}
	}

	st.Unpaid = st.Total - st.Paid
	if st.Total > 0 {
		st.CollectionRate = roundDiv(100*int64(st.Paid), int64(st.Total))
		st.AverageFee = roundDiv(feeSum, int64(st.Total))
	}
	return st
}

// roundDiv is num/den rounded half-up, for num >= 0 and den > 0.
func roundDiv(num, den int64) int64 {
	return (2*num + den) / (2 * den)
}

// =========================================================
// REPORT ROWS
// =========================================================

type ReportRow struct {
	StudentID     uuid.UUID                 `json:"student_id"`
	Name          string                    `json:"name"`
	StudentCode   string                    `json:"student_code"`
	ClassLabel    string                    `json:"class_label"`
	LocationLabel string                    `json:"location_label"`
	MonthlyFee    int64                     `json:"monthly_fee"`
	Status        Status                    `json:"status"`
	Mode          *paymentModel.PaymentMode `json:"mode,omitempty"`
	Amount        *int64                    `json:"amount,omitempty"`
}

// BuildReportRows keeps the order of students.
func BuildReportRows(students []studentModel.Student, payments PaymentsByStudent, month constants.Month, year int) []ReportRow {
	rows := make([]ReportRow, 0, len(students))
	for i := range students {
		s := &students[i]
		d := Reconcile(payments[s.StudentID], month, year)
		rows = append(rows, ReportRow{
			StudentID:     s.StudentID,
			Name:          s.StudentName,
			StudentCode:   s.StudentCode,
			ClassLabel:    s.StudentClassName,
			LocationLabel: s.LocationLabel(),
			MonthlyFee:    s.StudentMonthlyFee,
			Status:        d.Status,
			Mode:          d.Mode,
			Amount:        d.Amount,
		})
	}
	return rows
}
