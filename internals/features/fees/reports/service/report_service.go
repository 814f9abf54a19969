// file: internals/features/fees/reports/service/report_service.go
package service

import (
	"strconv"
	"time"

	"feedesk_backend/internals/configs"
	"feedesk_backend/internals/constants"
	paymentModel "feedesk_backend/internals/features/fees/payments/model"
	"feedesk_backend/internals/features/fees/reconciliation"
	"feedesk_backend/internals/features/fees/store"
	studentModel "feedesk_backend/internals/features/fees/students/model"
	helper "feedesk_backend/internals/helpers"
)

/* =========================================================
   MONTHLY REPORT
========================================================= */

type MonthlyReport struct {
	School      configs.School             `json:"school"`
	Month       constants.Month            `json:"month"`
	Year        int                        `json:"year"`
	Query       string                     `json:"query,omitempty"`
	GeneratedAt time.Time                  `json:"generated_at"`
	Stats       reconciliation.StatsReport `json:"stats"`
	Rows        []reconciliation.ReportRow `json:"rows"`
}

// BuildMonthlyReport: stats dihitung dari siswa yang sama dengan rows (setelah filter q).
func BuildMonthlyReport(snap store.Snapshot, month constants.Month, year int, q string, now time.Time) MonthlyReport {
	students := snap.Filter(q)
	return MonthlyReport{
		School:      configs.SchoolInfo,
		Month:       month,
		Year:        year,
		Query:       q,
		GeneratedAt: now,
		Stats:       reconciliation.ComputeStats(students, snap.Payments, month, year),
		Rows:        reconciliation.BuildReportRows(students, snap.Payments, month, year),
	}
}

/* =========================================================
   RECEIPT
========================================================= */

type Receipt struct {
	School        configs.School            `json:"school"`
	ReceiptNo     string                    `json:"receipt_no"`
	IssuedAt      time.Time                 `json:"issued_at"`
	StudentName   string                    `json:"student_name"`
	StudentCode   string                    `json:"student_code"`
	GuardianName  string                    `json:"guardian_name"`
	ClassLabel    string                    `json:"class_label"`
	LocationLabel string                    `json:"location_label"`
	Month         constants.Month           `json:"month"`
	Year          int                       `json:"year"`
	Amount        int64                     `json:"amount"`
	AmountWords   string                    `json:"amount_words"`
	Status        reconciliation.Status     `json:"status"`
	Mode          *paymentModel.PaymentMode `json:"mode,omitempty"`
}

func (r Receipt) IsPaid() bool { return r.Status == reconciliation.StatusPaid }

// ReceiptNo: RCP-<roll no.>-<6 digit terakhir unix millis>.
func ReceiptNo(code string, now time.Time) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	return "RCP-" + code + "-" + ms
}

// BuildReceipt: amount = nominal pembayaran kalau lunas, selain itu monthly fee.
func BuildReceipt(st studentModel.Student, payments []paymentModel.Payment, month constants.Month, year int, now time.Time) Receipt {
	d := reconciliation.Reconcile(payments, month, year)

	amount := st.StudentMonthlyFee
	if d.IsPaid() && d.Amount != nil {
		amount = *d.Amount
	}

	return Receipt{
		School:        configs.SchoolInfo,
		ReceiptNo:     ReceiptNo(st.StudentCode, now),
		IssuedAt:      now,
		StudentName:   st.StudentName,
		StudentCode:   st.StudentCode,
		GuardianName:  st.StudentGuardianName,
		ClassLabel:    st.StudentClassName,
		LocationLabel: st.LocationLabel(),
		Month:         month,
		Year:          year,
		Amount:        amount,
		AmountWords:   helper.AmountInWords(amount) + " Rupees Only",
		Status:        d.Status,
		Mode:          d.Mode,
	}
}
