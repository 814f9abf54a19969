package service

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"feedesk_backend/internals/constants"
	paymentModel "feedesk_backend/internals/features/fees/payments/model"
	"feedesk_backend/internals/features/fees/reconciliation"
	"feedesk_backend/internals/features/fees/store"
	studentModel "feedesk_backend/internals/features/fees/students/model"
)

func student(name, code string, fee int64) studentModel.Student {
	village := "Khiri"
	return studentModel.Student{
		StudentID:           uuid.New(),
		StudentName:         name,
		StudentCode:         code,
		StudentClassName:    "III",
		StudentSection:      &village,
		StudentGuardianName: "G " + name,
		StudentMonthlyFee:   fee,
	}
}

func paid(sid uuid.UUID, month constants.Month, year int, mode paymentModel.PaymentMode, amount int64) paymentModel.Payment {
	return paymentModel.Payment{
		PaymentID:        uuid.New(),
		PaymentStudentID: sid,
		PaymentMonth:     month,
		PaymentYear:      year,
		PaymentStatus:    paymentModel.PaymentStatusPaid,
		PaymentMode:      paymentModel.ModePtr(mode),
		PaymentAmount:    amount,
	}
}

func sampleSnapshot() store.Snapshot {
	a := student("Asha", "R1", 2000)
	b := student("Bikram", "R2", 3000)
	return store.Snapshot{
		Students: []studentModel.Student{a, b},
		Payments: reconciliation.PaymentsByStudent{
			a.StudentID: {paid(a.StudentID, constants.March, 2024, paymentModel.PaymentModeOnline, 2000)},
		},
	}
}

func TestReceiptNo(t *testing.T) {
	now := time.UnixMilli(1717171234567)
	assert.Equal(t, "RCP-R12-234567", ReceiptNo("R12", now))
}

func TestBuildReceipt(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	s := student("Asha", "R1", 1500)

	pending := BuildReceipt(s, nil, constants.March, 2024, now)
	assert.False(t, pending.IsPaid())
	assert.EqualValues(t, 1500, pending.Amount)
	assert.Equal(t, "One Thousand Five Hundred Rupees Only", pending.AmountWords)
	assert.Equal(t, "Khiri", pending.LocationLabel)
	assert.Nil(t, pending.Mode)

	payments := []paymentModel.Payment{paid(s.StudentID, constants.March, 2024, paymentModel.PaymentModeCash, 1200)}
	done := BuildReceipt(s, payments, constants.March, 2024, now)
	assert.True(t, done.IsPaid())
	assert.EqualValues(t, 1200, done.Amount)
	require.NotNil(t, done.Mode)
	assert.Equal(t, paymentModel.PaymentModeCash, *done.Mode)
	assert.Contains(t, done.ReceiptNo, "RCP-R1-")
}

func TestBuildMonthlyReport(t *testing.T) {
	snap := sampleSnapshot()
	now := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	r := BuildMonthlyReport(snap, constants.March, 2024, "", now)
	assert.Equal(t, 2, r.Stats.Total)
	assert.EqualValues(t, 50, r.Stats.CollectionRate)
	require.Len(t, r.Rows, 2)
	assert.Equal(t, "R1", r.Rows[0].StudentCode)
	assert.Equal(t, reconciliation.StatusUnpaid, r.Rows[1].Status)

	filtered := BuildMonthlyReport(snap, constants.March, 2024, "bik", now)
	require.Len(t, filtered.Rows, 1)
	assert.Equal(t, 1, filtered.Stats.Total)
	assert.EqualValues(t, 3000, filtered.Stats.PendingAmount)
}

func TestWriteXLSX_OneRowPerStudent(t *testing.T) {
	r := BuildMonthlyReport(sampleSnapshot(), constants.March, 2024, "", time.Now())

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, r))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(reportSheet)
	require.NoError(t, err)
	// title, kosong, header, 2 siswa
	require.GreaterOrEqual(t, len(rows), 5)
	assert.Equal(t, reportHeaders, rows[2])
	assert.Equal(t, "Asha", rows[3][1])
	assert.Equal(t, "paid", rows[3][6])
	assert.Equal(t, "ONLINE", rows[3][7])
	assert.Equal(t, "Bikram", rows[4][1])
	assert.Equal(t, "unpaid", rows[4][6])

	assert.Equal(t, "fee-report-March-2024.xlsx", ReportFilename(r))
}
