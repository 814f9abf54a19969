package legacy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedesk_backend/internals/constants"
	"feedesk_backend/internals/databases/dbtest"
	paymentModel "feedesk_backend/internals/features/fees/payments/model"
	studentModel "feedesk_backend/internals/features/fees/students/model"
)

func TestSeedFromSampleData(t *testing.T) {
	db := dbtest.Open(t)

	ids, res, err := SeedStudentsFromJSON(db, filepath.Join("data", "students.json"))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Inserted)
	require.Len(t, ids, 3)

	var bikram studentModel.Student
	require.NoError(t, db.Where("student_code = ?", "VV-102").First(&bikram).Error)
	assert.Equal(t, "V", bikram.StudentClassName)
	assert.Equal(t, "Sujata Ghosh", bikram.StudentGuardianName)
	assert.Equal(t, "Kotulpur", bikram.LocationLabel())
	assert.EqualValues(t, 600, bikram.StudentMonthlyFee)

	var chandan studentModel.Student
	require.NoError(t, db.Where("student_code = ?", "VV-103").First(&chandan).Error)
	assert.True(t, chandan.StudentIsDeleted)

	pres, err := SeedPaymentsFromJSON(db, filepath.Join("data", "payments.json"), ids)
	require.NoError(t, err)
	assert.Equal(t, 4, pres.Inserted)
	assert.Equal(t, 1, pres.Skipped) // duplikat January VV-102

	var jan []paymentModel.Payment
	require.NoError(t, db.Where("payment_student_id = ? AND payment_month = ? AND payment_year = ?",
		bikram.StudentID, constants.January, 2024).Find(&jan).Error)
	require.Len(t, jan, 1)
	// yang paling baru menang
	assert.Equal(t, paymentModel.PaymentStatusPaid, jan[0].PaymentStatus)
	require.NotNil(t, jan[0].PaymentMode)
	assert.Equal(t, paymentModel.PaymentModeOnline, *jan[0].PaymentMode)
	assert.NotNil(t, jan[0].PaymentPaidAt)
}

func TestSeedStudents_Idempotent(t *testing.T) {
	db := dbtest.Open(t)
	path := filepath.Join("data", "students.json")

	_, first, err := SeedStudentsFromJSON(db, path)
	require.NoError(t, err)
	ids, second, err := SeedStudentsFromJSON(db, path)
	require.NoError(t, err)

	assert.Equal(t, 3, first.Inserted)
	// 2 aktif dilewati (sudah ada), yang deleted diinsert lagi sebagai riwayat
	assert.Equal(t, 2, second.Skipped)
	assert.Len(t, ids, 3)

	var active int64
	require.NoError(t, db.Model(&studentModel.Student{}).Where("student_is_deleted = ?", false).Count(&active).Error)
	assert.EqualValues(t, 2, active)
}

func TestSeedStudents_InvalidDocSkipped(t *testing.T) {
	db := dbtest.Open(t)
	path := filepath.Join(t.TempDir(), "students.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"_id":"a1","name":"","studentId":"X1","className":"I","monthlyFee":100},
		{"_id":"a2","name":"Ok","studentId":"X2","className":"I","monthlyFee":-5},
		{"_id":"a3","name":"Fine","studentId":"X3","class":"I","monthlyFee":"250"}
	]`), 0o600))

	ids, res, err := SeedStudentsFromJSON(db, path)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 2, res.Skipped)
	assert.Contains(t, ids, "a3")
}
