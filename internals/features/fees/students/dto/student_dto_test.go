package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedesk_backend/internals/constants"
	"feedesk_backend/internals/features/fees/reconciliation"
	model "feedesk_backend/internals/features/fees/students/model"
)

func TestDecodeCreate_CanonicalWins(t *testing.T) {
	body := []byte(`{
		"student_name": " Asha ",
		"name": "ignored",
		"student_code": "R1",
		"studentId": "ignored",
		"student_class_name": "IV",
		"className": "ignored",
		"student_monthly_fee": "2500"
	}`)

	req, err := DecodeCreate(body, json.Unmarshal)
	require.NoError(t, err)
	assert.Equal(t, "Asha", req.StudentName)
	assert.Equal(t, "R1", req.StudentCode)
	assert.Equal(t, "IV", req.StudentClassName)
	require.NotNil(t, req.StudentMonthlyFee)
	assert.EqualValues(t, 2500, *req.StudentMonthlyFee)
}

func TestDecodeCreate_LegacyAliases(t *testing.T) {
	body := []byte(`{
		"name": "Bikram",
		"studentId": "VV-7",
		"class": "III",
		"className": "V",
		"village": "Khiri",
		"guardianName": "Father",
		"guardian": "Mother",
		"monthlyFee": 1500
	}`)

	req, err := DecodeCreate(body, json.Unmarshal)
	require.NoError(t, err)
	assert.Equal(t, "Bikram", req.StudentName)
	assert.Equal(t, "VV-7", req.StudentCode)
	assert.Equal(t, "V", req.StudentClassName)
	assert.Equal(t, "Mother", req.StudentGuardianName)
	require.NotNil(t, req.StudentSection)
	assert.Equal(t, "Khiri", *req.StudentSection)
	require.NotNil(t, req.StudentMonthlyFee)
	assert.EqualValues(t, 1500, *req.StudentMonthlyFee)
}

func TestDecodeCreate_MissingFeeStaysNil(t *testing.T) {
	req, err := DecodeCreate([]byte(`{"name":"A","studentId":"1","class":"I"}`), json.Unmarshal)
	require.NoError(t, err)
	assert.Nil(t, req.StudentMonthlyFee)
}

func TestDecodeCreate_BadFee(t *testing.T) {
	_, err := DecodeCreate([]byte(`{"student_monthly_fee":"abc"}`), json.Unmarshal)
	assert.Error(t, err)
}

func TestLegacyStudent_MongoExtendedJSON(t *testing.T) {
	var l LegacyStudent
	require.NoError(t, json.Unmarshal([]byte(`{
		"_id": {"$oid": "65f0c0ffee"},
		"name": "C",
		"studentId": "9",
		"class": "II",
		"section": "B",
		"village": "Kotulpur",
		"monthlyFee": "800",
		"isDeleted": true,
		"createdAt": {"$date": "2024-01-05T10:00:00Z"}
	}`), &l))

	assert.Equal(t, LegacyOID("65f0c0ffee"), l.ID)
	assert.True(t, l.IsDeleted)
	require.NotNil(t, l.CreatedAt.Time)
	assert.True(t, l.CreatedAt.Time.Equal(time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)))

	req := l.ToCreate()
	require.NotNil(t, req.StudentSection)
	assert.Equal(t, "B", *req.StudentSection)
	assert.EqualValues(t, 800, *req.StudentMonthlyFee)
}

func TestLegacyTime_Variants(t *testing.T) {
	want := time.UnixMilli(1704448800000).UTC()
	for _, raw := range []string{
		`1704448800000`,
		`{"$date": 1704448800000}`,
		`"` + want.Format(time.RFC3339) + `"`,
	} {
		var lt LegacyTime
		require.NoError(t, json.Unmarshal([]byte(raw), &lt), raw)
		require.NotNil(t, lt.Time, raw)
		assert.True(t, lt.Time.Equal(want), raw)
	}

	var lt LegacyTime
	require.NoError(t, json.Unmarshal([]byte(`null`), &lt))
	assert.Nil(t, lt.Time)

	var oid LegacyOID
	require.NoError(t, json.Unmarshal([]byte(`"plain"`), &oid))
	assert.Equal(t, LegacyOID("plain"), oid)
}

func TestUpdateStudentRequest(t *testing.T) {
	var req UpdateStudentRequest
	require.NoError(t, json.Unmarshal([]byte(`{"student_name":"  ","student_monthly_fee":-1,"student_section":null}`), &req))

	errs := req.Validate()
	assert.Contains(t, errs, "student_name")
	assert.Contains(t, errs, "student_monthly_fee")
	assert.NotContains(t, errs, "student_section")
	assert.False(t, req.IsEmpty())

	var empty UpdateStudentRequest
	require.NoError(t, json.Unmarshal([]byte(`{}`), &empty))
	assert.True(t, empty.IsEmpty())

	section := "A"
	m := model.Student{StudentName: "Old", StudentSection: &section, StudentPhone: "1", StudentMonthlyFee: 100}
	var ok UpdateStudentRequest
	require.NoError(t, json.Unmarshal([]byte(`{"student_name":" New ","student_section":null,"student_monthly_fee":250}`), &ok))
	require.Empty(t, ok.Validate())
	ok.Apply(&m)
	assert.Equal(t, "New", m.StudentName)
	assert.Nil(t, m.StudentSection)
	assert.Equal(t, "1", m.StudentPhone)
	assert.EqualValues(t, 250, m.StudentMonthlyFee)
}

func TestNewFeeTable_Counts(t *testing.T) {
	months := reconciliation.MonthlyStatus(nil, 2024)
	months[2].Derived = reconciliation.Derived{Status: reconciliation.StatusPaid}
	require.Equal(t, constants.March, months[2].Month)

	ft := NewFeeTable(model.Student{StudentName: "A"}, 2024, months)
	assert.Equal(t, 1, ft.Paid)
	assert.Equal(t, 11, ft.Unpaid)
	assert.Equal(t, 2024, ft.Year)
}

func TestFlexInt64(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantSet bool
		wantErr bool
	}{
		{raw: `1500`, want: 1500, wantSet: true},
		{raw: `"1500"`, want: 1500, wantSet: true},
		{raw: `" 750 "`, want: 750, wantSet: true},
		{raw: `1500.0`, want: 1500, wantSet: true},
		{raw: `null`},
		{raw: `""`},
		{raw: `"1500.7"`, wantErr: true},
		{raw: `1500.7`, wantErr: true},
		{raw: `"NaN"`, wantErr: true},
		{raw: `"Inf"`, wantErr: true},
		{raw: `"-Infinity"`, wantErr: true},
		{raw: `1e30`, wantErr: true},
		{raw: `"abc"`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var f FlexInt64
			err := json.Unmarshal([]byte(tt.raw), &f)
			if tt.wantErr {
				assert.Error(t, err)
				assert.False(t, f.Set)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSet, f.Set)
			assert.Equal(t, tt.want, f.Value)
		})
	}
}

func TestDecodeCreate_FractionalFeeRejected(t *testing.T) {
	_, err := DecodeCreate([]byte(`{"name":"A","studentId":"1","class":"I","monthlyFee":"1500.7"}`), json.Unmarshal)
	assert.Error(t, err)
}
