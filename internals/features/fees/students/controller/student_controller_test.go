package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedesk_backend/internals/databases/dbtest"
	"feedesk_backend/internals/features/fees/store"
	studentRoute "feedesk_backend/internals/features/fees/students/route"
)

type envelope struct {
	Success    bool                `json:"success"`
	Message    string              `json:"message"`
	ErrorCode  string              `json:"error_code"`
	Errors     map[string][]string `json:"errors"`
	Data       json.RawMessage     `json:"data"`
	Pagination *struct {
		Total   int64 `json:"total"`
		Count   int   `json:"count"`
		HasNext bool  `json:"has_next"`
	} `json:"pagination"`
}

type studentBody struct {
	StudentID           string  `json:"student_id"`
	StudentName         string  `json:"student_name"`
	StudentCode         string  `json:"student_code"`
	StudentClassName    string  `json:"student_class_name"`
	StudentSection      *string `json:"student_section"`
	StudentGuardianName string  `json:"student_guardian_name"`
	StudentMonthlyFee   int64   `json:"student_monthly_fee"`
}

func newApp(t *testing.T) (*fiber.App, *store.Store) {
	t.Helper()
	st := store.New(dbtest.Open(t))
	app := fiber.New()
	studentRoute.StudentRoutes(app.Group("/api"), st)
	return app, st
}

func do(t *testing.T, app *fiber.App, method, path string, body any) (int, envelope) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

func createStudent(t *testing.T, app *fiber.App, body map[string]any) studentBody {
	t.Helper()
	status, env := do(t, app, http.MethodPost, "/api/students", body)
	require.Equal(t, http.StatusCreated, status, env.Message)
	var s studentBody
	require.NoError(t, json.Unmarshal(env.Data, &s))
	return s
}

func TestCreateStudent_CanonicalAndLegacy(t *testing.T) {
	app, _ := newApp(t)

	s := createStudent(t, app, map[string]any{
		"student_name":          "Asha",
		"student_code":          "R1",
		"student_class_name":    "IV",
		"student_section":       "Khiri",
		"student_guardian_name": "Ramesh",
		"student_monthly_fee":   500,
	})
	assert.Equal(t, "Asha", s.StudentName)
	require.NotNil(t, s.StudentSection)
	assert.Equal(t, "Khiri", *s.StudentSection)

	legacy := createStudent(t, app, map[string]any{
		"name":         "Bikram",
		"studentId":    "R2",
		"class":        "V",
		"village":      "Kotulpur",
		"guardianName": "Sujata",
		"monthlyFee":   "650",
	})
	assert.Equal(t, "V", legacy.StudentClassName)
	assert.Equal(t, "Sujata", legacy.StudentGuardianName)
	assert.EqualValues(t, 650, legacy.StudentMonthlyFee)
	require.NotNil(t, legacy.StudentSection)
	assert.Equal(t, "Kotulpur", *legacy.StudentSection)
}

func TestCreateStudent_ValidationAndConflict(t *testing.T) {
	app, _ := newApp(t)

	status, env := do(t, app, http.MethodPost, "/api/students", map[string]any{"student_name": "No code"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "VALIDATION_ERROR", env.ErrorCode)
	assert.Contains(t, env.Errors, "student_code")
	assert.Contains(t, env.Errors, "student_monthly_fee")

	createStudent(t, app, map[string]any{
		"student_name": "Asha", "student_code": "R1", "student_class_name": "IV", "student_monthly_fee": 500,
	})
	status, env = do(t, app, http.MethodPost, "/api/students", map[string]any{
		"name": "Other", "studentId": "r1", "className": "IV", "monthlyFee": 500,
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", env.ErrorCode)
}

func TestListStudents_SearchAndPaging(t *testing.T) {
	app, _ := newApp(t)
	for _, n := range []string{"Asha", "Bikram", "Chandan"} {
		createStudent(t, app, map[string]any{
			"student_name": n, "student_code": "C-" + n, "student_class_name": "IV",
			"student_phone": "98000" + n[:1], "student_monthly_fee": 500,
		})
	}

	status, env := do(t, app, http.MethodGet, "/api/students?q=bik", nil)
	require.Equal(t, http.StatusOK, status)
	var rows []studentBody
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Bikram", rows[0].StudentName)

	status, env = do(t, app, http.MethodGet, "/api/students?per_page=2&page=2", nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Chandan", rows[0].StudentName)
	require.NotNil(t, env.Pagination)
	assert.EqualValues(t, 3, env.Pagination.Total)

	status, env = do(t, app, http.MethodGet, "/api/students?page=9223372036854775807", nil)
	require.Equal(t, http.StatusOK, status)
	rows = nil
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	assert.Empty(t, rows)
	require.NotNil(t, env.Pagination)
	assert.EqualValues(t, 3, env.Pagination.Total)
	assert.False(t, env.Pagination.HasNext)
}

func TestPatchAndDeleteStudent(t *testing.T) {
	app, _ := newApp(t)
	s := createStudent(t, app, map[string]any{
		"student_name": "Asha", "student_code": "R1", "student_class_name": "IV", "student_monthly_fee": 500,
	})

	status, env := do(t, app, http.MethodPatch, "/api/students/"+s.StudentID, map[string]any{"student_monthly_fee": 750})
	require.Equal(t, http.StatusOK, status, env.Message)
	var patched studentBody
	require.NoError(t, json.Unmarshal(env.Data, &patched))
	assert.EqualValues(t, 750, patched.StudentMonthlyFee)
	assert.Equal(t, "Asha", patched.StudentName)

	status, _ = do(t, app, http.MethodPatch, "/api/students/"+s.StudentID, map[string]any{"student_monthly_fee": -1})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, _ = do(t, app, http.MethodPatch, "/api/students/"+s.StudentID, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodDelete, "/api/students/"+s.StudentID, nil)
	assert.Equal(t, http.StatusOK, status)

	status, env = do(t, app, http.MethodGet, "/api/students/"+s.StudentID, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.ErrorCode)

	status, _ = do(t, app, http.MethodGet, "/api/students/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestFeeTable(t *testing.T) {
	app, st := newApp(t)
	s := createStudent(t, app, map[string]any{
		"student_name": "Asha", "student_code": "R1", "student_class_name": "IV", "student_monthly_fee": 500,
	})

	snap, err := st.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Students, 1)
	_, err = st.UpsertPayment(context.Background(), store.UpsertPayment{
		StudentID: snap.Students[0].StudentID, Month: "March", Year: 2024, Amount: 500,
	})
	require.NoError(t, err)

	status, env := do(t, app, http.MethodGet, "/api/students/"+s.StudentID+"/fees?year=2024", nil)
	require.Equal(t, http.StatusOK, status, env.Message)

	var table struct {
		Year   int `json:"year"`
		Paid   int `json:"paid_months"`
		Unpaid int `json:"unpaid_months"`
		Months []struct {
			Month  string `json:"month"`
			Status string `json:"status"`
		} `json:"months"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &table))
	assert.Equal(t, 2024, table.Year)
	assert.Equal(t, 1, table.Paid)
	assert.Equal(t, 11, table.Unpaid)
	require.Len(t, table.Months, 12)
	assert.Equal(t, "paid", table.Months[2].Status)

	status, _ = do(t, app, http.MethodGet, "/api/students/"+s.StudentID+"/fees?year=abc", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}
