// file: internals/helpers/json_response.go
package helper

import (
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

/* ===============================
   Pagination type & defaults
=================================*/

type Pagination struct {
	Page           int   `json:"page"`
	PerPage        int   `json:"per_page"`
	Total          int64 `json:"total"`
	TotalPages     int   `json:"total_pages"`
	HasNext        bool  `json:"has_next"`
	HasPrev        bool  `json:"has_prev"`
	Count          int   `json:"count"`                      // jumlah item di halaman ini
	PerPageOptions []int `json:"per_page_options,omitempty"` // opsi per_page yg disarankan
}

var defaultPerPageOptions = []int{10, 20, 50, 100}

/* ===============================
   Paging resolver (query → page/perPage/offset)
=================================*/

type Paging struct {
	Page    int
	PerPage int
	Offset  int
	Limit   int
}

// ResolvePaging membaca ?page= & ?per_page= (atau alias ?limit=) dan normalisasi.
// maxPerPage 0 = tanpa batas.
func ResolvePaging(c *fiber.Ctx, defaultPerPage, maxPerPage int) Paging {
	pageStr := strings.TrimSpace(c.Query("page", "1"))

	perPageStr := strings.TrimSpace(c.Query("per_page"))
	if perPageStr == "" {
		perPageStr = strings.TrimSpace(c.Query("limit", strconv.Itoa(defaultPerPage)))
	}

	page, _ := strconv.Atoi(pageStr)
	if page < 1 {
		page = 1
	}

	perPage, _ := strconv.Atoi(perPageStr)
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if maxPerPage > 0 && perPage > maxPerPage {
		perPage = maxPerPage
	}
	// offset tidak boleh overflow
	if maxPage := math.MaxInt/perPage + 1; page > maxPage {
		page = maxPage
	}

	return Paging{
		Page:    page,
		PerPage: perPage,
		Offset:  (page - 1) * perPage,
		Limit:   perPage,
	}
}

func BuildPaginationFromOffset(total int64, offset, limit int) Pagination {
	perPage := limit
	if perPage <= 0 {
		perPage = 20
	}
	page := (offset / perPage) + 1
	if page <= 0 {
		page = 1
	}
	totalPages := int((total + int64(perPage) - 1) / int64(perPage)) // ceil
	if totalPages == 0 {
		totalPages = 1
	}
	return Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// PageSlice memotong slice in-memory sesuai Paging.
func PageSlice[T any](xs []T, p Paging) ([]T, Pagination) {
	total := len(xs)
	start := p.Offset
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := total
	if p.Limit > 0 && p.Limit < total-start {
		end = start + p.Limit
	}
	return xs[start:end], BuildPaginationFromOffset(int64(total), p.Offset, p.Limit)
}

/* ===============================
   Error helpers (standard shape)
=================================*/

type ErrorResponse struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message"`
	ErrorCode string              `json:"error_code,omitempty"`
	Errors    map[string][]string `json:"errors,omitempty"`
}

func statusToErrorCode(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusUnprocessableEntity:
		return "VALIDATION_ERROR"
	case fiber.StatusConflict:
		return "CONFLICT"
	case fiber.StatusTooManyRequests:
		return "TOO_MANY_REQUESTS"
	default:
		if status >= 500 {
			return "INTERNAL_ERROR"
		}
		return "ERROR"
	}
}

// JsonError: error generic (bukan validasi)
func JsonError(c *fiber.Ctx, status int, message string) error {
	if status == 0 {
		status = fiber.StatusInternalServerError
	}
	if strings.TrimSpace(message) == "" && status >= 500 {
		message = fiber.ErrInternalServerError.Message
	}
	return c.Status(status).JSON(ErrorResponse{
		Success:   false,
		Message:   message,
		ErrorCode: statusToErrorCode(status),
	})
}

// JsonValidationError: khusus error validasi (422)
func JsonValidationError(c *fiber.Ctx, fieldErrors map[string][]string) error {
	if fieldErrors == nil {
		fieldErrors = map[string][]string{}
	}
	return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
		Success:   false,
		Message:   "validation failed",
		ErrorCode: "VALIDATION_ERROR",
		Errors:    fieldErrors,
	})
}

// FromError: *fiber.Error → status aslinya, selain itu 500.
func FromError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	return JsonError(c, fiber.StatusInternalServerError, err.Error())
}

// ValidationMessages mengubah validator.ValidationErrors jadi map field → pesan.
// Nama field memakai tag json (lihat RegisterJSONTagName).
func ValidationMessages(err error) map[string][]string {
	out := map[string][]string{}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		out["_"] = []string{err.Error()}
		return out
	}
	for _, fe := range ve {
		msg := fe.Tag()
		if p := fe.Param(); p != "" {
			msg += "=" + p
		}
		out[fe.Field()] = append(out[fe.Field()], msg)
	}
	return out
}

// NewValidator: validator.New() yang melaporkan nama field sesuai tag json.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

/* ===============================
   JSON responses (standard success)
=================================*/

// JsonList: list dengan pagination
func JsonList(c *fiber.Ctx, message string, data any, pagination *Pagination) error {
	if strings.TrimSpace(message) == "" {
		message = "ok"
	}
	body := fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	}
	if pagination != nil {
		p := *pagination
		if p.Count == 0 {
			p.Count = lenOf(data)
		}
		if len(p.PerPageOptions) == 0 {
			p.PerPageOptions = append([]int(nil), defaultPerPageOptions...)
		}
		body["pagination"] = p
	}
	return c.Status(fiber.StatusOK).JSON(body)
}

func JsonOK(c *fiber.Ctx, message string, data any) error {
	return jsonSuccess(c, fiber.StatusOK, message, "ok", data)
}

func JsonCreated(c *fiber.Ctx, message string, data any) error {
	return jsonSuccess(c, fiber.StatusCreated, message, "created", data)
}

func JsonUpdated(c *fiber.Ctx, message string, data any) error {
	return jsonSuccess(c, fiber.StatusOK, message, "updated", data)
}

func JsonDeleted(c *fiber.Ctx, message string, data any) error {
	return jsonSuccess(c, fiber.StatusOK, message, "deleted", data)
}

func jsonSuccess(c *fiber.Ctx, status int, message, fallback string, data any) error {
	if strings.TrimSpace(message) == "" {
		message = fallback
	}
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func lenOf(v any) int {
	if v == nil {
		return 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len()
	default:
		return 0
	}
}
