package helper

import (
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolve(t *testing.T, query string) Paging {
	t.Helper()
	var got Paging
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		got = ResolvePaging(c, 20, 200)
		return nil
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/"+query, nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	return got
}

func TestResolvePaging(t *testing.T) {
	tests := []struct {
		query      string
		page, per  int
		wantOffset int
	}{
		{"", 1, 20, 0},
		{"?page=3&per_page=10", 3, 10, 20},
		{"?page=-4&limit=5", 1, 5, 0},
		{"?per_page=999", 1, 200, 0},
		{"?page=abc&per_page=0", 1, 20, 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			p := resolve(t, tt.query)
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.per, p.PerPage)
			assert.Equal(t, tt.wantOffset, p.Offset)
		})
	}
}

func TestResolvePaging_HugePageDoesNotOverflow(t *testing.T) {
	for _, q := range []string{
		fmt.Sprintf("?page=%d", math.MaxInt),
		fmt.Sprintf("?page=%d&per_page=200", math.MaxInt/3),
	} {
		p := resolve(t, q)
		assert.GreaterOrEqual(t, p.Offset, 0, q)

		rows, pg := PageSlice([]int{1, 2, 3}, p)
		assert.Empty(t, rows, q)
		assert.EqualValues(t, 3, pg.Total, q)
		assert.False(t, pg.HasNext, q)
	}
}

func TestPageSlice(t *testing.T) {
	xs := []int{1, 2, 3, 4, 5}

	rows, pg := PageSlice(xs, Paging{Page: 2, PerPage: 2, Offset: 2, Limit: 2})
	assert.Equal(t, []int{3, 4}, rows)
	assert.Equal(t, 2, pg.Page)
	assert.Equal(t, 3, pg.TotalPages)
	assert.True(t, pg.HasNext)
	assert.True(t, pg.HasPrev)

	rows, _ = PageSlice(xs, Paging{Offset: 4, Limit: 2})
	assert.Equal(t, []int{5}, rows)

	rows, _ = PageSlice(xs, Paging{Offset: -10, Limit: 2})
	assert.Equal(t, []int{1, 2}, rows)

	rows, _ = PageSlice(xs, Paging{Offset: 2, Limit: math.MaxInt})
	assert.Equal(t, []int{3, 4, 5}, rows)
}

func TestMapPGError_HidesInternalText(t *testing.T) {
	err := errors.Wrap(errors.New(`pq: relation "students" does not exist`), "load students")

	status, msg := MapPGError(err)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal server error", msg)
	assert.NotContains(t, msg, "students")

	status, _ = MapPGError(errors.New("UNIQUE constraint failed: payments.payment_student_id"))
	assert.Equal(t, http.StatusConflict, status)
}
