// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"feedesk_backend/internals/constants"
)

// Nama locals yang di-set middleware SchoolTimezone
const LocSchoolLoc = "school_loc" // *time.Location

// Clock bisa diganti di test.
var Clock = time.Now

// SchoolTimezone menaruh lokasi sekolah ke locals supaya handler tidak LoadLocation tiap request.
func SchoolTimezone(loc *time.Location) fiber.Handler {
	if loc == nil {
		loc = time.UTC
	}
	return func(c *fiber.Ctx) error {
		c.Locals(LocSchoolLoc, loc)
		return c.Next()
	}
}

// GetSchoolLocation: locals dulu, fallback UTC.
func GetSchoolLocation(c *fiber.Ctx) *time.Location {
	if c == nil {
		return time.UTC
	}
	if v := c.Locals(LocSchoolLoc); v != nil {
		if loc, ok := v.(*time.Location); ok && loc != nil {
			return loc
		}
	}
	return time.UTC
}

// ToSchoolTime mengonversi waktu (biasanya dari DB = UTC) ke timezone sekolah.
func ToSchoolTime(c *fiber.Ctx, t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.In(GetSchoolLocation(c))
}

func ToSchoolTimePtr(c *fiber.Ctx, t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := ToSchoolTime(c, *t)
	return &v
}

func NowInSchool(c *fiber.Ctx) time.Time {
	return Clock().In(GetSchoolLocation(c))
}

/* =========================================================
   PERIOD (?month= & ?year=)
========================================================= */

// ResolveMonth membaca ?month=, default bulan berjalan (timezone sekolah).
func ResolveMonth(c *fiber.Ctx) (constants.Month, error) {
	raw := strings.TrimSpace(c.Query("month"))
	if raw == "" {
		return constants.MonthOf(NowInSchool(c)), nil
	}
	m, err := constants.ParseMonth(raw)
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "invalid month: "+raw)
	}
	return m, nil
}

// ResolveYear membaca ?year=, default tahun berjalan (timezone sekolah).
func ResolveYear(c *fiber.Ctx) (int, error) {
	raw := strings.TrimSpace(c.Query("year"))
	if raw == "" {
		return NowInSchool(c).Year(), nil
	}
	y, err := strconv.Atoi(raw)
	if err != nil || y < 2000 || y > 2100 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid year: "+raw)
	}
	return y, nil
}

func ResolvePeriod(c *fiber.Ctx) (constants.Month, int, error) {
	m, err := ResolveMonth(c)
	if err != nil {
		return "", 0, err
	}
	y, err := ResolveYear(c)
	if err != nil {
		return "", 0, err
	}
	return m, y, nil
}
