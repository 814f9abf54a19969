package helper

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation mendeteksi pelanggaran unique index dari pgx, lib/pq, atau sqlite.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code == pgUniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation
	}
	// sqlite (mattn/go-sqlite3): "UNIQUE constraint failed: ..."
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "unique constraint") || strings.Contains(s, "duplicate key")
}

// --- PG error mapping (pgx/libpq) ---
func MapPGError(err error) (int, string) {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return mapPGCode(pgxErr.Code)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return mapPGCode(string(pqErr.Code))
	}
	if IsUniqueViolation(err) {
		return http.StatusConflict, "duplicate data (unique violation)"
	}
	// detail error cukup di log, jangan bocor ke client
	return http.StatusInternalServerError, "internal server error"
}

func mapPGCode(code string) (int, string) {
	switch code {
	case "23503":
		return http.StatusBadRequest, "referenced record not found (FK violation)"
	case pgUniqueViolation:
		return http.StatusConflict, "duplicate data (unique violation)"
	case "23514":
		return http.StatusBadRequest, "value violates check constraint"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
