package store

import (
	"net/http"

	"github.com/pkg/errors"

	helper "feedesk_backend/internals/helpers"
)

// MapError menerjemahkan error store ke (status HTTP, pesan).
func MapError(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.Is(err, ErrStudentNotFound), errors.Is(err, ErrPaymentNotFound):
		return http.StatusNotFound, errors.Cause(err).Error()
	case errors.Is(err, ErrDuplicateStudentCode):
		return http.StatusConflict, err.Error()
	default:
		return helper.MapPGError(err)
	}
}
