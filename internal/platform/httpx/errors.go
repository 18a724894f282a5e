package httpx

import (
	"errors"
	"net/http"

	"github.com/carrierdesk/carrierdesk/internal/shared"
)

// RespondError maps domain errors to envelope responses.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, shared.ErrDuplicate):
		Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, shared.ErrValidation):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, shared.ErrInvalidTransition):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, shared.ErrUnauthorized):
		Error(w, http.StatusUnauthorized, err.Error())
	default:
		Error(w, http.StatusInternalServerError, "internal server error")
	}
}
