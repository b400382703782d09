package httpx

import (
	"errors"
	"net/http"

	"github.com/armada-fleet/armada/internal/shared"
)

// Error translates a domain error into the failure envelope. Sentinel
// domain errors map to their status; anything else becomes a generic 500
// so internal details never leak beyond the error text.
func Error(w http.ResponseWriter, err error) {
	var verr *shared.ValidationError
	switch {
	case errors.As(err, &verr):
		JSON(w, http.StatusBadRequest, Envelope{Success: false, Message: "Validation failed", Errors: verr.Messages})
	case errors.Is(err, shared.ErrUnauthenticated):
		JSON(w, http.StatusUnauthorized, Envelope{Success: false, Message: err.Error()})
	case errors.Is(err, shared.ErrForbidden):
		JSON(w, http.StatusForbidden, Envelope{Success: false, Message: err.Error()})
	case errors.Is(err, shared.ErrNotFound):
		JSON(w, http.StatusNotFound, Envelope{Success: false, Message: err.Error()})
	case errors.Is(err, shared.ErrConflict):
		JSON(w, http.StatusConflict, Envelope{Success: false, Message: err.Error()})
	default:
		JSON(w, http.StatusInternalServerError, Envelope{Success: false, Message: "Internal error", Error: err.Error()})
	}
}
