package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"pizza-storefront/internal/models"
	"pizza-storefront/internal/service"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, code int, data any) {
	writeJSON(w, code, map[string]any{"success": true, "data": data})
}

func writeMessage(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"success": true, "message": msg})
}

func writeFail(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"success": false, "message": msg})
}

// writeError maps domain errors to HTTP statuses. Anything unexpected
// is logged server-side and surfaced as an opaque 500.
func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	var inv *models.InsufficientInventoryError
	switch {
	case errors.Is(err, models.ErrNotFound):
		writeFail(w, http.StatusNotFound, err.Error())
	case errors.As(err, &inv),
		errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrEmptyCart),
		errors.Is(err, models.ErrInvalidStatus),
		errors.Is(err, service.ErrCouponNotYetValid),
		errors.Is(err, service.ErrCouponExpired),
		errors.Is(err, service.ErrCouponBelowMinimum):
		writeFail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrBadCredentials):
		writeFail(w, http.StatusUnauthorized, err.Error())
	default:
		log.Error("request failed", zap.Error(err))
		writeFail(w, http.StatusInternalServerError, "server error")
	}
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return models.ValidationError("invalid request body")
	}
	return nil
}
