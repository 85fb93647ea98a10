// Package httpx holds the JSON response helpers shared by the feature handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-goods/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-goods/internal/validation"
)

// ErrorBody is the uniform error response.
type ErrorBody struct {
	Error  string             `json:"error"`
	Errors validation.Errors `json:"errors,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteMessage writes {"error": msg} with status.
func WriteMessage(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorBody{Error: msg})
}

// StatusOf maps an error to its HTTP status.
func StatusOf(err error) int {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteError translates err into the error body. Unmapped errors are logged
// and reported as a generic 500.
func WriteError(w http.ResponseWriter, logger *zap.SugaredLogger, err error) {
	status := StatusOf(err)

	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		WriteJSON(w, status, ErrorBody{Error: "Validation failed", Errors: verr.Fields})
	case status == http.StatusInternalServerError:
		if logger != nil {
			logger.Errorw("request failed", "err", err)
		}
		WriteMessage(w, status, "internal server error")
	default:
		WriteMessage(w, status, messageOf(err))
	}
}

// messageOf prefers the innermost user-facing message over any wrapping context.
func messageOf(err error) string {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae.Error()
	}
	return err.Error()
}
