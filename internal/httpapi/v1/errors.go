package v1

import (
	"errors"
	"net/http"

	"github.com/tinoosan/budget/internal/errs"
)

// errorResponse is the standard error payload for the API.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeErr(w http.ResponseWriter, status int, msg, code string) {
	toJSON(w, status, errorResponse{Error: msg, Code: code})
}

func badRequest(w http.ResponseWriter, msg string) { writeErr(w, http.StatusBadRequest, msg, "") }
func notFound(w http.ResponseWriter)               { writeErr(w, http.StatusNotFound, "not_found", "not_found") }
func conflict(w http.ResponseWriter, msg, code string) {
	writeErr(w, http.StatusConflict, msg, code)
}
func unprocessable(w http.ResponseWriter, msg, code string) {
	writeErr(w, http.StatusUnprocessableEntity, msg, code)
}

// mapValidationError normalizes domain validation errors into a code and message.
// ok is false when err is not a validation failure.
func mapValidationError(err error) (code, msg string, ok bool) {
	if err == nil {
		return "", "", false
	}
	msg = err.Error()
	switch {
	case errors.Is(err, errs.ErrInvalidAmount):
		return "invalid_amount", msg, true
	case errors.Is(err, errs.ErrSameEndpoint):
		return "same_endpoint", msg, true
	case errors.Is(err, errs.ErrUnsupportedKind):
		return "unsupported_kind", msg, true
	case errors.Is(err, errs.ErrInvalidDate):
		return "invalid_date", msg, true
	case errors.Is(err, errs.ErrInvalid), errors.Is(err, errs.ErrUnprocessable):
		return "validation_error", msg, true
	default:
		return "", msg, false
	}
}

// writeServiceErr maps a service error to its HTTP status. Unknown errors are
// logged and hidden behind a generic 500.
func (s *Server) writeServiceErr(w http.ResponseWriter, r *http.Request, err error) {
	if code, msg, ok := mapValidationError(err); ok {
		unprocessable(w, msg, code)
		return
	}
	switch {
	case errors.Is(err, errs.ErrNotFound):
		notFound(w)
	case errors.Is(err, errs.ErrNameExists):
		conflict(w, err.Error(), "name_exists")
	case errors.Is(err, errs.ErrInUse):
		conflict(w, err.Error(), "in_use")
	case errors.Is(err, errs.ErrConflict):
		conflict(w, err.Error(), "conflict")
	default:
		s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		writeErr(w, http.StatusInternalServerError, "internal_error", "internal_error")
	}
}
