package handler

// Response helpers shared by all handlers. Every error leaves through
// writeError so the domain-error → status-code mapping lives in exactly
// one place.
//
// Two envelopes are in use:
//
//	validation / credential problems → {"errors":[{"msg":...,"param":...}]}
//	everything else                  → {"error":...,"message":...}
//
// The errors-list shape matches what the frontend consumes for form
// feedback; the second is the generic API error.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/arefin/blog-api/internal/apperror"
)

// ErrorResponse is the generic error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`   // machine-readable type, e.g. "not_found"
	Message string `json:"message"` // human-readable description
}

// fieldError is one entry in the validation errors list.
type fieldError struct {
	Msg   string `json:"msg"`
	Param string `json:"param,omitempty"`
}

type errorList struct {
	Errors []fieldError `json:"errors"`
}

// writeJSON sends a JSON response with the given status code. Headers and
// status must be written before the body; once Encode starts writing they
// are locked in.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already gone — logging is all that's left.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to an HTTP response.
//
// Mapping:
//
//	ErrValidation     → 422 errors list (one entry per bad field)
//	ErrBadCredentials → 400 errors list
//	ErrConflict       → 400 errors list (duplicate email on register)
//	ErrUnauthorized   → 401 (bad/expired token, not the owner)
//	ErrNotFound       → 404
//	anything else     → 500, details never leaked to the client
func writeError(w http.ResponseWriter, err error) {
	// A bundle of field-level validation failures.
	var verr *apperror.Errors
	if errors.As(err, &verr) {
		items := make([]fieldError, 0, len(verr.Items))
		for _, item := range verr.Items {
			items = append(items, fieldError{Msg: item.Message, Param: item.Field})
		}
		writeJSON(w, http.StatusUnprocessableEntity, errorList{Errors: items})
		return
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		switch {
		case errors.Is(err, apperror.ErrValidation):
			writeJSON(w, http.StatusUnprocessableEntity, errorList{
				Errors: []fieldError{{Msg: appErr.Message, Param: appErr.Field}},
			})
		case errors.Is(err, apperror.ErrBadCredentials), errors.Is(err, apperror.ErrConflict):
			writeJSON(w, http.StatusBadRequest, errorList{
				Errors: []fieldError{{Msg: appErr.Message}},
			})
		case errors.Is(err, apperror.ErrUnauthorized):
			writeJSON(w, http.StatusUnauthorized, ErrorResponse{
				Error:   "unauthorized",
				Message: appErr.Message,
			})
		case errors.Is(err, apperror.ErrNotFound):
			writeJSON(w, http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: appErr.Message,
			})
		default:
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{
				Error:   "internal_error",
				Message: "An internal error occurred",
			})
		}
		return
	}

	// Unknown error — generic 500. The raw message might contain SQL or
	// file paths, so it stays in the logs only.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

// writeInvalidJSON is the response for an unparseable request body.
func writeInvalidJSON(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, errorList{
		Errors: []fieldError{{Msg: "invalid JSON body"}},
	})
}
