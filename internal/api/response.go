package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"dtmapi/internal/apperror"

	"go.uber.org/zap"
)

type errorBody struct {
	Successful bool                  `json:"successful"`
	Errors     []apperror.FieldError `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONError writes a single untyped error entry.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{
		Errors: []apperror.FieldError{{Code: "error", Message: message}},
	})
}

// writeError answers err with its own status when it is an error list, and
// with an opaque 500 otherwise.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if list, ok := apperror.As(err); ok {
		writeJSON(w, list.Status, errorBody{Errors: list.List})
		return
	}
	h.logger.Error("Request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	writeJSONError(w, http.StatusInternalServerError, "Internal server error")
}

// decodeJSON fills v from the body. An empty body leaves v untouched so
// field validation reports what is missing.
func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return apperror.Single(http.StatusBadRequest, "invalid/body", "Invalid request payload")
}
