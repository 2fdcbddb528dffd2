// Package apperror carries client-facing error lists. Every entry is a
// "<kind>/<field>" code plus a human message and is returned to the client
// as-is.
package apperror

import (
	"errors"
	"net/http"
	"strings"
)

// FieldError is one entry of an error list.
type FieldError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Errors is an aggregated list of field errors with the HTTP status the
// whole list should be answered with.
type Errors struct {
	Status int          `json:"-"`
	List   []FieldError `json:"errors"`
}

// New returns an empty list answered with status.
func New(status int) *Errors {
	return &Errors{Status: status}
}

// Validation returns an empty list for request validation (400).
func Validation() *Errors {
	return New(http.StatusBadRequest)
}

// Single is a shorthand for a one-entry list.
func Single(status int, code, message string) *Errors {
	e := New(status)
	e.Add(code, message)
	return e
}

// Add appends a field error.
func (e *Errors) Add(code, message string) {
	e.List = append(e.List, FieldError{Code: code, Message: message})
}

// Len returns the number of field errors.
func (e *Errors) Len() int {
	return len(e.List)
}

// OrNil returns e when it holds at least one entry. Callers use it to turn
// a collected list into a plain error return.
func (e *Errors) OrNil() error {
	if e.Len() == 0 {
		return nil
	}
	return e
}

// Error joins the field errors.
func (e *Errors) Error() string {
	parts := make([]string, 0, len(e.List))
	for _, fe := range e.List {
		parts = append(parts, fe.Code+": "+fe.Message)
	}
	return strings.Join(parts, "; ")
}

// Has reports whether the list contains code.
func (e *Errors) Has(code string) bool {
	for _, fe := range e.List {
		if fe.Code == code {
			return true
		}
	}
	return false
}

// As extracts an *Errors from err.
func As(err error) (*Errors, bool) {
	var e *Errors
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
