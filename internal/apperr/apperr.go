// Package apperr carries the typed errors raised inside services so the
// HTTP layer can map each kind to a status code without inspecting
// message strings.
package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindConflict
	KindUnauthorized
	KindForbidden
)

type Error struct {
	Kind    Kind
	Message string
	Details interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func ValidationWithDetails(message string, details interface{}) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(format string, args ...interface{}) *Error {
	return &Error{Kind: KindUnauthorized, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...interface{}) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// IsKind reports whether err is an application error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

func statusCode(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// Write maps err to an HTTP status and writes a JSON error body. Unexpected
// errors are logged and surfaced as an opaque 500 so internal detail never
// reaches the client.
func Write(w http.ResponseWriter, err error) {
	var appErr *Error
	if !errors.As(err, &appErr) {
		appErr = Internal("internal server error", err)
	}

	if appErr.Kind == KindInternal {
		log.Printf("internal error: %v", err)
		appErr = &Error{Kind: KindInternal, Message: "internal server error"}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode(appErr.Kind))
	json.NewEncoder(w).Encode(errorBody{Error: appErr.Message, Details: appErr.Details})
}
