// Package apperr defines the application error taxonomy shared by every domain.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Kind classifies an error for transport mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindUnauthenticated
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// HTTPStatus returns the status code a handler should answer with.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Error is the error type services hand back to handlers.
type Error struct {
	Kind    Kind
	Code    string
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

func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetails returns a copy carrying details (e.g. per-field validation messages).
func (e *Error) WithDetails(details interface{}) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

func New(kind Kind, code, message string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: cause}
}

func Validation(code, message string) *Error {
	return New(KindValidation, code, message, nil)
}

func NotFound(code, message string, cause error) *Error {
	return New(KindNotFound, code, message, cause)
}

func Conflict(code, message string, cause error) *Error {
	return New(KindConflict, code, message, cause)
}

func Unauthenticated(code, message string) *Error {
	return New(KindUnauthenticated, code, message, nil)
}

func Forbidden(code, message string) *Error {
	return New(KindForbidden, code, message, nil)
}

func Internal(message string, cause error) *Error {
	return New(KindInternal, "INTERNAL_ERROR", message, cause)
}

// FromValidation converts an ozzo validation result into a Validation error.
// Field errors become Details; returns nil when err is nil.
func FromValidation(code string, err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		details := make(map[string]string, len(fieldErrs))
		for field, fe := range fieldErrs {
			if fe != nil {
				details[field] = fe.Error()
			}
		}
		return &Error{Kind: KindValidation, Code: code, Message: "validation failed", Details: details, Err: err}
	}

	var internalErr validation.InternalError
	if errors.As(err, &internalErr) {
		return Internal("validation failed", err)
	}

	return &Error{Kind: KindValidation, Code: code, Message: err.Error(), Err: err}
}

// As extracts *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf reports the kind of err; unknown errors are internal.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInternal
}
