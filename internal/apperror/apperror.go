// Package apperror defines the error taxonomy shared by the services and the
// HTTP boundary. Domain packages declare their sentinels with New and compare
// with errors.Is, which matches on Kind.
package apperror

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindUnauthorized       Kind = "UNAUTHORIZED"
	KindForbidden          Kind = "FORBIDDEN"
	KindAccountDeactivated Kind = "ACCOUNT_DEACTIVATED"
	KindAccountPending     Kind = "ACCOUNT_PENDING"
	KindInvalidCredentials Kind = "INVALID_CREDENTIALS"
	KindValidation         Kind = "VALIDATION_ERROR"
	KindProductNotFound    Kind = "PRODUCT_NOT_FOUND"
	KindInsufficientStock  Kind = "INSUFFICIENT_STOCK"
	KindPriceMismatch      Kind = "PRICE_MISMATCH"
	KindInvalidTransition  Kind = "INVALID_TRANSITION"
	KindOrderNotFound      Kind = "ORDER_NOT_FOUND"
	KindOutletNotFound     Kind = "OUTLET_NOT_FOUND"
	KindEmailExists        Kind = "EMAIL_EXISTS"
	KindRateLimited        Kind = "RATE_LIMITED"
	KindPersistence        Kind = "PERSISTENCE_FAILURE"
)

var httpCodes = map[Kind]int{
	KindUnauthorized:       http.StatusUnauthorized,
	KindForbidden:          http.StatusForbidden,
	KindAccountDeactivated: http.StatusForbidden,
	KindAccountPending:     http.StatusForbidden,
	KindInvalidCredentials: http.StatusUnauthorized,
	KindValidation:         http.StatusBadRequest,
	KindProductNotFound:    http.StatusNotFound,
	KindInsufficientStock:  http.StatusConflict,
	KindPriceMismatch:      http.StatusConflict,
	KindInvalidTransition:  http.StatusConflict,
	KindOrderNotFound:      http.StatusNotFound,
	KindOutletNotFound:     http.StatusNotFound,
	KindEmailExists:        http.StatusConflict,
	KindRateLimited:        http.StatusTooManyRequests,
	KindPersistence:        http.StatusInternalServerError,
}

type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
	Err     error
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Persistence wraps a storage fault. Errors that already carry a Kind pass through.
func Persistence(err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != "" {
		return err
	}
	return Wrap(KindPersistence, "internal server error", err)
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind, so sentinels survive With.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// With returns a copy carrying an extra detail for the caller.
func (e *Error) With(key string, value any) *Error {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &Error{Kind: e.Kind, Message: e.Message, Details: details, Err: e.Err}
}

func (e *Error) HTTPCode() int {
	if code, ok := httpCodes[e.Kind]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// PublicMessage hides storage details from callers.
func (e *Error) PublicMessage() string {
	if e.Kind == KindPersistence {
		return "internal server error"
	}
	return e.Message
}

func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// TerminatesSession reports whether the boundary must end the caller's session.
func TerminatesSession(err error) bool {
	kind := KindOf(err)
	return kind == KindAccountDeactivated || kind == KindAccountPending
}
