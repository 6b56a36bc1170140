// Package apperrors defines the error taxonomy shared by services and
// the HTTP boundary. Domain-rule violations carry an actionable message
// for the caller; internal errors keep their cause for logging and are
// sanitized before they reach a client.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation           Kind = "validation"
	KindAuth                 Kind = "auth"
	KindForbidden            Kind = "forbidden"
	KindNotFound             Kind = "not_found"
	KindConflict             Kind = "conflict"
	KindInsufficientFunds    Kind = "insufficient_funds"
	KindInvalidAmount        Kind = "invalid_amount"
	KindAllocationOverflow   Kind = "allocation_overflow"
	KindNoActivePreferences  Kind = "no_active_preferences"
	KindOrgUnresolvable      Kind = "organization_unresolvable"
	KindDirectoryUnavailable Kind = "directory_unavailable"
	KindInternal             Kind = "internal"
)

type AppError struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Status maps the error kind to an HTTP status code.
func (e *AppError) Status() int {
	switch e.Kind {
	case KindValidation, KindInvalidAmount, KindOrgUnresolvable:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindInsufficientFunds, KindAllocationOverflow, KindNoActivePreferences:
		return http.StatusUnprocessableEntity
	case KindDirectoryUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, msg string) *AppError {
	return &AppError{Kind: kind, Message: msg}
}

func Wrap(kind Kind, msg string, cause error) *AppError {
	return &AppError{Kind: kind, Message: msg, cause: cause}
}

func Validation(msg string) *AppError { return New(KindValidation, msg) }
func Auth(msg string) *AppError       { return New(KindAuth, msg) }
func Forbidden(msg string) *AppError  { return New(KindForbidden, msg) }
func NotFound(msg string) *AppError   { return New(KindNotFound, msg) }
func Conflict(msg string) *AppError   { return New(KindConflict, msg) }

func InsufficientFunds(msg string) *AppError   { return New(KindInsufficientFunds, msg) }
func InvalidAmount(msg string) *AppError       { return New(KindInvalidAmount, msg) }
func AllocationOverflow(msg string) *AppError  { return New(KindAllocationOverflow, msg) }
func NoActivePreferences(msg string) *AppError { return New(KindNoActivePreferences, msg) }
func OrgUnresolvable(msg string) *AppError     { return New(KindOrgUnresolvable, msg) }

func DirectoryUnavailable(cause error) *AppError {
	return Wrap(KindDirectoryUnavailable, "charity directory unavailable", cause)
}

func Internal(cause error) *AppError {
	return Wrap(KindInternal, "internal error", cause)
}

// KindOf extracts the Kind from any error in the chain, defaulting to
// KindInternal for unrecognized errors.
func KindOf(err error) Kind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
