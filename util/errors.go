package util

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind string

const (
	KindValidation      ErrorKind = "VALIDATION_ERROR"
	KindNotFound        ErrorKind = "NOT_FOUND"
	KindNotAuthorized   ErrorKind = "NOT_AUTHORIZED"
	KindUnauthenticated ErrorKind = "UNAUTHENTICATED"
	KindConflict        ErrorKind = "CONFLICT"
	KindUpstream        ErrorKind = "UPSTREAM_FAILURE"
	KindInternal        ErrorKind = "INTERNAL"
)

// AppError carries the kind the HTTP boundary maps to a status code.
type AppError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func ValidationError(msg string) *AppError {
	return &AppError{Kind: KindValidation, Message: msg}
}

func NotFound(msg string) *AppError {
	return &AppError{Kind: KindNotFound, Message: msg}
}

func NotAuthorized(msg string) *AppError {
	return &AppError{Kind: KindNotAuthorized, Message: msg}
}

func Unauthenticated(msg string) *AppError {
	return &AppError{Kind: KindUnauthenticated, Message: msg}
}

func Conflict(msg string) *AppError {
	return &AppError{Kind: KindConflict, Message: msg}
}

func Upstream(msg string, cause error) *AppError {
	return &AppError{Kind: KindUpstream, Message: msg, Cause: cause}
}

func Internal(msg string, cause error) *AppError {
	return &AppError{Kind: KindInternal, Message: msg, Cause: cause}
}

// KindOf reports INTERNAL for errors that were never classified.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func StatusCode(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindNotAuthorized:
		return http.StatusForbidden
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
