package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport mapping and retry decisions.
type Kind int

const (
	KindUnknown Kind = iota
	KindAuthRequired
	KindPermissionDenied
	KindNotFound
	KindConflict
	KindValidationFailed
	KindUnavailable
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindAuthRequired:
		return "auth_required"
	case KindPermissionDenied:
		return "permission_denied"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindValidationFailed:
		return "validation_failed"
	case KindUnavailable:
		return "unavailable"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "unknown"
	}
}

type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func AuthRequired(message string) *AppError      { return New(KindAuthRequired, message) }
func PermissionDenied(message string) *AppError  { return New(KindPermissionDenied, message) }
func NotFound(message string) *AppError          { return New(KindNotFound, message) }
func Conflict(message string) *AppError          { return New(KindConflict, message) }
func ValidationFailed(message string) *AppError  { return New(KindValidationFailed, message) }
func RateLimited(message string) *AppError       { return New(KindRateLimited, message) }
func Unavailable(message string, err error) *AppError {
	return Wrap(KindUnavailable, message, err)
}

// KindOf extracts the Kind from an error chain, KindUnknown if none.
func KindOf(err error) Kind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}

// IsRetryable reports whether the operation that produced err is safe to
// retry automatically. Only transient backend failures qualify.
func IsRetryable(err error) bool {
	return KindOf(err) == KindUnavailable
}
