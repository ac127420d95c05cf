// Package errors defines the engine's error taxonomy: sentinel errors for
// each failure kind plus an AppError wrapper carrying a human-readable
// message. Public engine operations catch internal failures and re-raise
// them as a single AppError with the matching kind.
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidQuery      = errors.New("invalid search query")
	ErrWordNotFound      = errors.New("word not found in corpus")
	ErrProcessing        = errors.New("aggregation pipeline failure")
	ErrTimeout           = errors.New("operation timed out")
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrRunInFlight       = errors.New("aggregation already in flight")
	ErrInternal          = errors.New("internal error")
)

// Kind classifies an error for callers that switch on failure class rather
// than matching sentinels.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindProcessing
	KindTimeout
	KindUnsupportedFormat
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindProcessing:
		return "processing"
	case KindTimeout:
		return "timeout"
	case KindUnsupportedFormat:
		return "unsupported_format"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

type AppError struct {
	Err     error
	Message string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, message string) *AppError {
	return &AppError{
		Err:     sentinel,
		Message: message,
	}
}

func Newf(sentinel error, format string, args ...any) *AppError {
	return &AppError{
		Err:     sentinel,
		Message: fmt.Sprintf(format, args...),
	}
}

// KindOf maps an error to its Kind via the sentinel it wraps.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrInvalidQuery):
		return KindValidation
	case errors.Is(err, ErrWordNotFound):
		return KindNotFound
	case errors.Is(err, ErrProcessing):
		return KindProcessing
	case errors.Is(err, ErrTimeout):
		return KindTimeout
	case errors.Is(err, ErrUnsupportedFormat):
		return KindUnsupportedFormat
	case errors.Is(err, ErrRunInFlight):
		return KindConflict
	default:
		return KindInternal
	}
}
