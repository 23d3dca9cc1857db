package domain

import (
	"errors"
)

// Domain-specific errors. The handler layer maps these onto HTTP
// responses; reserved words, pattern mismatches and unknown codes all
// collapse into ErrLinkNotFound so callers cannot probe which codes exist.
var (
	// ErrLinkNotFound is returned when a short code does not resolve.
	ErrLinkNotFound = errors.New("link not found")

	// ErrCodeTaken is returned when the storage layer rejects a duplicate code.
	ErrCodeTaken = errors.New("short code already exists")

	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken covers missing, malformed and expired tokens alike.
	ErrInvalidToken = errors.New("invalid token")
)

// AppError wraps errors with HTTP status context.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Internal   bool // log full error, respond generically
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewInternalError creates a 500 error whose cause is logged but not exposed.
func NewInternalError(err error) *AppError {
	return &AppError{
		Err:        err,
		Message:    "internal server error",
		StatusCode: 500,
		Internal:   true,
	}
}
