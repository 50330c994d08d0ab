package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage is used when a key is missing.
	RedisNotFoundMessage = "record not found"
	// RedisTimeoutMessage is used when a Redis call outlives its deadline.
	RedisTimeoutMessage = "redis operation timed out"
	// RedisClosedMessage is used once the Redis client has been shut down.
	RedisClosedMessage = "redis client closed"
	// CatalogUnavailableMessage is returned when no menu can be loaded for a session.
	CatalogUnavailableMessage = "menu catalog unavailable"
	// SessionNotFoundMessage is returned for unknown or expired sessions.
	SessionNotFoundMessage = "session not found"
)

// AppError wraps an underlying error with an HTTP status and safe message.
type AppError struct {
	Err     error
	Status  int
	Message string
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// WrapCatalog marks a catalog load failure as fatal for the session being started.
func WrapCatalog(err error) error {
	if err == nil {
		return nil
	}
	return New(err, http.StatusServiceUnavailable, CatalogUnavailableMessage)
}

// NotFound wraps err as a 404 with the given message.
func NotFound(err error, message string) error {
	if err == nil {
		return nil
	}
	return New(err, http.StatusNotFound, message)
}

// StatusOf returns the HTTP status carried by err, or 500 when err is not an AppError.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// MessageOf returns a message safe to show to API clients.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return SystemErrorMessage
}
