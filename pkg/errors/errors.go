package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents network-related errors
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeParsing represents HTML parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeCache represents cache-related errors
	ErrorTypeCache ErrorType = "cache"
	// ErrorTypePublisher represents publisher-related errors
	ErrorTypePublisher ErrorType = "publisher"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
	// ErrorTypeAuthentication represents rejected credentials
	ErrorTypeAuthentication ErrorType = "authentication"
	// ErrorTypeSessionExpired represents a portal page asking to log in again
	ErrorTypeSessionExpired ErrorType = "session_expired"
	// ErrorTypeStorage represents topic store errors
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypeNotification represents mail delivery errors
	ErrorTypeNotification ErrorType = "notification"
)

// AppError represents a component-specific error
type AppError struct {
	Type      ErrorType
	Component string
	Message   string
	Err       error
	Time      time.Time
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Component, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Component, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Retryable returns true if the failed operation may succeed after logging in again
func (e *AppError) Retryable() bool {
	switch e.Type {
	case ErrorTypeSessionExpired:
		return true
	default:
		return false
	}
}

// New creates a new AppError
func New(errType ErrorType, component, message string, err error) *AppError {
	return &AppError{
		Type:      errType,
		Component: component,
		Message:   message,
		Err:       err,
		Time:      time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(component, message string, err error) *AppError {
	return New(ErrorTypeNetwork, component, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(component, message string, err error) *AppError {
	return New(ErrorTypeParsing, component, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(component string, duration time.Duration) *AppError {
	message := fmt.Sprintf("rate limited for %v", duration)
	return New(ErrorTypeRateLimit, component, message, nil)
}

// NewCache creates a new cache error
func NewCache(component, message string, err error) *AppError {
	return New(ErrorTypeCache, component, message, err)
}

// NewPublisher creates a new publisher error
func NewPublisher(component, message string, err error) *AppError {
	return New(ErrorTypePublisher, component, message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *AppError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// NewAuthentication creates a new authentication error
func NewAuthentication(component, message string) *AppError {
	return New(ErrorTypeAuthentication, component, message, nil)
}

// NewSessionExpired creates a new session expired error
func NewSessionExpired(component string) *AppError {
	return New(ErrorTypeSessionExpired, component, "session expired, re-login required", nil)
}

// NewStorage creates a new storage error
func NewStorage(component, message string, err error) *AppError {
	return New(ErrorTypeStorage, component, message, err)
}

// NewNotification creates a new notification error
func NewNotification(component, message string, err error) *AppError {
	return New(ErrorTypeNotification, component, message, err)
}

// IsType reports whether any error in err's chain is an AppError of the given type
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return false
	}
	return appErr.Type == errType
}

// IsRetryable reports whether any AppError in err's chain may succeed after
// logging in again
func IsRetryable(err error) bool {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return false
	}
	return appErr.Retryable()
}
