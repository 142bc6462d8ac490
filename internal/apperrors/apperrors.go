package apperrors

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// ErrorCategory defines the type of error for proper handling
type ErrorCategory string

const (
	CategoryValidation    ErrorCategory = "validation"
	CategoryStorage       ErrorCategory = "storage"
	CategoryEncoding      ErrorCategory = "encoding"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryInternal      ErrorCategory = "internal"
)

// AppError wraps an errbuilder error with category and timestamp context.
type AppError struct {
	*errbuilder.ErrBuilder
	Category  ErrorCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("[%s_ERROR] %s", strings.ToUpper(string(e.Category)), e.ErrBuilder.Msg)
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.ErrBuilder.Unwrap()
}

// NewAppError creates an AppError from errbuilder with additional context
func NewAppError(builder *errbuilder.ErrBuilder, category ErrorCategory) *AppError {
	return &AppError{
		ErrBuilder: builder,
		Category:   category,
		Timestamp:  time.Now(),
	}
}

// NewValidationError creates a validation error with optional per-field details
func NewValidationError(message string, details map[string]string) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(message)

	if len(details) > 0 {
		errorMap := errbuilder.ErrorMap{}
		for field, detail := range details {
			errorMap.Set(field, errors.New(detail))
		}
		builder = builder.WithDetails(errbuilder.NewErrDetails(errorMap))
	}

	return NewAppError(builder, CategoryValidation)
}

// NewStorageError creates a storage error using errbuilder
func NewStorageError(message string, cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeUnavailable).
		WithMsg(message)

	if cause != nil {
		builder = builder.WithCause(cause)
	}

	return NewAppError(builder, CategoryStorage)
}

// NewEncodingError creates an encoding error using errbuilder
func NewEncodingError(message string, cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(message)

	if cause != nil {
		builder = builder.WithCause(cause)
	}

	return NewAppError(builder, CategoryEncoding)
}

// NewConfigurationError creates a configuration error using errbuilder
func NewConfigurationError(message string, cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(message)

	if cause != nil {
		builder = builder.WithCause(cause)
	}

	return NewAppError(builder, CategoryConfiguration)
}

// NewInternalError creates an internal error using errbuilder
func NewInternalError(message string, cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(message)

	if cause != nil {
		builder = builder.WithCause(cause)
	}

	return NewAppError(builder, CategoryInternal)
}

// ToAppError converts any error to an AppError
func ToAppError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	if ebErr, ok := err.(*errbuilder.ErrBuilder); ok {
		return NewAppError(ebErr, CategoryInternal)
	}

	return NewInternalError("An unexpected error occurred", err)
}

// LogError logs an error with a level appropriate to its category.
func LogError(logger *slog.Logger, err *AppError) {
	entry := logger.With(
		"error_category", err.Category,
		"error_code", err.ErrBuilder.ErrCode(),
	)

	switch err.Category {
	case CategoryValidation, CategoryEncoding:
		entry.Warn(err.ErrBuilder.Msg)
	default:
		if cause := err.ErrBuilder.Unwrap(); cause != nil {
			entry.Error(err.ErrBuilder.Msg, "cause", cause)
		} else {
			entry.Error(err.ErrBuilder.Msg)
		}
	}
}

// WrapError wraps an error with additional context
func WrapError(err error, message string, args ...interface{}) error {
	if err == nil {
		return nil
	}

	contextMsg := fmt.Sprintf(message, args...)
	return fmt.Errorf("%s: %w", contextMsg, err)
}

// SafeClose safely closes a resource and logs any errors
func SafeClose(closer interface{ Close() error }, resourceName string) {
	if closer == nil {
		return
	}

	if err := closer.Close(); err != nil {
		slog.Warn("Failed to close resource",
			"resource", resourceName,
			"error", err)
	}
}
