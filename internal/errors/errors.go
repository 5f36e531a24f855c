// Package errors provides the structured error type (ReleaseError) used to
// classify release failures and carry the process exit code of the stage that
// produced them.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of a release error for classification.
type ErrorCategory string

const (
	// Invocation and input errors
	CategoryUsage      ErrorCategory = "usage"
	CategoryValidation ErrorCategory = "validation"
	CategoryConfig     ErrorCategory = "config"

	// Pipeline errors
	CategoryBuild     ErrorCategory = "build"
	CategoryPackaging ErrorCategory = "packaging"
	CategoryCleanup   ErrorCategory = "cleanup"

	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// Fixed exit codes that do not belong to a stage.
const (
	ExitSuccess = 0
	ExitUsage   = 65
	// ExitInternal reports a fault of prepdist itself, never of a stage.
	ExitInternal = 70
)

// ReleaseError is a structured error with category, exit code and context.
type ReleaseError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Stage    string        `json:"stage,omitempty"`
	Code     int           `json:"code"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for ReleaseError
type ContextFields map[string]any

// Error implements the error interface
func (e *ReleaseError) Error() string {
	prefix := string(e.Category)
	if e.Stage != "" {
		prefix = fmt.Sprintf("%s [%s]", e.Category, e.Stage)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *ReleaseError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *ReleaseError) WithContext(key string, value any) *ReleaseError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// WithStage records the stage that failed and the exit code it declares.
func (e *ReleaseError) WithStage(stage string, code int) *ReleaseError {
	e.Stage = stage
	e.Code = code
	return e
}

// New creates a new ReleaseError
func New(category ErrorCategory, severity ErrorSeverity, message string) *ReleaseError {
	return &ReleaseError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new ReleaseError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *ReleaseError {
	return &ReleaseError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// As extracts a *ReleaseError from an error chain.
func As(err error) (*ReleaseError, bool) {
	for err != nil {
		if re, ok := err.(*ReleaseError); ok {
			return re, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	return nil, false
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if re, ok := As(err); ok {
		return re.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a ReleaseError
func GetCategory(err error) ErrorCategory {
	if re, ok := As(err); ok {
		return re.Category
	}
	return CategoryInternal
}
