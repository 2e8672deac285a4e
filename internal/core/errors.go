package core

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies errors for handling decisions.
type ErrorCategory string

const (
	ErrCatValidation ErrorCategory = "validation" // Invalid input
	ErrCatNotFound   ErrorCategory = "not_found"  // Missing workspace artifact
	ErrCatParse      ErrorCategory = "parse"      // Unreadable or malformed file
	ErrCatState      ErrorCategory = "state"      // Inconsistent workspace state
	ErrCatInternal   ErrorCategory = "internal"   // Unexpected internal error
)

// DomainError represents a structured error from the domain layer.
type DomainError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Cause    error
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s (%v)", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches on category and code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Category == t.Category && e.Code == t.Code
}

// WithCause wraps an underlying error.
func (e *DomainError) WithCause(cause error) *DomainError {
	e.Cause = cause
	return e
}

// ErrValidation creates a validation error.
func ErrValidation(code, message string) *DomainError {
	return &DomainError{Category: ErrCatValidation, Code: code, Message: message}
}

// ErrNotFound creates a not-found error for a workspace artifact.
func ErrNotFound(code, message string) *DomainError {
	return &DomainError{Category: ErrCatNotFound, Code: code, Message: message}
}

// ErrParse creates a parse error.
func ErrParse(code, message string) *DomainError {
	return &DomainError{Category: ErrCatParse, Code: code, Message: message}
}

// ErrState creates a state error.
func ErrState(code, message string) *DomainError {
	return &DomainError{Category: ErrCatState, Code: code, Message: message}
}

// GetCategory extracts the error category.
func GetCategory(err error) ErrorCategory {
	var domErr *DomainError
	if errors.As(err, &domErr) {
		return domErr.Category
	}
	return ErrCatInternal
}

// IsCategory checks if an error belongs to a category.
func IsCategory(err error, cat ErrorCategory) bool {
	return GetCategory(err) == cat
}

// Predefined error codes
const (
	CodeMissingWorkspace = "MISSING_WORKSPACE"
	CodeMissingManifest  = "MISSING_MANIFEST"
	CodeMissingOutput    = "MISSING_OUTPUT"
	CodeMissingMetadata  = "MISSING_METADATA"
	CodeMissingDocument  = "MISSING_DOCUMENT"
	CodeParseFailed      = "PARSE_FAILED"
	CodeInvalidPhase     = "INVALID_PHASE"
	CodeInvalidField     = "INVALID_FIELD"
	CodeChecksFailed     = "CHECKS_FAILED"
)
