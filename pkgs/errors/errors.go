package errors

import (
	stderrors "errors"
	"fmt"
)

// Error types for the failure categories reported by clex
const (
	// Input errors
	ErrInputRead = "INPUT_READ_ERROR"

	// Scanning errors
	ErrLexical = "LEXICAL_ERROR"

	// Token stream errors
	ErrEncode = "ENCODE_ERROR"
	ErrDecode = "DECODE_ERROR"

	// Usage errors
	ErrInvalidArguments = "INVALID_ARGUMENTS"
)

// Error represents a structured error with type and context
type Error struct {
	Type    string
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap allows error unwrapping
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error
func New(errorType, message string) *Error {
	return &Error{
		Type:    errorType,
		Message: message,
		Context: make(map[string]any),
	}
}

// Wrap creates a new Error wrapping an existing error
func Wrap(errorType, message string, cause error) *Error {
	return &Error{
		Type:    errorType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]any),
	}
}

// WithContext adds context information to the error
func (e *Error) WithContext(key string, value any) *Error {
	e.Context[key] = value
	return e
}

// GetContext returns context value by key
func (e *Error) GetContext(key string) (any, bool) {
	value, exists := e.Context[key]
	return value, exists
}

// NewInputError creates an input-related error
func NewInputError(source string, cause error) *Error {
	return Wrap(ErrInputRead, fmt.Sprintf("failed to read %s", source), cause).
		WithContext("source", source)
}

// NewLexicalError creates a scanning error for the named source
func NewLexicalError(source string, cause error) *Error {
	return Wrap(ErrLexical, fmt.Sprintf("failed to tokenize %s", source), cause).
		WithContext("source", source)
}

// NewInvalidArgumentError creates a usage error; suggestions are attached
// when the caller has any
func NewInvalidArgumentError(message string, suggestions ...string) *Error {
	err := New(ErrInvalidArguments, message)
	if len(suggestions) > 0 {
		err.WithContext("suggestions", suggestions)
	}
	return err
}

// TypeOf returns the type of the first *Error in err's chain, or ""
func TypeOf(err error) string {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ""
}

// IsErrorType checks if any error in err's chain is of a specific type
func IsErrorType(err error, errorType string) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Type == errorType {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}
