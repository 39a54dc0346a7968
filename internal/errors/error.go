package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig     Category = "config"
	CategoryProtocol   Category = "protocol"
	CategoryRuntime    Category = "runtime"
	CategoryValidation Category = "validation"
	CategoryCLI        Category = "cli"
)

// TableError is a structured error with a registered code, an explanation
// and a hint on how to fix it.
type TableError struct {
	// Code is a unique error identifier (e.g., "E101").
	Code string

	// Category is the error type (config, protocol, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *TableError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *TableError) Unwrap() error {
	return e.Wrapped
}

// Is matches another *TableError with the same code, so callers can test
// errors.Is(err, errors.New("E101")).
func (e *TableError) Is(target error) bool {
	t, ok := target.(*TableError)
	return ok && t.Code != "" && t.Code == e.Code
}

// WithDetail adds a detailed explanation to the error.
func (e *TableError) WithDetail(d string) *TableError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted detailed explanation to the error.
func (e *TableError) WithDetailf(format string, args ...any) *TableError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *TableError) WithSuggestion(s string) *TableError {
	e.Suggestion = s
	return e
}

// Wrap wraps another error.
func (e *TableError) Wrap(err error) *TableError {
	e.Wrapped = err
	return e
}

// New creates a TableError from a registered error code.
func New(code string) *TableError {
	template, ok := registry[code]
	if !ok {
		return &TableError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &TableError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a new TableError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *TableError {
	return &TableError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a TableError. A TableError anywhere
// in err's chain is returned as is.
func FromError(err error, code string) *TableError {
	if err == nil {
		return nil
	}
	var te *TableError
	if stderrors.As(err, &te) {
		return te
	}
	return New(code).Wrap(err)
}

// CodeOf returns the code of the first TableError in err's chain.
func CodeOf(err error) string {
	var te *TableError
	if stderrors.As(err, &te) {
		return te.Code
	}
	return ""
}
