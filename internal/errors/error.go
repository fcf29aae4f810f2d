package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryInvariant Category = "invariant"
	CategoryCanvas    Category = "canvas"
	CategoryHydration Category = "hydration"
	CategoryRuntime   Category = "runtime"
	CategoryConfig    Category = "config"
	CategoryCLI       Category = "cli"
)

// RetainError is a structured error with a code, an operation and a hint.
type RetainError struct {
	// Code is a unique error identifier (e.g., "E100").
	Code string

	// Category is the error type (invariant, canvas, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Op names the engine or adapter operation that failed (e.g., "replace").
	Op string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *RetainError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Op != "" {
		msg += " (" + e.Op + ")"
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *RetainError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a RetainError with the same code.
func (e *RetainError) Is(target error) bool {
	t, ok := target.(*RetainError)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// Clone returns a shallow copy of e.
func (e *RetainError) Clone() *RetainError {
	c := *e
	return &c
}

// WithOp records the failing operation.
func (e *RetainError) WithOp(op string) *RetainError {
	e.Op = op
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *RetainError) WithSuggestion(s string) *RetainError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *RetainError) WithDetail(d string) *RetainError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *RetainError) Wrap(err error) *RetainError {
	e.Wrapped = err
	return e
}

// New creates a RetainError from a registered error code.
func New(code string) *RetainError {
	template, ok := registry[code]
	if !ok {
		return &RetainError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &RetainError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new RetainError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *RetainError {
	return &RetainError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a RetainError.
// Errors that already are RetainErrors are returned unchanged.
func FromError(err error, code string) *RetainError {
	if err == nil {
		return nil
	}
	var re *RetainError
	if stderrors.As(err, &re) {
		return re
	}
	return New(code).Wrap(err)
}

// HasCode reports whether err is, or wraps, a RetainError with the given code.
func HasCode(err error, code string) bool {
	var re *RetainError
	for err != nil {
		if !stderrors.As(err, &re) {
			return false
		}
		if re.Code == code {
			return true
		}
		err = re.Wrapped
	}
	return false
}

// Recovered converts a value obtained from recover() into an error.
// A RetainError payload is returned as-is.
func Recovered(v any) error {
	switch x := v.(type) {
	case nil:
		return nil
	case *RetainError:
		return x
	case error:
		return New("E130").Wrap(x)
	default:
		return New("E130").Wrap(fmt.Errorf("%v", x))
	}
}
