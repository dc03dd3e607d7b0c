// Package errors provides the standardized error types used across the
// DailyWalk codebase.
//
// Citation parsing deliberately does not use this package: unparseable
// input propagates as nil values that the renderer turns into placeholders.
// These types serve the paths that genuinely fail, i.e. I/O, stores, and
// document loading.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases.
var (
	// ErrNotFound indicates a resource was not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates invalid input or validation failure.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInternal indicates an internal system error.
	ErrInternal = errors.New("internal error")
	// ErrUnsupported indicates an unsupported operation or format.
	ErrUnsupported = errors.New("unsupported")
)

// NotFoundError reports a missing resource with context.
type NotFoundError struct {
	Resource string // type of resource (e.g. "cache entry", "store")
	ID       string // identifier of the resource
	Err      error  // underlying error, if any
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNotFound
}

// ValidationError reports invalid configuration or input.
type ValidationError struct {
	Field   string // field that failed validation
	Message string // human-readable error message
	Err     error  // underlying error, if any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// IOError reports an I/O operation failure with context.
type IOError struct {
	Operation string // operation being performed (e.g. "read", "write", "open")
	Path      string // file/resource path involved
	Err       error  // underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError reports a parsing or deserialization failure.
type ParseError struct {
	Format  string // format being parsed (e.g. "JSON", "XML", "xz")
	Path    string // file path, if applicable
	Message string // error details
	Err     error  // underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// UnsupportedError reports an unsupported feature or format.
type UnsupportedError struct {
	Feature string // feature or format that is unsupported
	Reason  string // why it is not supported
	Err     error  // underlying error, if any
}

func (e *UnsupportedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported %s: %s", e.Feature, e.Reason)
	}
	return fmt.Sprintf("unsupported %s", e.Feature)
}

func (e *UnsupportedError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrUnsupported
}

// NewNotFound creates a NotFoundError.
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// NewValidation creates a ValidationError.
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NewIO creates an IOError.
func NewIO(operation, path string, err error) *IOError {
	return &IOError{Operation: operation, Path: path, Err: err}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
