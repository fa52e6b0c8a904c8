// Package errhandling provides error types and classification for table-level
// failures in the uptime report pipeline.
//
// Row-level problems (an unreadable uptime string) never reach this package:
// they are recovered where the row is processed. Everything classified here
// is fatal to the run.
package errhandling

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
)

// ErrorCategory represents the type/category of an error.
type ErrorCategory string

// Error categories for classification.
const (
	// CategoryNotFound represents a missing input file.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryMalformed represents a table whose structure cannot be trusted:
	// CSV syntax errors, rows whose width differs from the header, an empty
	// file, or a missing required column.
	CategoryMalformed ErrorCategory = "malformed"

	// CategoryIO represents read or write failures other than a missing file.
	CategoryIO ErrorCategory = "io"

	// CategoryValidation represents an invalid pipeline definition or module
	// configuration (bad expression, unknown module type, bad path).
	CategoryValidation ErrorCategory = "validation"

	// CategoryCanceled represents a run stopped by its context.
	CategoryCanceled ErrorCategory = "canceled"

	// CategoryUnknown represents unclassified errors.
	CategoryUnknown ErrorCategory = "unknown"
)

// ClassifiedError wraps an error with classification metadata.
type ClassifiedError struct {
	// Category is the error classification category.
	Category ErrorCategory

	// Path is the file involved, if any.
	Path string

	// Line is the 1-based line in Path where the problem was found (0 if unknown).
	Line int

	// Message is a human-readable error message.
	Message string

	// OriginalErr is the underlying error that was classified.
	OriginalErr error
}

// Error implements the error interface.
func (e *ClassifiedError) Error() string {
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("%s error: %s:%d: %s", e.Category, e.Path, e.Line, e.Message)
	case e.Path != "":
		return fmt.Sprintf("%s error: %s: %s", e.Category, e.Path, e.Message)
	default:
		return fmt.Sprintf("%s error: %s", e.Category, e.Message)
	}
}

// Unwrap returns the original error for use with errors.Is and errors.As.
func (e *ClassifiedError) Unwrap() error {
	return e.OriginalErr
}

// NewNotFoundError creates a ClassifiedError for a missing file.
func NewNotFoundError(path string, originalErr error) *ClassifiedError {
	return &ClassifiedError{
		Category:    CategoryNotFound,
		Path:        path,
		Message:     "file not found",
		OriginalErr: originalErr,
	}
}

// NewMalformedTableError creates a ClassifiedError for a structurally invalid table.
func NewMalformedTableError(path string, line int, message string, originalErr error) *ClassifiedError {
	return &ClassifiedError{
		Category:    CategoryMalformed,
		Path:        path,
		Line:        line,
		Message:     message,
		OriginalErr: originalErr,
	}
}

// NewIOError creates a ClassifiedError for read/write failures.
func NewIOError(path string, message string, originalErr error) *ClassifiedError {
	return &ClassifiedError{
		Category:    CategoryIO,
		Path:        path,
		Message:     message,
		OriginalErr: originalErr,
	}
}

// NewValidationError creates a ClassifiedError for invalid configuration.
func NewValidationError(message string, originalErr error) *ClassifiedError {
	return &ClassifiedError{
		Category:    CategoryValidation,
		Message:     message,
		OriginalErr: originalErr,
	}
}

// ClassifyError classifies any error into a ClassifiedError.
// Already classified errors are returned as-is.
func ClassifyError(err error) *ClassifiedError {
	if err == nil {
		return &ClassifiedError{
			Category: CategoryUnknown,
			Message:  "nil error",
		}
	}

	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &ClassifiedError{
			Category:    CategoryCanceled,
			Message:     err.Error(),
			OriginalErr: err,
		}
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		if errors.Is(err, fs.ErrNotExist) {
			return NewNotFoundError(pathErr.Path, err)
		}
		return NewIOError(pathErr.Path, pathErr.Err.Error(), err)
	}

	return &ClassifiedError{
		Category:    CategoryUnknown,
		Message:     err.Error(),
		OriginalErr: err,
	}
}

// GetErrorCategory returns the error category for a given error.
// Returns CategoryUnknown for nil or unclassified errors.
func GetErrorCategory(err error) ErrorCategory {
	if err == nil {
		return CategoryUnknown
	}

	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified.Category
	}

	return CategoryUnknown
}

// IsNotFound reports whether err is a missing-file error.
func IsNotFound(err error) bool {
	return GetErrorCategory(err) == CategoryNotFound
}

// IsMalformed reports whether err is a malformed-table error.
func IsMalformed(err error) bool {
	return GetErrorCategory(err) == CategoryMalformed
}
