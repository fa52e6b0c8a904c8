// Package errhandling provides error types and classification for pipeline execution.
package errhandling

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestErrorCategory tests error category constants and their string values.
func TestErrorCategory(t *testing.T) {
	tests := []struct {
		category ErrorCategory
		expected string
	}{
		{CategoryNotFound, "not_found"},
		{CategoryMalformed, "malformed"},
		{CategoryIO, "io"},
		{CategoryValidation, "validation"},
		{CategoryCanceled, "canceled"},
		{CategoryUnknown, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if string(tt.category) != tt.expected {
				t.Errorf("ErrorCategory = %v, want %v", tt.category, tt.expected)
			}
		})
	}
}

func TestClassifiedError(t *testing.T) {
	t.Run("message includes path and line", func(t *testing.T) {
		err := NewMalformedTableError("vms.csv", 4, "wrong number of fields", nil)
		want := "malformed error: vms.csv:4: wrong number of fields"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})

	t.Run("message without line", func(t *testing.T) {
		err := NewNotFoundError("vms.csv", nil)
		if !strings.Contains(err.Error(), "vms.csv") || !strings.Contains(err.Error(), "not_found") {
			t.Errorf("Error() = %q, want path and category", err.Error())
		}
	})

	t.Run("Unwrap returns original error", func(t *testing.T) {
		original := errors.New("original error")
		err := NewIOError("out.csv", "write failed", original)
		if !errors.Is(err, original) {
			t.Error("errors.Is() did not find original error")
		}
	})

	t.Run("errors.As through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("executing input module: %w", NewNotFoundError("vms.csv", fs.ErrNotExist))
		var classified *ClassifiedError
		if !errors.As(wrapped, &classified) {
			t.Fatal("errors.As() failed")
		}
		if classified.Category != CategoryNotFound {
			t.Errorf("Category = %v, want %v", classified.Category, CategoryNotFound)
		}
		if !errors.Is(wrapped, fs.ErrNotExist) {
			t.Error("errors.Is(fs.ErrNotExist) = false, want true")
		}
	})
}

func TestClassifyError(t *testing.T) {
	_, statErr := os.Open(filepath.Join(t.TempDir(), "missing.csv"))

	tests := []struct {
		name string
		err  error
		want ErrorCategory
	}{
		{name: "nil", err: nil, want: CategoryUnknown},
		{name: "missing file", err: statErr, want: CategoryNotFound},
		{name: "other path error", err: &fs.PathError{Op: "read", Path: "x", Err: fs.ErrPermission}, want: CategoryIO},
		{name: "canceled", err: context.Canceled, want: CategoryCanceled},
		{name: "deadline", err: fmt.Errorf("wrap: %w", context.DeadlineExceeded), want: CategoryCanceled},
		{name: "already classified", err: NewValidationError("bad", nil), want: CategoryValidation},
		{name: "plain", err: errors.New("boom"), want: CategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyError(tt.err)
			if got.Category != tt.want {
				t.Errorf("ClassifyError() category = %v, want %v", got.Category, tt.want)
			}
		})
	}
}

func TestPredicates(t *testing.T) {
	notFound := fmt.Errorf("wrap: %w", NewNotFoundError("a.csv", nil))
	malformed := NewMalformedTableError("a.csv", 2, "bad", nil)

	if !IsNotFound(notFound) || IsMalformed(notFound) {
		t.Error("not-found error misclassified")
	}
	if !IsMalformed(malformed) || IsNotFound(malformed) {
		t.Error("malformed error misclassified")
	}
	if IsNotFound(nil) || IsMalformed(errors.New("x")) {
		t.Error("unclassified errors should match neither predicate")
	}
	if GetErrorCategory(nil) != CategoryUnknown {
		t.Error("GetErrorCategory(nil) != CategoryUnknown")
	}
}
