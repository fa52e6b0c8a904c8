// Package config parses and validates the pipeline definition.
package config

import (
	"fmt"
	"strings"
)

// ParseResult contains the result of parsing a pipeline definition.
type ParseResult struct {
	// Data contains the parsed definition as a map
	Data map[string]interface{}
	// Errors contains any parsing errors encountered
	Errors []ParseError
	// Source names the parsed document (empty if parsed from an anonymous string)
	Source string
}

// IsValid returns true if no parsing errors occurred.
func (r *ParseResult) IsValid() bool {
	return len(r.Errors) == 0
}

// ParseError represents a parsing error with location information.
type ParseError struct {
	// Source names the document where the error occurred
	Source string
	// Line is the line number (1-based, 0 if unknown)
	Line int
	// Message is the error message
	Message string
	// Type categorizes the error (syntax, format)
	Type string
}

// Error implements the error interface.
func (e ParseError) Error() string {
	var sb strings.Builder
	if e.Source != "" {
		sb.WriteString(e.Source)
		sb.WriteString(": ")
	}
	if e.Line > 0 {
		sb.WriteString(fmt.Sprintf("line %d: ", e.Line))
	}
	sb.WriteString(e.Message)
	return sb.String()
}

// ValidationResult contains the result of validating a definition.
type ValidationResult struct {
	// Valid indicates whether the definition is valid
	Valid bool
	// Errors contains validation errors
	Errors []ValidationError
}

// ValidationError represents a schema validation error.
type ValidationError struct {
	// Path is the JSON pointer where the error occurred (e.g., "/pipeline/input/path")
	Path string
	// Type is the error type (required, type, pattern, const, etc.)
	Type string
	// Message is the error message
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// Result contains the combined result of parsing and validation.
type Result struct {
	// Data contains the parsed and validated definition
	Data map[string]interface{}
	// ParseErrors contains parsing errors
	ParseErrors []ParseError
	// ValidationErrors contains validation errors
	ValidationErrors []ValidationError
	// Source names the parsed document
	Source string
}

// IsValid returns true if no errors occurred.
func (r *Result) IsValid() bool {
	return len(r.ParseErrors) == 0 && len(r.ValidationErrors) == 0
}

// AllErrors returns all errors (parsing and validation) as a single slice.
func (r *Result) AllErrors() []error {
	errors := make([]error, 0, len(r.ParseErrors)+len(r.ValidationErrors))
	for _, e := range r.ParseErrors {
		errors = append(errors, e)
	}
	for _, e := range r.ValidationErrors {
		errors = append(errors, e)
	}
	return errors
}

// Parse error types.
const (
	ErrorTypeSyntax = "syntax"
	ErrorTypeFormat = "format"
)
