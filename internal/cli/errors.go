package cli

import (
	"fmt"

	"github.com/vmuptime/runtime/internal/config"
)

// PrintParseErrors prints pipeline definition parse errors.
func (p *Printer) PrintParseErrors(errors []config.ParseError) {
	fmt.Fprintln(p.Err, "✗ Parse errors:")
	for _, err := range errors {
		p.printSingleParseError(err)
	}
}

// printSingleParseError prints a single parse error with location information.
func (p *Printer) printSingleParseError(err config.ParseError) {
	location := formatErrorLocation(err.Source, err.Line)

	if location != "" {
		fmt.Fprintf(p.Err, "  %s: %s\n", location, err.Message)
	} else {
		fmt.Fprintf(p.Err, "  %s\n", err.Message)
	}

	if p.Opts.Verbose && err.Type != "" {
		fmt.Fprintf(p.Err, "    Type: %s\n", err.Type)
	}
}

// formatErrorLocation formats the error location string (source:line).
func formatErrorLocation(source string, line int) string {
	if source == "" {
		return ""
	}
	if line > 0 {
		return fmt.Sprintf("%s:%d", source, line)
	}
	return source
}

// PrintValidationErrors prints pipeline definition validation errors.
func (p *Printer) PrintValidationErrors(errors []config.ValidationError) {
	fmt.Fprintln(p.Err, "✗ Validation errors:")
	for _, err := range errors {
		p.printSingleValidationError(err)
	}
	if !p.Opts.Quiet && !p.Opts.Verbose {
		fmt.Fprintln(p.Err, "")
		fmt.Fprintln(p.Err, "Hint: Use --verbose for detailed error information")
	}
}

// printSingleValidationError prints a single validation error.
func (p *Printer) printSingleValidationError(err config.ValidationError) {
	path := err.Path
	if path == "" {
		path = "/"
	}

	if p.Opts.Verbose {
		fmt.Fprintf(p.Err, "  %s:\n", path)
		fmt.Fprintf(p.Err, "    Message: %s\n", err.Message)
		if err.Type != "" {
			fmt.Fprintf(p.Err, "    Type: %s\n", err.Type)
		}
		return
	}

	shortMsg := err.Message
	if len(shortMsg) > 80 {
		shortMsg = shortMsg[:77] + "..."
	}
	fmt.Fprintf(p.Err, "  %s: %s\n", path, shortMsg)
}
