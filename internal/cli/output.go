// Package cli provides CLI output formatting and display functions.
//
// Stdout carries only the confirmation line of a successful run; everything
// else goes to stderr.
package cli

import (
	"fmt"
	"io"

	"github.com/vmuptime/runtime/internal/logger"
	"github.com/vmuptime/runtime/pkg/report"
)

// OutputOptions configures CLI output behavior.
type OutputOptions struct {
	Verbose bool
	Quiet   bool
}

// Printer writes command results to a pair of streams.
type Printer struct {
	Out  io.Writer
	Err  io.Writer
	Opts OutputOptions
}

// PrintExecutionResult displays the pipeline execution result.
func (p *Printer) PrintExecutionResult(result *report.ExecutionResult, err error) {
	if result == nil {
		fmt.Fprintln(p.Err, "✗ No execution result available")
		return
	}

	if err != nil {
		fmt.Fprintln(p.Err, "✗ Pipeline execution failed")
		if result.Error != nil {
			if result.Error.Module != "" {
				fmt.Fprintf(p.Err, "  Module: %s\n", result.Error.Module)
			}
			fmt.Fprintf(p.Err, "  Error: %s\n", result.Error.Message)
			if p.Opts.Verbose {
				fmt.Fprintf(p.Err, "  Code: %s\n", result.Error.Code)
				fmt.Fprintf(p.Err, "  Category: %s\n", result.Error.ErrorCategory)
			}
		} else {
			fmt.Fprintf(p.Err, "  Error: %v\n", err)
		}
		if p.Opts.Verbose && result.RunID != "" {
			fmt.Fprintf(p.Err, "  Run: %s\n", result.RunID)
		}
		return
	}

	if result.DryRun {
		fmt.Fprintf(p.Out, "Dry run: %d of %d VMs up for a week or more; %s was not written\n",
			result.RowsKept, result.RowsRead, result.OutputPath)
	} else {
		fmt.Fprintf(p.Out, "VMs up for a week or more have been saved to %s\n", result.OutputPath)
	}

	if p.Opts.Verbose {
		fmt.Fprintf(p.Err, "  %s\n", logger.FormatMetricsHuman(logger.ExecutionMetrics{
			TotalDuration: result.CompletedAt.Sub(result.StartedAt),
			RowsRead:      result.RowsRead,
			RowsKept:      result.RowsKept,
			RowsUnparsed:  result.RowsUnparsed,
		}))
		fmt.Fprintf(p.Err, "  Run: %s\n", result.RunID)
	}
}
