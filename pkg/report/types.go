// Package report provides public types for the VM uptime report pipeline.
// This package is intended to be importable by external projects that need
// to inspect a pipeline definition or the result of a run.
package report

import "time"

// Pipeline represents the uptime report pipeline definition.
// It names the modules (Input, Filters, Output) that the executor runs.
type Pipeline struct {
	// ID is the unique identifier for this pipeline
	ID string `json:"id"`

	// Name is the human-readable name of the pipeline
	Name string `json:"name"`

	// Description provides additional context about the pipeline
	Description string `json:"description,omitempty"`

	// Version is the pipeline definition version
	Version string `json:"version"`

	// Input defines the table source module
	Input *ModuleConfig `json:"input"`

	// Filters is an ordered list of table transformation modules
	Filters []ModuleConfig `json:"filters,omitempty"`

	// Output defines the table destination module
	Output *ModuleConfig `json:"output"`
}

// ModuleConfig represents the configuration for a pipeline module.
type ModuleConfig struct {
	// Type identifies the module type (e.g., "csvFile", "uptimeDays", "condition")
	Type string `json:"type"`

	// Config contains the module-specific configuration
	Config map[string]interface{} `json:"config"`
}

// ExecutionResult represents the result of a pipeline execution.
type ExecutionResult struct {
	// RunID uniquely identifies this execution
	RunID string `json:"runId"`

	// PipelineID is the ID of the executed pipeline
	PipelineID string `json:"pipelineId"`

	// Status is the execution status ("success", "error")
	Status string `json:"status"`

	// StartedAt is when execution started
	StartedAt time.Time `json:"startedAt"`

	// CompletedAt is when execution completed
	CompletedAt time.Time `json:"completedAt"`

	// RowsRead is the number of rows loaded by the input module
	RowsRead int `json:"rowsRead"`

	// RowsKept is the number of rows written by the output module
	RowsKept int `json:"rowsKept"`

	// RowsUnparsed is the number of rows whose uptime could not be parsed
	// and were counted as zero days
	RowsUnparsed int `json:"rowsUnparsed"`

	// OutputPath is where the output module wrote the table, if it reports one
	OutputPath string `json:"outputPath,omitempty"`

	// DryRun is set when the output module was skipped; RowsKept then counts
	// the rows that would have been written
	DryRun bool `json:"dryRun,omitempty"`

	// Error contains error details if execution failed
	Error *ExecutionError `json:"error,omitempty"`
}

// ExecutionError contains details about an execution failure.
type ExecutionError struct {
	// Code is the error code
	Code string `json:"code"`

	// Message is the human-readable error message
	Message string `json:"message"`

	// Module is the module where the error occurred
	Module string `json:"module,omitempty"`

	// ErrorCategory is the classified category (not_found, malformed, io, ...)
	ErrorCategory string `json:"errorCategory,omitempty"`

	// Details contains additional error context
	Details map[string]interface{} `json:"details,omitempty"`
}
