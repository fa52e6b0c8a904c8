// Package runtime provides the pipeline execution engine.
// It orchestrates the execution of Input, Filter, and Output modules.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vmuptime/runtime/internal/errhandling"
	"github.com/vmuptime/runtime/internal/logger"
	"github.com/vmuptime/runtime/internal/modules/filter"
	"github.com/vmuptime/runtime/internal/modules/input"
	"github.com/vmuptime/runtime/internal/modules/output"
	"github.com/vmuptime/runtime/internal/table"
	"github.com/vmuptime/runtime/pkg/report"
)

// Error codes for pipeline execution errors
const (
	ErrCodeInputFailed  = "INPUT_FAILED"
	ErrCodeFilterFailed = "FILTER_FAILED"
	ErrCodeOutputFailed = "OUTPUT_FAILED"
	ErrCodeInvalidInput = "INVALID_INPUT"
)

// Execution status values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Common errors
var (
	// ErrNilPipeline is returned when pipeline configuration is nil
	ErrNilPipeline = errors.New("pipeline configuration is nil")

	// ErrNilInputModule is returned when input module is nil
	ErrNilInputModule = errors.New("input module is nil")

	// ErrNilOutputModule is returned when output module is nil
	ErrNilOutputModule = errors.New("output module is nil")
)

// Executor runs a pipeline: Input → Filters → Output.
//
// The Executor only sees modules through their interfaces. Each stage hands
// the next a new table; nothing is written until every filter has succeeded.
type Executor struct {
	inputModule   input.Module
	filterModules []filter.Module
	outputModule  output.Module
	dryRun        bool
	newRunID      func() string
}

// NewExecutorWithModules creates a new pipeline executor with all modules configured.
// With dryRun set, the input and filters run but the output module is never
// sent anything; RowsKept reports the rows that would have been written.
func NewExecutorWithModules(
	inputModule input.Module,
	filterModules []filter.Module,
	outputModule output.Module,
	dryRun bool,
) *Executor {
	return &Executor{
		inputModule:   inputModule,
		filterModules: filterModules,
		outputModule:  outputModule,
		dryRun:        dryRun,
		newRunID:      uuid.NewString,
	}
}

// stageTimings holds timing measurements for each execution stage
type stageTimings struct {
	inputDuration  time.Duration
	filterDuration time.Duration
	outputDuration time.Duration
}

// Execute runs the pipeline with the given context.
//
// Execution flow:
//  1. Validate pipeline and modules
//  2. Load the table with the input module (closed right after)
//  3. Run filter modules in sequence
//  4. Write the result with the output module (closed at the end), unless
//     this is a dry run
//  5. Return an ExecutionResult with status and row counts
//
// On failure the returned error wraps the module error with its stage, and
// the result carries a classified ExecutionError.
func (e *Executor) Execute(ctx context.Context, pipeline *report.Pipeline) (*report.ExecutionResult, error) {
	startedAt := time.Now()
	result := &report.ExecutionResult{
		RunID:     e.newRunID(),
		StartedAt: startedAt,
		Status:    StatusError,
		DryRun:    e.dryRun,
	}
	var timings stageTimings

	if err := e.validateExecution(pipeline, result); err != nil {
		return result, err
	}
	result.PipelineID = pipeline.ID

	execCtx := logger.ExecutionContext{
		PipelineID:   pipeline.ID,
		PipelineName: pipeline.Name,
		RunID:        result.RunID,
	}
	logger.LogExecutionStart(execCtx)

	defer e.closeModule(execCtx, "output", e.outputModule)

	tbl, inputDuration, err := e.executeInput(ctx, execCtx, result)
	timings.inputDuration = inputDuration
	e.closeModule(execCtx, "input", e.inputModule)
	if err != nil {
		logger.LogExecutionEnd(execCtx, StatusError, 0, time.Since(startedAt))
		return result, err
	}
	result.RowsRead = tbl.Len()

	filtered, filterDuration, err := e.executeFilters(ctx, execCtx, tbl, result)
	timings.filterDuration = filterDuration
	if err != nil {
		logger.LogExecutionEnd(execCtx, StatusError, 0, time.Since(startedAt))
		return result, err
	}

	outputDuration, err := e.executeOutput(ctx, execCtx, filtered, result)
	timings.outputDuration = outputDuration
	if err != nil {
		logger.LogExecutionEnd(execCtx, StatusError, result.RowsKept, time.Since(startedAt))
		return result, err
	}

	e.finalizeSuccess(execCtx, result, startedAt, timings)
	return result, nil
}

// buildExecutionError creates an ExecutionError with the classified category.
func buildExecutionError(code, module string, err error) *report.ExecutionError {
	return &report.ExecutionError{
		Code:          code,
		Message:       err.Error(),
		Module:        module,
		ErrorCategory: string(errhandling.ClassifyError(err).Category),
	}
}

// validateExecution validates the pipeline and modules before execution.
func (e *Executor) validateExecution(pipeline *report.Pipeline, result *report.ExecutionResult) error {
	fail := func(module string, err error) error {
		logger.Error("pipeline execution failed", slog.String("error", err.Error()))
		result.CompletedAt = time.Now()
		result.Error = buildExecutionError(ErrCodeInvalidInput, module, err)
		return err
	}

	switch {
	case pipeline == nil:
		return fail("", ErrNilPipeline)
	case e.inputModule == nil:
		return fail("input", ErrNilInputModule)
	case e.outputModule == nil:
		return fail("output", ErrNilOutputModule)
	}
	return nil
}

// moduleCloser interface for modules that can be closed.
type moduleCloser interface {
	Close() error
}

// closeModule closes a module and logs any error.
func (e *Executor) closeModule(execCtx logger.ExecutionContext, stage string, m moduleCloser) {
	if m == nil {
		return
	}
	if err := m.Close(); err != nil {
		logger.WithExecution(execCtx).Warn("failed to close module",
			slog.String("module", stage),
			slog.String("error", err.Error()),
		)
	}
}

// executeInput loads the table and returns it with the stage duration.
func (e *Executor) executeInput(ctx context.Context, execCtx logger.ExecutionContext, result *report.ExecutionResult) (*table.Table, time.Duration, error) {
	stageCtx := execCtx
	stageCtx.Stage = "input"
	logger.LogStageStart(stageCtx)

	start := time.Now()
	tbl, err := e.inputModule.Fetch(ctx)
	duration := time.Since(start)

	if err == nil && tbl == nil {
		err = errhandling.NewValidationError("input module returned no table", nil)
	}
	if err != nil {
		result.CompletedAt = time.Now()
		result.Error = buildExecutionError(ErrCodeInputFailed, "input", err)
		logger.LogStageEnd(stageCtx, 0, duration, &logger.ExecutionError{
			Code:    ErrCodeInputFailed,
			Message: err.Error(),
		})
		return nil, duration, fmt.Errorf("executing input module: %w", err)
	}

	logger.LogStageEnd(stageCtx, tbl.Len(), duration, nil)
	return tbl, duration, nil
}

// executeFilters runs all filter modules in sequence, collecting row-level
// statistics from filters that report them.
func (e *Executor) executeFilters(ctx context.Context, execCtx logger.ExecutionContext, tbl *table.Table, result *report.ExecutionResult) (*table.Table, time.Duration, error) {
	stageCtx := execCtx
	stageCtx.Stage = "filter"
	logger.LogStageStart(stageCtx)

	start := time.Now()
	current := tbl
	for i, filterModule := range e.filterModules {
		if filterModule == nil {
			logger.WithExecution(stageCtx).Warn("nil filter module encountered; skipping",
				slog.Int("filter_index", i))
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, time.Since(start), e.filterFailed(stageCtx, result, i, err, time.Since(start))
		}

		next, err := filterModule.Process(ctx, current)
		if err == nil && next == nil {
			err = errhandling.NewValidationError("filter module returned no table", nil)
		}
		if err != nil {
			return nil, time.Since(start), e.filterFailed(stageCtx, result, i, err, time.Since(start))
		}

		if p, ok := filterModule.(filter.StatsProvider); ok {
			result.RowsUnparsed += p.Stats().Unparsed()
		}

		logger.WithExecution(stageCtx).Debug("filter module completed",
			slog.Int("filter_index", i),
			slog.Int("input_rows", current.Len()),
			slog.Int("output_rows", next.Len()),
		)
		current = next
	}

	duration := time.Since(start)
	logger.LogStageEnd(stageCtx, current.Len(), duration, nil)
	return current, duration, nil
}

func (e *Executor) filterFailed(stageCtx logger.ExecutionContext, result *report.ExecutionResult, idx int, err error, duration time.Duration) error {
	errMsg := fmt.Sprintf("filter module %d failed: %v", idx, err)
	result.CompletedAt = time.Now()
	result.Error = buildExecutionError(ErrCodeFilterFailed, "filter", err)
	result.Error.Message = errMsg
	result.Error.Details = map[string]interface{}{"filterIndex": idx}
	logger.LogStageEnd(stageCtx, 0, duration, &logger.ExecutionError{
		Code:    ErrCodeFilterFailed,
		Message: errMsg,
	})
	return fmt.Errorf("executing filter module %d: %w", idx, err)
}

// executeOutput writes the final table and records the row count.
func (e *Executor) executeOutput(ctx context.Context, execCtx logger.ExecutionContext, tbl *table.Table, result *report.ExecutionResult) (time.Duration, error) {
	stageCtx := execCtx
	stageCtx.Stage = "output"
	logger.LogStageStart(stageCtx)

	if d, ok := e.outputModule.(output.Destination); ok {
		result.OutputPath = d.Destination()
	}

	if e.dryRun {
		result.RowsKept = tbl.Len()
		logger.WithExecution(stageCtx).Debug("dry-run mode: skipping output module",
			slog.Int("rows_would_write", tbl.Len()),
			slog.String("output_path", result.OutputPath),
		)
		logger.LogStageEnd(stageCtx, tbl.Len(), 0, nil)
		return 0, nil
	}

	start := time.Now()
	written, err := e.outputModule.Send(ctx, tbl)
	duration := time.Since(start)

	if err != nil {
		result.CompletedAt = time.Now()
		result.Error = buildExecutionError(ErrCodeOutputFailed, "output", err)
		logger.LogStageEnd(stageCtx, tbl.Len(), duration, &logger.ExecutionError{
			Code:    ErrCodeOutputFailed,
			Message: err.Error(),
		})
		return duration, fmt.Errorf("executing output module: %w", err)
	}

	result.RowsKept = written
	logger.LogStageEnd(stageCtx, written, duration, nil)
	return duration, nil
}

// finalizeSuccess marks the execution as successful and logs metrics.
func (e *Executor) finalizeSuccess(execCtx logger.ExecutionContext, result *report.ExecutionResult, startedAt time.Time, timings stageTimings) {
	result.Status = StatusSuccess
	result.CompletedAt = time.Now()
	result.Error = nil

	totalDuration := time.Since(startedAt)
	logger.LogExecutionEnd(execCtx, StatusSuccess, result.RowsKept, totalDuration)
	logger.LogMetrics(execCtx, logger.ExecutionMetrics{
		TotalDuration:  totalDuration,
		InputDuration:  timings.inputDuration,
		FilterDuration: timings.filterDuration,
		OutputDuration: timings.outputDuration,
		RowsRead:       result.RowsRead,
		RowsKept:       result.RowsKept,
		RowsUnparsed:   result.RowsUnparsed,
	})
}
