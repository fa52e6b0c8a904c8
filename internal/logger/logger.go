// Package logger provides structured logging functionality.
// It wraps the standard log/slog package for consistent logging across the
// report pipeline.
//
// Logs are written to stderr: stdout is reserved for the report's
// confirmation line. Field names are snake_case. Two formats are supported:
//   - Human (default): console output with level prefixes and optional colors
//   - JSON: machine-readable structured logging
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Logger is the default logger instance.
var Logger *slog.Logger

// output is where Configure sends log lines.
var output io.Writer = os.Stderr

func init() {
	Configure(slog.LevelWarn, FormatHuman)
}

// OutputFormat represents the log output format
type OutputFormat int

const (
	// FormatHuman is a human-readable console format with colors and prefixes
	FormatHuman OutputFormat = iota
	// FormatJSON is the machine-readable JSON format
	FormatJSON
)

// ParseFormat maps a format name ("human", "json") to an OutputFormat.
func ParseFormat(name string) (OutputFormat, error) {
	switch strings.ToLower(name) {
	case "", "human":
		return FormatHuman, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatHuman, fmt.Errorf("unknown log format %q (want human or json)", name)
	}
}

// String returns the name of the output format.
func (f OutputFormat) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "human"
}

// Configure replaces Logger with one writing at level in the given format.
func Configure(level slog.Level, format OutputFormat) {
	Logger = slog.New(newHandler(output, level, format))
}

// SetOutput changes the destination of subsequently configured loggers and
// reconfigures Logger at the given level and format.
func SetOutput(w io.Writer, level slog.Level, format OutputFormat) {
	output = w
	Configure(level, format)
}

func newHandler(w io.Writer, level slog.Level, format OutputFormat) slog.Handler {
	if format == FormatJSON {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}
	return NewHumanHandler(w, &HumanHandlerOptions{
		Level:     level,
		UseColors: isTerminal(w),
	})
}

// Info logs an informational message.
func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

// Error logs an error message.
func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}

// WithModule returns a logger with module context.
func WithModule(stage string, moduleType string) *slog.Logger {
	return Logger.With("stage", stage, "module_type", moduleType)
}

// =============================================================================
// Execution Context Types
// =============================================================================

// ExecutionContext contains context information for pipeline execution logging.
type ExecutionContext struct {
	// PipelineID is the identifier of the pipeline definition (required)
	PipelineID string
	// PipelineName is the human-readable name of the pipeline
	PipelineName string
	// RunID identifies one execution
	RunID string
	// Stage is the current execution stage (input, filter, output)
	Stage string
	// ModuleType is the type of module being executed (csvFile, uptimeDays, condition)
	ModuleType string
}

// ExecutionError contains structured error information for logging.
type ExecutionError struct {
	// Code is the error code (e.g., INPUT_FAILED)
	Code string
	// Message is the human-readable error message
	Message string
}

// ExecutionMetrics contains performance metrics for execution logging.
type ExecutionMetrics struct {
	TotalDuration  time.Duration
	InputDuration  time.Duration
	FilterDuration time.Duration
	OutputDuration time.Duration
	// RowsRead is the number of rows loaded
	RowsRead int
	// RowsKept is the number of rows written
	RowsKept int
	// RowsUnparsed is the number of rows whose uptime fell back to zero
	RowsUnparsed int
}

// =============================================================================
// Execution Context Helpers
// =============================================================================

// WithExecution returns a logger with execution context attached.
// Only non-empty fields are included in the log output.
func WithExecution(ctx ExecutionContext) *slog.Logger {
	return Logger.With(buildContextAttrs(ctx)...)
}

// LogExecutionStart logs the start of a pipeline execution.
func LogExecutionStart(ctx ExecutionContext) {
	Logger.Info("execution started", buildContextAttrs(ctx)...)
}

// LogExecutionEnd logs the completion of a pipeline execution.
func LogExecutionEnd(ctx ExecutionContext, status string, rowsKept int, duration time.Duration) {
	attrs := buildContextAttrs(ctx)
	attrs = append(attrs,
		slog.String("status", status),
		slog.Int("rows_kept", rowsKept),
		slog.Duration("duration", duration),
	)
	Logger.Info("execution completed", attrs...)
}

// LogStageStart logs the start of a pipeline stage (input, filter, output).
func LogStageStart(ctx ExecutionContext) {
	Logger.Debug("stage started", buildContextAttrs(ctx)...)
}

// LogStageEnd logs the completion of a pipeline stage.
// If err is non-nil, logs as an error with error details.
func LogStageEnd(ctx ExecutionContext, rowCount int, duration time.Duration, err *ExecutionError) {
	attrs := buildContextAttrs(ctx)
	attrs = append(attrs,
		slog.Int("row_count", rowCount),
		slog.Duration("duration", duration),
	)

	if err != nil {
		attrs = append(attrs,
			slog.String("error_code", err.Code),
			slog.String("error", err.Message),
		)
		Logger.Error("stage failed", attrs...)
		return
	}
	Logger.Debug("stage completed", attrs...)
}

// LogMetrics logs execution performance metrics.
func LogMetrics(ctx ExecutionContext, metrics ExecutionMetrics) {
	attrs := buildContextAttrs(ctx)
	attrs = append(attrs,
		slog.Duration("total_duration", metrics.TotalDuration),
		slog.Duration("input_duration", metrics.InputDuration),
		slog.Duration("filter_duration", metrics.FilterDuration),
		slog.Duration("output_duration", metrics.OutputDuration),
		slog.Int("rows_read", metrics.RowsRead),
		slog.Int("rows_kept", metrics.RowsKept),
		slog.Int("rows_unparsed", metrics.RowsUnparsed),
	)
	Logger.Info("execution metrics", attrs...)
}

// LogError logs an error with execution context and its unwrapped chain.
func LogError(message string, ctx ExecutionContext, err error) {
	attrs := buildContextAttrs(ctx)
	if err != nil {
		attrs = append(attrs,
			slog.String("error", err.Error()),
			slog.String("error_type", fmt.Sprintf("%T", err)),
		)

		errorChain := []string{err.Error()}
		for current := errors.Unwrap(err); current != nil; current = errors.Unwrap(current) {
			errorChain = append(errorChain, current.Error())
		}
		if len(errorChain) > 1 {
			attrs = append(attrs, slog.String("error_chain", strings.Join(errorChain, " -> ")))
		}
	}
	Logger.Error(message, attrs...)
}

// buildContextAttrs builds a slice of slog attributes from an ExecutionContext.
// Only non-empty fields are included.
func buildContextAttrs(ctx ExecutionContext) []any {
	attrs := make([]any, 0, 5)

	// Always include pipeline_id
	attrs = append(attrs, slog.String("pipeline_id", ctx.PipelineID))

	if ctx.PipelineName != "" {
		attrs = append(attrs, slog.String("pipeline_name", ctx.PipelineName))
	}
	if ctx.RunID != "" {
		attrs = append(attrs, slog.String("run_id", ctx.RunID))
	}
	if ctx.Stage != "" {
		attrs = append(attrs, slog.String("stage", ctx.Stage))
	}
	if ctx.ModuleType != "" {
		attrs = append(attrs, slog.String("module_type", ctx.ModuleType))
	}
	return attrs
}

// isTerminal returns true if the writer is a terminal (supports colors)
func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		fi, err := f.Stat()
		if err != nil {
			return false
		}
		return (fi.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

// =============================================================================
// Log File Output Support
// =============================================================================

// logFile holds the currently open log file (if any)
var logFile *os.File

// maxLogFileSize is the size at which SetLogFile rotates an existing file (10MB).
const maxLogFileSize = 10 * 1024 * 1024

// rotateLogFile renames path with a timestamp suffix when it has reached
// maxLogFileSize. A missing file needs no rotation.
func rotateLogFile(path string, now time.Time) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("checking log file size: %w", err)
	}
	if info.Size() < maxLogFileSize {
		return nil
	}

	rotatedPath := fmt.Sprintf("%s.%s", path, now.Format("20060102-150405"))
	if err := os.Rename(path, rotatedPath); err != nil {
		return fmt.Errorf("rotating log file: %w", err)
	}
	return nil
}

// SetLogFile sends logs both to the configured console output, in
// consoleFormat, and to the file at path, always as JSON. The file is opened
// for append and rotated first if it has grown past 10MB.
func SetLogFile(path string, level slog.Level, consoleFormat OutputFormat) error {
	CloseLogFile()

	rotateErr := rotateLogFile(path, time.Now())

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	logFile = f

	Logger = slog.New(&dualHandler{
		console: newHandler(output, level, consoleFormat),
		file:    slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}),
	})

	if rotateErr != nil {
		Warn("log rotation failed", slog.String("error", rotateErr.Error()))
	}
	Debug("log file opened",
		slog.String("path", path),
		slog.String("console_format", consoleFormat.String()),
	)
	return nil
}

// CloseLogFile flushes and closes the log file opened by SetLogFile, if any.
// Logging continues on the console output only.
func CloseLogFile() {
	if logFile == nil {
		return
	}
	f := logFile
	logFile = nil

	if h, ok := Logger.Handler().(*dualHandler); ok {
		Logger = slog.New(h.console)
	}
	if err := f.Sync(); err != nil {
		Warn("failed to sync log file", slog.String("error", err.Error()))
	}
	if err := f.Close(); err != nil {
		Warn("failed to close log file", slog.String("error", err.Error()))
	}
}

// dualHandler is a slog.Handler that writes to both console and file handlers.
type dualHandler struct {
	console slog.Handler
	file    slog.Handler
}

func (d *dualHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return d.console.Enabled(ctx, level) || d.file.Enabled(ctx, level)
}

func (d *dualHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	if d.console.Enabled(ctx, r.Level) {
		errs = append(errs, d.console.Handle(ctx, r.Clone()))
	}
	if d.file.Enabled(ctx, r.Level) {
		errs = append(errs, d.file.Handle(ctx, r))
	}
	return errors.Join(errs...)
}

func (d *dualHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &dualHandler{
		console: d.console.WithAttrs(attrs),
		file:    d.file.WithAttrs(attrs),
	}
}

func (d *dualHandler) WithGroup(name string) slog.Handler {
	return &dualHandler{
		console: d.console.WithGroup(name),
		file:    d.file.WithGroup(name),
	}
}
