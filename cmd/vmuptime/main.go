// Package main provides the CLI entry point for the VM uptime report.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vmuptime/runtime/internal/cli"
	"github.com/vmuptime/runtime/internal/config"
	"github.com/vmuptime/runtime/internal/factory"
	"github.com/vmuptime/runtime/internal/logger"
	"github.com/vmuptime/runtime/internal/runtime"
	"github.com/vmuptime/runtime/pkg/report"
)

// Exit codes
const (
	ExitSuccess         = 0
	ExitUsageError      = 1
	ExitDefinitionError = 2
	ExitRuntimeError    = 3
)

var (
	// Build information (set via ldflags during build)
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// exitError carries an exit code out of a cobra command. The command has
// already reported the failure.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// globalFlags are the persistent logging switches.
type globalFlags struct {
	verbose   bool
	quiet     bool
	logFormat string
	logFile   string
	dryRun    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI with args and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	defer logger.CloseLogFile()

	rootCmd := newRootCmd(stdout, stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return ExitUsageError
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "vmuptime",
		Short: "Report the VMs that have been up for a week or more",
		Long: `vmuptime reads vms_uptime_info.csv from the current directory, converts
each row's Uptime ("5 days, 3 hours, 12 minutes") to fractional days, and
writes the rows with at least seven days of uptime, plus an UptimeDays
column, to vms_up_for_a_week_or_more.csv.

Rows whose uptime cannot be read count as zero days and are dropped.
With --dry-run the report is computed but not written.

Exit codes:
  0 - Report written
  1 - Usage error
  2 - Invalid built-in pipeline definition
  3 - Runtime error (missing input, malformed table, write failure)`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return configureLogging(flags, stderr)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if code := runReport(cmd.Context(), newPrinter(flags, stdout, stderr), flags.dryRun); code != ExitSuccess {
				return &exitError{code: code}
			}
			return nil
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&flags.quiet, "quiet", "q", false, "Only log errors")
	rootCmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "human", "Log format: human or json")
	rootCmd.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "Also write JSON logs to this file")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	rootCmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Compute the report without writing the output file")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate the built-in pipeline definition",
		Long: `Validate parses the built-in pipeline definition, checks it against its
schema and builds its modules. No file is read or written.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if code := runValidate(newPrinter(flags, stdout, stderr)); code != ExitSuccess {
				return &exitError{code: code}
			}
			return nil
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Print version, commit hash, and build date information.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Version: %s\n", version)
			fmt.Fprintf(out, "Commit: %s\n", commit)
			fmt.Fprintf(out, "Build Date: %s\n", buildDate)
		},
	})

	return rootCmd
}

func newPrinter(flags *globalFlags, stdout, stderr io.Writer) *cli.Printer {
	return &cli.Printer{
		Out:  stdout,
		Err:  stderr,
		Opts: cli.OutputOptions{Verbose: flags.verbose, Quiet: flags.quiet},
	}
}

// configureLogging sets the log level and format from the global flags.
// Console logs always go to stderr; stdout is reserved for the confirmation
// line. --log-file adds a JSON copy of every log line.
func configureLogging(flags *globalFlags, stderr io.Writer) error {
	format, err := logger.ParseFormat(flags.logFormat)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	switch {
	case flags.verbose:
		level = slog.LevelDebug
	case flags.quiet:
		level = slog.LevelError
	}
	logger.SetOutput(stderr, level, format)
	if flags.logFile != "" {
		return logger.SetLogFile(flags.logFile, level, format)
	}
	return nil
}

// loadPipeline loads the built-in pipeline definition, printing its errors.
func loadPipeline(printer *cli.Printer) (*report.Pipeline, bool) {
	pipeline, result := config.LoadDefault()
	if !result.IsValid() {
		if len(result.ParseErrors) > 0 {
			printer.PrintParseErrors(result.ParseErrors)
		}
		if len(result.ValidationErrors) > 0 {
			printer.PrintValidationErrors(result.ValidationErrors)
		}
		return nil, false
	}
	return pipeline, true
}

// runReport loads the built-in pipeline, builds its modules and executes it.
func runReport(ctx context.Context, printer *cli.Printer, dryRun bool) int {
	pipeline, ok := loadPipeline(printer)
	if !ok {
		return ExitDefinitionError
	}
	return executePipeline(ctx, pipeline, printer, dryRun)
}

// runValidate checks the built-in pipeline and its modules without running it.
func runValidate(printer *cli.Printer) int {
	pipeline, ok := loadPipeline(printer)
	if !ok {
		return ExitDefinitionError
	}
	if _, err := factory.CreateModules(pipeline); err != nil {
		fmt.Fprintf(printer.Err, "✗ Invalid pipeline definition: %v\n", err)
		return ExitDefinitionError
	}

	if !printer.Opts.Quiet {
		fmt.Fprintln(printer.Out, "✓ Pipeline definition is valid")
		if printer.Opts.Verbose {
			fmt.Fprintf(printer.Out, "  Pipeline: %s (v%s)\n", pipeline.Name, pipeline.Version)
			fmt.Fprintf(printer.Out, "  Filters: %d\n", len(pipeline.Filters))
		}
	}
	return ExitSuccess
}

// executePipeline builds the modules for pipeline, runs them and prints the
// outcome.
func executePipeline(ctx context.Context, pipeline *report.Pipeline, printer *cli.Printer, dryRun bool) int {
	modules, err := factory.CreateModules(pipeline)
	if err != nil {
		logger.LogError("failed to create pipeline modules", logger.ExecutionContext{
			PipelineID:   pipeline.ID,
			PipelineName: pipeline.Name,
		}, err)
		fmt.Fprintf(printer.Err, "✗ Invalid pipeline definition: %v\n", err)
		return ExitDefinitionError
	}

	executor := runtime.NewExecutorWithModules(modules.Input, modules.Filters, modules.Output, dryRun)
	execResult, err := executor.Execute(ctx, pipeline)
	printer.PrintExecutionResult(execResult, err)
	if err != nil {
		return ExitRuntimeError
	}
	return ExitSuccess
}
