package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vmuptime/runtime/internal/config"
	"github.com/vmuptime/runtime/pkg/report"
)

func newTestPrinter(opts OutputOptions) (*Printer, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return &Printer{Out: &out, Err: &errOut, Opts: opts}, &out, &errOut
}

func TestPrintExecutionResult_Success(t *testing.T) {
	p, out, errOut := newTestPrinter(OutputOptions{})
	start := time.Now()
	p.PrintExecutionResult(&report.ExecutionResult{
		Status:      "success",
		StartedAt:   start,
		CompletedAt: start.Add(time.Second),
		RowsRead:    3,
		RowsKept:    1,
		OutputPath:  "vms_up_for_a_week_or_more.csv",
	}, nil)

	want := "VMs up for a week or more have been saved to vms_up_for_a_week_or_more.csv\n"
	if out.String() != want {
		t.Errorf("stdout = %q, want %q", out.String(), want)
	}
	if errOut.Len() != 0 {
		t.Errorf("stderr = %q, want empty", errOut.String())
	}
}

func TestPrintExecutionResult_SuccessVerbose(t *testing.T) {
	p, out, errOut := newTestPrinter(OutputOptions{Verbose: true})
	p.PrintExecutionResult(&report.ExecutionResult{
		RunID:        "run-1",
		RowsRead:     3,
		RowsKept:     1,
		RowsUnparsed: 1,
		OutputPath:   "out.csv",
	}, nil)

	if !strings.HasPrefix(out.String(), "VMs up for a week or more have been saved to out.csv") {
		t.Errorf("stdout = %q, want confirmation line", out.String())
	}
	for _, want := range []string{"Kept 1 of 3 rows", "1 with unreadable uptime", "Run: run-1"} {
		if !strings.Contains(errOut.String(), want) {
			t.Errorf("stderr missing %q:\n%s", want, errOut.String())
		}
	}
}

func TestPrintExecutionResult_DryRun(t *testing.T) {
	p, out, _ := newTestPrinter(OutputOptions{})
	p.PrintExecutionResult(&report.ExecutionResult{
		Status:     "success",
		DryRun:     true,
		RowsRead:   3,
		RowsKept:   2,
		OutputPath: "vms_up_for_a_week_or_more.csv",
	}, nil)

	want := "Dry run: 2 of 3 VMs up for a week or more; vms_up_for_a_week_or_more.csv was not written\n"
	if out.String() != want {
		t.Errorf("stdout = %q, want %q", out.String(), want)
	}
}

func TestPrintExecutionResult_Failure(t *testing.T) {
	p, out, errOut := newTestPrinter(OutputOptions{})
	p.PrintExecutionResult(&report.ExecutionResult{
		Status: "error",
		Error: &report.ExecutionError{
			Code:    "INPUT_FAILED",
			Message: "not_found error: vms_uptime_info.csv: file not found",
			Module:  "input",
		},
	}, errors.New("executing input module"))

	if out.Len() != 0 {
		t.Errorf("stdout = %q, want empty on failure", out.String())
	}
	for _, want := range []string{"✗ Pipeline execution failed", "Module: input", "vms_uptime_info.csv: file not found"} {
		if !strings.Contains(errOut.String(), want) {
			t.Errorf("stderr missing %q:\n%s", want, errOut.String())
		}
	}
}

func TestPrintExecutionResult_Nil(t *testing.T) {
	p, out, errOut := newTestPrinter(OutputOptions{})
	p.PrintExecutionResult(nil, nil)
	if out.Len() != 0 || !strings.Contains(errOut.String(), "No execution result") {
		t.Errorf("stdout = %q, stderr = %q", out.String(), errOut.String())
	}
}

func TestPrintParseErrors(t *testing.T) {
	p, _, errOut := newTestPrinter(OutputOptions{Verbose: true})
	p.PrintParseErrors([]config.ParseError{
		{Source: "pipeline.yaml", Line: 3, Message: "did not find expected key", Type: config.ErrorTypeSyntax},
		{Message: "empty content"},
	})

	got := errOut.String()
	for _, want := range []string{"✗ Parse errors:", "pipeline.yaml:3: did not find expected key", "Type: syntax", "  empty content"} {
		if !strings.Contains(got, want) {
			t.Errorf("stderr missing %q:\n%s", want, got)
		}
	}
}

func TestPrintValidationErrors(t *testing.T) {
	long := strings.Repeat("x", 100)

	p, _, errOut := newTestPrinter(OutputOptions{})
	p.PrintValidationErrors([]config.ValidationError{
		{Path: "/pipeline", Type: "required", Message: "missing property 'output'"},
		{Message: long},
	})
	got := errOut.String()
	for _, want := range []string{"✗ Validation errors:", "/pipeline: missing property 'output'", "/: " + long[:77] + "...", "Hint:"} {
		if !strings.Contains(got, want) {
			t.Errorf("stderr missing %q:\n%s", want, got)
		}
	}

	p, _, errOut = newTestPrinter(OutputOptions{Quiet: true})
	p.PrintValidationErrors([]config.ValidationError{{Path: "/x", Message: "bad"}})
	if strings.Contains(errOut.String(), "Hint:") {
		t.Errorf("quiet output contains hint:\n%s", errOut.String())
	}
}

func TestFormatErrorLocation(t *testing.T) {
	tests := []struct {
		source string
		line   int
		want   string
	}{
		{"", 3, ""},
		{"p.yaml", 0, "p.yaml"},
		{"p.yaml", 3, "p.yaml:3"},
	}
	for _, tt := range tests {
		if got := formatErrorLocation(tt.source, tt.line); got != tt.want {
			t.Errorf("formatErrorLocation(%q, %d) = %q, want %q", tt.source, tt.line, got, tt.want)
		}
	}
}
