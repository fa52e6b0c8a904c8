package factory

import (
	"errors"
	"strings"
	"testing"

	"github.com/vmuptime/runtime/internal/errhandling"
	"github.com/vmuptime/runtime/internal/modules/filter"
	"github.com/vmuptime/runtime/internal/modules/input"
	"github.com/vmuptime/runtime/internal/modules/output"
	"github.com/vmuptime/runtime/pkg/report"
)

func csvConfig(path string) *report.ModuleConfig {
	return &report.ModuleConfig{Type: "csvFile", Config: map[string]interface{}{"path": path}}
}

func TestCreateModules(t *testing.T) {
	pipeline := &report.Pipeline{
		ID:    "p",
		Input: csvConfig("in.csv"),
		Filters: []report.ModuleConfig{
			{Type: "uptimeDays", Config: map[string]interface{}{}},
			{Type: "condition", Config: map[string]interface{}{"expression": "UptimeDays >= 7"}},
		},
		Output: csvConfig("out.csv"),
	}

	modules, err := CreateModules(pipeline)
	if err != nil {
		t.Fatalf("CreateModules() error = %v", err)
	}

	in, ok := modules.Input.(*input.CSVFileModule)
	if !ok {
		t.Fatalf("Input = %T, want *input.CSVFileModule", modules.Input)
	}
	if in.Path() != "in.csv" {
		t.Errorf("Input.Path() = %q, want %q", in.Path(), "in.csv")
	}

	if len(modules.Filters) != 2 {
		t.Fatalf("len(Filters) = %d, want 2", len(modules.Filters))
	}
	if _, ok := modules.Filters[0].(*filter.UptimeDaysModule); !ok {
		t.Errorf("Filters[0] = %T, want *filter.UptimeDaysModule", modules.Filters[0])
	}
	cond, ok := modules.Filters[1].(*filter.ConditionModule)
	if !ok {
		t.Fatalf("Filters[1] = %T, want *filter.ConditionModule", modules.Filters[1])
	}
	if cond.Expression() != "UptimeDays >= 7" {
		t.Errorf("Expression() = %q, want %q", cond.Expression(), "UptimeDays >= 7")
	}

	dest, ok := modules.Output.(output.Destination)
	if !ok {
		t.Fatalf("Output = %T, want an output.Destination", modules.Output)
	}
	if dest.Destination() != "out.csv" {
		t.Errorf("Destination() = %q, want %q", dest.Destination(), "out.csv")
	}
}

func TestCreateModules_Errors(t *testing.T) {
	tests := []struct {
		name        string
		pipeline    *report.Pipeline
		wantUnknown bool
	}{
		{name: "nil pipeline"},
		{name: "missing input", pipeline: &report.Pipeline{Output: csvConfig("out.csv")}},
		{name: "missing output", pipeline: &report.Pipeline{Input: csvConfig("in.csv")}},
		{
			name:        "unknown input",
			pipeline:    &report.Pipeline{Input: &report.ModuleConfig{Type: "httpPolling"}, Output: csvConfig("out.csv")},
			wantUnknown: true,
		},
		{
			name: "unknown filter",
			pipeline: &report.Pipeline{
				Input:   csvConfig("in.csv"),
				Filters: []report.ModuleConfig{{Type: "script"}},
				Output:  csvConfig("out.csv"),
			},
			wantUnknown: true,
		},
		{
			name:        "unknown output",
			pipeline:    &report.Pipeline{Input: csvConfig("in.csv"), Output: &report.ModuleConfig{Type: "database"}},
			wantUnknown: true,
		},
		{
			name: "invalid condition",
			pipeline: &report.Pipeline{
				Input:   csvConfig("in.csv"),
				Filters: []report.ModuleConfig{{Type: "condition", Config: map[string]interface{}{"expression": "UptimeDays >="}}},
				Output:  csvConfig("out.csv"),
			},
		},
		{
			name:     "invalid path",
			pipeline: &report.Pipeline{Input: csvConfig("../in.csv"), Output: csvConfig("out.csv")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			modules, err := CreateModules(tt.pipeline)
			if err == nil {
				t.Fatalf("CreateModules() = %+v, want error", modules)
			}
			if got := errhandling.GetErrorCategory(err); got != errhandling.CategoryValidation {
				t.Errorf("error category = %q, want %q (err: %v)", got, errhandling.CategoryValidation, err)
			}
			if got := errors.Is(err, ErrUnknownModuleType); got != tt.wantUnknown {
				t.Errorf("errors.Is(err, ErrUnknownModuleType) = %v, want %v", got, tt.wantUnknown)
			}
		})
	}
}

func TestCreateModules_UnknownTypeListsKnownTypes(t *testing.T) {
	tests := []struct {
		name     string
		pipeline *report.Pipeline
		want     string
	}{
		{
			name:     "input",
			pipeline: &report.Pipeline{Input: &report.ModuleConfig{Type: "httpPolling"}, Output: csvConfig("out.csv")},
			want:     "known types: csvFile",
		},
		{
			name: "filter",
			pipeline: &report.Pipeline{
				Input:   csvConfig("in.csv"),
				Filters: []report.ModuleConfig{{Type: "script"}},
				Output:  csvConfig("out.csv"),
			},
			want: "known types: condition, uptimeDays",
		},
		{
			name:     "output",
			pipeline: &report.Pipeline{Input: csvConfig("in.csv"), Output: &report.ModuleConfig{Type: "database"}},
			want:     "known types: csvFile",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CreateModules(tt.pipeline)
			if err == nil {
				t.Fatal("CreateModules() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.want)
			}
		})
	}
}
