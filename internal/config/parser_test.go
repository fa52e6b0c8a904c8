package config

import (
	"strings"
	"testing"
)

func TestParseYAMLString_Valid(t *testing.T) {
	result := ParseYAMLString("schemaVersion: \"1.0.0\"\npipeline:\n  name: test\n")
	if !result.IsValid() {
		t.Fatalf("expected valid result, got errors: %v", result.Errors)
	}
	pipeline, ok := result.Data["pipeline"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected pipeline to be a map, got %T", result.Data["pipeline"])
	}
	if pipeline["name"] != "test" {
		t.Errorf("pipeline.name = %v, want %q", pipeline["name"], "test")
	}
}

func TestParseYAMLString_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantType string
		wantLine int
	}{
		{name: "empty", content: "  \n", wantType: ErrorTypeSyntax},
		{name: "syntax error", content: "pipeline:\n  name: test\n bad: [unclosed\n", wantType: ErrorTypeSyntax, wantLine: 3},
		{name: "not a mapping", content: "- a\n- b\n", wantType: ErrorTypeFormat},
		{name: "scalar", content: "just a string", wantType: ErrorTypeFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseYAMLString(tt.content)
			if result.IsValid() {
				t.Fatal("expected parsing to fail")
			}
			if got := result.Errors[0].Type; got != tt.wantType {
				t.Errorf("error type = %q, want %q", got, tt.wantType)
			}
			if tt.wantLine > 0 && result.Errors[0].Line == 0 {
				t.Errorf("expected a line number, got error %q", result.Errors[0].Message)
			}
		})
	}
}

func TestParseYAMLString_CommentsOnly(t *testing.T) {
	result := ParseYAMLString("# nothing here\n")
	if !result.IsValid() {
		t.Fatalf("expected no parse errors, got %v", result.Errors)
	}
	if result.Data != nil {
		t.Errorf("Data = %v, want nil", result.Data)
	}
}

func TestParseError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  ParseError
		want string
	}{
		{name: "message only", err: ParseError{Message: "boom"}, want: "boom"},
		{name: "with source", err: ParseError{Source: "p.yaml", Message: "boom"}, want: "p.yaml: boom"},
		{name: "with line", err: ParseError{Source: "p.yaml", Line: 4, Message: "boom"}, want: "p.yaml: line 4: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadDefault(t *testing.T) {
	pipeline, result := LoadDefault()
	if !result.IsValid() {
		t.Fatalf("embedded pipeline invalid: %v", result.AllErrors())
	}
	if result.Source != DefaultSource {
		t.Errorf("Source = %q, want %q", result.Source, DefaultSource)
	}

	if pipeline.ID != "vms-up-for-a-week" {
		t.Errorf("ID = %q, want %q", pipeline.ID, "vms-up-for-a-week")
	}
	if pipeline.Input.Type != "csvFile" || pipeline.Input.Config["path"] != "vms_uptime_info.csv" {
		t.Errorf("Input = %+v, want csvFile reading vms_uptime_info.csv", pipeline.Input)
	}
	if pipeline.Output.Type != "csvFile" || pipeline.Output.Config["path"] != "vms_up_for_a_week_or_more.csv" {
		t.Errorf("Output = %+v, want csvFile writing vms_up_for_a_week_or_more.csv", pipeline.Output)
	}
	if len(pipeline.Filters) != 2 {
		t.Fatalf("len(Filters) = %d, want 2", len(pipeline.Filters))
	}
	if pipeline.Filters[0].Type != "uptimeDays" {
		t.Errorf("Filters[0].Type = %q, want uptimeDays", pipeline.Filters[0].Type)
	}
	if pipeline.Filters[1].Type != "condition" || pipeline.Filters[1].Config["expression"] != "UptimeDays >= 7" {
		t.Errorf("Filters[1] = %+v, want condition UptimeDays >= 7", pipeline.Filters[1])
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name           string
		content        string
		wantParse      bool
		wantValidation bool
	}{
		{name: "syntax error", content: "pipeline: [\n", wantParse: true},
		{name: "schema violation", content: "schemaVersion: \"1.0.0\"\npipeline:\n  name: x\n", wantValidation: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pipeline, result := Load("custom.yaml", []byte(tt.content))
			if pipeline != nil {
				t.Errorf("pipeline = %+v, want nil", pipeline)
			}
			if got := len(result.ParseErrors) > 0; got != tt.wantParse {
				t.Errorf("has parse errors = %v, want %v (%v)", got, tt.wantParse, result.ParseErrors)
			}
			if got := len(result.ValidationErrors) > 0; got != tt.wantValidation {
				t.Errorf("has validation errors = %v, want %v (%v)", got, tt.wantValidation, result.ValidationErrors)
			}
			for _, e := range result.ParseErrors {
				if !strings.HasPrefix(e.Error(), "custom.yaml: ") {
					t.Errorf("parse error %q does not name its source", e.Error())
				}
			}
		})
	}
}
