package config

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vmuptime/runtime/pkg/report"
)

// DefaultSource names the compiled-in pipeline definition in errors.
const DefaultSource = "pipeline.yaml"

//go:embed pipeline.yaml
var defaultPipeline []byte

// DefaultPipeline returns the compiled-in pipeline definition.
func DefaultPipeline() []byte {
	return defaultPipeline
}

// LoadDefault parses, validates and converts the compiled-in pipeline
// definition. The pipeline is nil whenever the result is not valid.
func LoadDefault() (*report.Pipeline, *Result) {
	return Load(DefaultSource, defaultPipeline)
}

// Load parses, validates and converts a pipeline definition. source names
// the document in error messages.
func Load(source string, content []byte) (*report.Pipeline, *Result) {
	result := ParseConfigString(string(content))
	result.Source = source
	for i := range result.ParseErrors {
		if result.ParseErrors[i].Source == "" {
			result.ParseErrors[i].Source = source
		}
	}
	if !result.IsValid() {
		return nil, result
	}

	pipeline, err := ConvertToPipeline(result.Data)
	if err != nil {
		result.ValidationErrors = append(result.ValidationErrors, ValidationError{
			Path:    "/pipeline",
			Type:    "conversion",
			Message: err.Error(),
		})
		return nil, result
	}
	return pipeline, result
}

// ParseConfigString parses and validates a YAML pipeline definition.
// Validation is skipped when parsing fails.
func ParseConfigString(content string) *Result {
	parseResult := ParseYAMLString(content)
	result := &Result{
		Data:        parseResult.Data,
		ParseErrors: parseResult.Errors,
	}
	if !parseResult.IsValid() {
		return result
	}

	validationResult := ValidateConfig(parseResult.Data)
	result.ValidationErrors = validationResult.Errors
	return result
}

// ParseYAMLString parses YAML content from a string.
// Returns a ParseResult containing the parsed data or errors.
func ParseYAMLString(content string) *ParseResult {
	result := &ParseResult{}

	if strings.TrimSpace(content) == "" {
		result.Errors = append(result.Errors, ParseError{
			Message: "empty content: expected YAML document",
			Type:    ErrorTypeSyntax,
		})
		return result
	}

	var data interface{}
	if err := yaml.Unmarshal([]byte(content), &data); err != nil {
		result.Errors = append(result.Errors, parseYAMLError(err))
		return result
	}

	if data == nil {
		// comments only: valid YAML, caught by validation as empty
		return result
	}

	dataMap, ok := data.(map[string]interface{})
	if !ok {
		result.Errors = append(result.Errors, ParseError{
			Message: fmt.Sprintf("invalid pipeline definition: expected YAML mapping, got %T", data),
			Type:    ErrorTypeFormat,
		})
		return result
	}

	result.Data = dataMap
	return result
}

// parseYAMLError extracts detailed error information from a YAML unmarshaling error.
func parseYAMLError(err error) ParseError {
	parseErr := ParseError{
		Message: err.Error(),
		Type:    ErrorTypeSyntax,
	}

	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) {
		parseErr.Message = fmt.Sprintf("YAML type error: %s", strings.Join(typeErr.Errors, "; "))
	}

	// yaml.v3 reports positions as "yaml: line X: ..."
	var line int
	if _, scanErr := fmt.Sscanf(err.Error(), "yaml: line %d:", &line); scanErr == nil {
		parseErr.Line = line
	}

	return parseErr
}
