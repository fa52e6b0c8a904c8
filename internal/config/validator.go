package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// schemaID must match the $id of the embedded schema.
const schemaID = "https://vmuptime.dev/schemas/pipeline/v1.0.0/pipeline-schema.json"

//go:embed schema/pipeline-schema.json
var embeddedSchema []byte

// GetEmbeddedSchema returns the embedded pipeline schema.
func GetEmbeddedSchema() []byte {
	return embeddedSchema
}

// compiledSchema compiles the embedded schema on first use.
var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(embeddedSchema))
	if err != nil {
		return nil, fmt.Errorf("parsing embedded schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaID, doc); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}
	schema, err := compiler.Compile(schemaID)
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}
	return schema, nil
})

// ValidateConfig validates a parsed pipeline definition against the schema.
func ValidateConfig(data map[string]interface{}) *ValidationResult {
	if len(data) == 0 {
		return invalid(ValidationError{Path: "/", Type: "required", Message: "pipeline definition is empty"})
	}

	schema, err := compiledSchema()
	if err != nil {
		return invalid(ValidationError{Path: "/", Type: "schema", Message: err.Error()})
	}

	err = schema.Validate(data)
	if err == nil {
		return &ValidationResult{Valid: true}
	}

	var detailed *jsonschema.ValidationError
	if !errors.As(err, &detailed) {
		return invalid(ValidationError{Path: "/", Type: "validation", Message: err.Error()})
	}
	errs := convertValidationErrors(detailed)
	if len(errs) == 0 {
		errs = []ValidationError{{Path: formatInstanceLocation(detailed.InstanceLocation), Type: "validation", Message: detailed.Error()}}
	}
	return invalid(errs...)
}

func invalid(errs ...ValidationError) *ValidationResult {
	return &ValidationResult{Valid: false, Errors: errs}
}

// messagePrinter renders schema error kinds in English.
var messagePrinter = message.NewPrinter(language.English)

// convertValidationErrors flattens a jsonschema error tree into its leaves.
// Interior nodes (allOf, oneOf, $ref groups) only summarize their causes.
func convertValidationErrors(err *jsonschema.ValidationError) []ValidationError {
	if len(err.Causes) == 0 {
		if err.ErrorKind == nil {
			return nil
		}
		return []ValidationError{{
			Path:    formatInstanceLocation(err.InstanceLocation),
			Type:    extractErrorType(err.ErrorKind),
			Message: err.ErrorKind.LocalizedString(messagePrinter),
		}}
	}

	var errors []ValidationError
	for _, cause := range err.Causes {
		errors = append(errors, convertValidationErrors(cause)...)
	}
	return errors
}

// formatInstanceLocation formats the instance location as a JSON path.
func formatInstanceLocation(loc []string) string {
	if len(loc) == 0 {
		return "/"
	}
	return "/" + strings.Join(loc, "/")
}

// extractErrorType maps a schema error kind to a short error type.
func extractErrorType(k jsonschema.ErrorKind) string {
	switch k.(type) {
	case *kind.Required:
		return "required"
	case *kind.Type:
		return "type"
	case *kind.Pattern:
		return "pattern"
	case *kind.Const, *kind.Enum:
		return "const"
	case *kind.Minimum, *kind.Maximum, *kind.MinLength, *kind.MaxLength:
		return "range"
	case *kind.AdditionalProperties:
		return "additionalProperties"
	default:
		return "validation"
	}
}
