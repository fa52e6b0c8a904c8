package config

import (
	"fmt"

	"github.com/vmuptime/runtime/pkg/report"
)

// ConvertToPipeline converts parsed definition data to a Pipeline struct.
// The input data should have been validated against the schema before calling this function.
//
// The definition is expected to have this structure:
//
//	schemaVersion: "1.0.0"
//	pipeline:
//	  id: ...
//	  name: ...
//	  version: ...
//	  input: {type: ..., ...}
//	  filters: [{type: ..., ...}]
//	  output: {type: ..., ...}
func ConvertToPipeline(data map[string]interface{}) (*report.Pipeline, error) {
	if data == nil {
		return nil, fmt.Errorf("pipeline definition is nil")
	}

	pipelineData, ok := data["pipeline"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("missing or invalid 'pipeline' section")
	}

	pipeline := &report.Pipeline{}

	var name string
	if name, ok = pipelineData["name"].(string); !ok {
		return nil, fmt.Errorf("missing required field 'pipeline.name'")
	}
	pipeline.Name = name
	// Use name as ID if not specified
	pipeline.ID = name

	var version string
	if version, ok = pipelineData["version"].(string); !ok {
		return nil, fmt.Errorf("missing required field 'pipeline.version'")
	}
	pipeline.Version = version

	if description, okDesc := pipelineData["description"].(string); okDesc {
		pipeline.Description = description
	}
	if id, okID := pipelineData["id"].(string); okID {
		pipeline.ID = id
	}

	inputData, ok := pipelineData["input"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("missing or invalid 'pipeline.input' section")
	}
	inputConfig, err := convertModuleConfig(inputData)
	if err != nil {
		return nil, fmt.Errorf("invalid input config: %w", err)
	}
	pipeline.Input = inputConfig

	if filtersData, okFilters := pipelineData["filters"].([]interface{}); okFilters {
		for i, filterData := range filtersData {
			filterMap, isMap := filterData.(map[string]interface{})
			if !isMap {
				return nil, fmt.Errorf("invalid filter at index %d", i)
			}
			filterConfig, convertErr := convertModuleConfig(filterMap)
			if convertErr != nil {
				return nil, fmt.Errorf("invalid filter at index %d: %w", i, convertErr)
			}
			pipeline.Filters = append(pipeline.Filters, *filterConfig)
		}
	}

	outputData, okOutput := pipelineData["output"].(map[string]interface{})
	if !okOutput {
		return nil, fmt.Errorf("missing or invalid 'pipeline.output' section")
	}
	outputConfig, err := convertModuleConfig(outputData)
	if err != nil {
		return nil, fmt.Errorf("invalid output config: %w", err)
	}
	pipeline.Output = outputConfig

	return pipeline, nil
}

// convertModuleConfig converts a raw module configuration map to ModuleConfig.
// Every key except 'type' lands in Config.
func convertModuleConfig(data map[string]interface{}) (*report.ModuleConfig, error) {
	moduleConfig := &report.ModuleConfig{
		Config: make(map[string]interface{}),
	}

	moduleType, ok := data["type"].(string)
	if !ok {
		return nil, fmt.Errorf("missing required field 'type'")
	}
	moduleConfig.Type = moduleType

	for key, value := range data {
		if key != "type" {
			moduleConfig.Config[key] = value
		}
	}

	return moduleConfig, nil
}
