// Package factory provides module creation functions for the pipeline runtime.
// It centralizes the logic for instantiating input, filter, and output modules
// from their configuration using the module registry.
//
// To add a new module type, see the documentation in internal/registry.
// You do NOT need to modify this factory; just register your constructor.
package factory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vmuptime/runtime/internal/errhandling"
	"github.com/vmuptime/runtime/internal/modules/filter"
	"github.com/vmuptime/runtime/internal/modules/input"
	"github.com/vmuptime/runtime/internal/modules/output"
	"github.com/vmuptime/runtime/internal/registry"
	"github.com/vmuptime/runtime/pkg/report"
)

// ErrUnknownModuleType is returned for module types with no registered constructor.
var ErrUnknownModuleType = errors.New("unknown module type")

// Modules holds the modules built for one pipeline.
type Modules struct {
	Input   input.Module
	Filters []filter.Module
	Output  output.Module
}

// CreateModules builds every module a pipeline names. Nothing is opened:
// modules touch the filesystem only when the executor runs them.
func CreateModules(pipeline *report.Pipeline) (*Modules, error) {
	if pipeline == nil {
		return nil, errhandling.NewValidationError("pipeline is nil", nil)
	}

	in, err := CreateInputModule(pipeline.Input)
	if err != nil {
		return nil, err
	}
	filters, err := CreateFilterModules(pipeline.Filters)
	if err != nil {
		return nil, err
	}
	out, err := CreateOutputModule(pipeline.Output)
	if err != nil {
		return nil, err
	}

	return &Modules{Input: in, Filters: filters, Output: out}, nil
}

// CreateInputModule creates an input module instance from configuration.
// Uses the registry to look up the constructor by type.
func CreateInputModule(cfg *report.ModuleConfig) (input.Module, error) {
	if cfg == nil {
		return nil, errhandling.NewValidationError("input module configuration is missing", nil)
	}

	constructor := registry.GetInputConstructor(cfg.Type)
	if constructor == nil {
		return nil, unknownType("input", cfg.Type, registry.ListInputTypes())
	}
	return constructor(cfg)
}

// CreateFilterModules creates filter module instances from configuration,
// in pipeline order.
func CreateFilterModules(cfgs []report.ModuleConfig) ([]filter.Module, error) {
	if len(cfgs) == 0 {
		return nil, nil
	}

	modules := make([]filter.Module, 0, len(cfgs))
	for i, cfg := range cfgs {
		constructor := registry.GetFilterConstructor(cfg.Type)
		if constructor == nil {
			return nil, fmt.Errorf("filter at index %d: %w", i, unknownType("filter", cfg.Type, registry.ListFilterTypes()))
		}
		module, err := constructor(cfg, i)
		if err != nil {
			return nil, err
		}
		modules = append(modules, module)
	}
	return modules, nil
}

// CreateOutputModule creates an output module instance from configuration.
// Uses the registry to look up the constructor by type.
func CreateOutputModule(cfg *report.ModuleConfig) (output.Module, error) {
	if cfg == nil {
		return nil, errhandling.NewValidationError("output module configuration is missing", nil)
	}

	constructor := registry.GetOutputConstructor(cfg.Type)
	if constructor == nil {
		return nil, unknownType("output", cfg.Type, registry.ListOutputTypes())
	}
	return constructor(cfg)
}

func unknownType(stage, moduleType string, known []string) error {
	return errhandling.NewValidationError(
		fmt.Sprintf("%s module type %q is not registered (known types: %s)",
			stage, moduleType, strings.Join(known, ", ")),
		ErrUnknownModuleType,
	)
}
