package registry

import (
	"fmt"

	"github.com/vmuptime/runtime/internal/modules/filter"
	"github.com/vmuptime/runtime/internal/modules/input"
	"github.com/vmuptime/runtime/internal/modules/output"
	"github.com/vmuptime/runtime/pkg/report"
)

func init() {
	RegisterBuiltins()
}

// registerBuiltinInputModules registers all built-in input module types.
func registerBuiltinInputModules() {
	// csvFile - comma-separated table read from a file
	RegisterInput(input.ModuleTypeCSVFile, func(cfg *report.ModuleConfig) (input.Module, error) {
		module, err := input.NewCSVFileFromConfig(cfg)
		if err != nil {
			return nil, err
		}
		return module, nil
	})
}

// registerBuiltinFilterModules registers all built-in filter module types.
func registerBuiltinFilterModules() {
	// uptimeDays - derives UptimeDays from the Uptime column
	RegisterFilter(filter.ModuleTypeUptimeDays, func(cfg report.ModuleConfig, index int) (filter.Module, error) {
		module, err := filter.NewUptimeDaysFromConfig(cfg)
		if err != nil {
			return nil, fmt.Errorf("invalid uptimeDays config at index %d: %w", index, err)
		}
		return module, nil
	})

	// condition - keeps rows matching an expression
	RegisterFilter(filter.ModuleTypeCondition, func(cfg report.ModuleConfig, index int) (filter.Module, error) {
		module, err := filter.NewConditionFromModuleConfig(cfg)
		if err != nil {
			return nil, fmt.Errorf("invalid condition config at index %d: %w", index, err)
		}
		return module, nil
	})
}

// registerBuiltinOutputModules registers all built-in output module types.
func registerBuiltinOutputModules() {
	// csvFile - comma-separated table written to a file
	RegisterOutput(output.ModuleTypeCSVFile, func(cfg *report.ModuleConfig) (output.Module, error) {
		module, err := output.NewCSVFileFromConfig(cfg)
		if err != nil {
			return nil, err
		}
		return module, nil
	})
}
