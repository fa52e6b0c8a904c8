package filter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/vmuptime/runtime/internal/errhandling"
	"github.com/vmuptime/runtime/internal/logger"
	"github.com/vmuptime/runtime/internal/table"
	"github.com/vmuptime/runtime/pkg/report"
)

// ModuleTypeCondition is the registry type of the row selection filter.
const ModuleTypeCondition = "condition"

// Error codes for condition module
const (
	ErrCodeInvalidExpression = "INVALID_EXPRESSION"
	ErrCodeEvaluationFailed  = "EVALUATION_FAILED"
)

var (
	// ErrEmptyExpression is returned when no expression is configured.
	ErrEmptyExpression = errors.New("expression cannot be empty")
	// ErrInvalidExpression is returned when the expression does not compile.
	ErrInvalidExpression = errors.New("invalid expression syntax")
)

// ConditionConfig represents the configuration for a condition filter module.
type ConditionConfig struct {
	// Expression is evaluated per row and must yield a boolean (required).
	// Every column is visible by name as a string; UptimeDays is a number.
	Expression string `json:"expression"`
}

// ConditionModule keeps the rows for which its expression is true,
// preserving their order.
type ConditionModule struct {
	expression string
	program    *vm.Program
}

// ConditionError carries structured context for condition evaluation failures.
type ConditionError struct {
	Code        string
	Expression  string
	RecordIndex int
	Err         error
}

func (e *ConditionError) Error() string {
	return fmt.Sprintf("condition %q failed at record %d: %v", e.Expression, e.RecordIndex, e.Err)
}

func (e *ConditionError) Unwrap() error {
	return e.Err
}

// NewConditionFromConfig compiles the configured expression.
func NewConditionFromConfig(config ConditionConfig) (*ConditionModule, error) {
	expression := strings.TrimSpace(config.Expression)
	if expression == "" {
		return nil, errhandling.NewValidationError("condition filter", ErrEmptyExpression)
	}

	program, err := expr.Compile(expression, expr.AllowUndefinedVariables(), expr.AsBool())
	if err != nil {
		return nil, errhandling.NewValidationError(
			fmt.Sprintf("condition filter: %s", ErrCodeInvalidExpression),
			fmt.Errorf("%w: %v", ErrInvalidExpression, err),
		)
	}

	logger.WithModule("filter", ModuleTypeCondition).Debug("condition module initialized", slog.String("expression", expression))

	return &ConditionModule{expression: expression, program: program}, nil
}

// NewConditionFromModuleConfig creates the filter from module configuration.
// Required key: "expression".
func NewConditionFromModuleConfig(cfg report.ModuleConfig) (*ConditionModule, error) {
	expression, _ := cfg.Config["expression"].(string)
	return NewConditionFromConfig(ConditionConfig{Expression: expression})
}

// Expression returns the compiled expression source.
func (c *ConditionModule) Expression() string {
	return c.expression
}

// Process returns a new table holding the rows that satisfy the expression.
// An evaluation error fails the whole table.
func (c *ConditionModule) Process(ctx context.Context, tbl *table.Table) (*table.Table, error) {
	if tbl == nil {
		return nil, errhandling.NewValidationError("condition filter: nil table", nil)
	}

	header := tbl.Header()
	derived := tbl.Derived()

	return tbl.Filter(func(i int, r table.Row) (bool, error) {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		out, err := expr.Run(c.program, rowEnv(header, r, derived))
		if err != nil {
			return false, &ConditionError{
				Code:        ErrCodeEvaluationFailed,
				Expression:  c.expression,
				RecordIndex: i,
				Err:         err,
			}
		}
		keep, _ := out.(bool)
		return keep, nil
	})
}

// rowEnv exposes a row to the expression. Column values are strings; the
// derived UptimeDays is a float64 and shadows an input column of that name.
func rowEnv(header []string, r table.Row, derived bool) map[string]interface{} {
	env := make(map[string]interface{}, len(header)+1)
	for i, name := range header {
		env[name] = r.Value(i)
	}
	if derived {
		env[table.UptimeDaysColumn] = r.UptimeDays
	}
	return env
}

// Verify ConditionModule implements Module
var _ Module = (*ConditionModule)(nil)
