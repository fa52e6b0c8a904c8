// Package input provides implementations for input modules.
// Input modules load the table that the rest of the pipeline works on.
package input

import (
	"context"

	"github.com/vmuptime/runtime/internal/table"
)

// Module represents an input module that loads a table from a source.
type Module interface {
	// Fetch loads the source table.
	// The context can be used to cancel long-running operations.
	Fetch(ctx context.Context) (*table.Table, error)
	// Close releases any resources held by the module.
	Close() error
}
