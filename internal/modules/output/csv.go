package output

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"

	"github.com/vmuptime/runtime/internal/errhandling"
	"github.com/vmuptime/runtime/internal/logger"
	"github.com/vmuptime/runtime/internal/pathutil"
	"github.com/vmuptime/runtime/internal/table"
	"github.com/vmuptime/runtime/internal/uptime"
	"github.com/vmuptime/runtime/pkg/report"
)

// ModuleTypeCSVFile is the registry type of the CSV file output.
const ModuleTypeCSVFile = "csvFile"

// CSVFileModule writes a table as comma-separated text: the header row, then
// one line per row, no index column. An existing file is replaced.
type CSVFileModule struct {
	path string
}

// NewCSVFile creates a CSV file output writing to path.
func NewCSVFile(path string) (*CSVFileModule, error) {
	if err := pathutil.ValidateTablePath(path); err != nil {
		return nil, errhandling.NewValidationError(fmt.Sprintf("csvFile output: %v", err), err)
	}
	return &CSVFileModule{path: path}, nil
}

// NewCSVFileFromConfig creates a CSV file output from module configuration.
// Required key: "path".
func NewCSVFileFromConfig(cfg *report.ModuleConfig) (*CSVFileModule, error) {
	if cfg == nil {
		return nil, errhandling.NewValidationError("csvFile output: nil configuration", nil)
	}
	path, _ := cfg.Config["path"].(string)
	return NewCSVFile(path)
}

// Destination returns the file the module writes.
func (m *CSVFileModule) Destination() string {
	return m.path
}

// Send writes tbl to the destination file, truncating it first.
func (m *CSVFileModule) Send(ctx context.Context, tbl *table.Table) (int, error) {
	if tbl == nil {
		return 0, errhandling.NewValidationError("csvFile output: nil table", nil)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	f, err := os.Create(m.path)
	if err != nil {
		return 0, errhandling.NewIOError(m.path, "creating output file", err)
	}

	written, writeErr := m.write(f, tbl)
	closeErr := f.Close()
	if writeErr != nil {
		return 0, writeErr
	}
	if closeErr != nil {
		return 0, errhandling.NewIOError(m.path, "closing output file", closeErr)
	}

	logger.WithModule("output", ModuleTypeCSVFile).Debug("csv table written",
		slog.String("path", m.path),
		slog.Int("rows", written),
	)
	return written, nil
}

func (m *CSVFileModule) write(f *os.File, tbl *table.Table) (int, error) {
	buf := bufio.NewWriter(f)
	w := csv.NewWriter(buf)

	if err := w.Write(tbl.Columns()); err != nil {
		return 0, errhandling.NewIOError(m.path, "writing header", err)
	}
	for i := 0; i < tbl.Len(); i++ {
		if err := w.Write(tbl.Record(i, uptime.FormatDays)); err != nil {
			return 0, errhandling.NewIOError(m.path, fmt.Sprintf("writing row %d", i), err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return 0, errhandling.NewIOError(m.path, "flushing table", err)
	}
	if err := buf.Flush(); err != nil {
		return 0, errhandling.NewIOError(m.path, "flushing table", err)
	}
	return tbl.Len(), nil
}

// Close releases resources (the file is closed by Send).
func (m *CSVFileModule) Close() error {
	return nil
}

// Verify CSVFileModule implements Module and Destination
var (
	_ Module      = (*CSVFileModule)(nil)
	_ Destination = (*CSVFileModule)(nil)
)
