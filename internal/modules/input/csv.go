package input

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/vmuptime/runtime/internal/errhandling"
	"github.com/vmuptime/runtime/internal/logger"
	"github.com/vmuptime/runtime/internal/pathutil"
	"github.com/vmuptime/runtime/internal/table"
	"github.com/vmuptime/runtime/pkg/report"
)

// ModuleTypeCSVFile is the registry type of the CSV file input.
const ModuleTypeCSVFile = "csvFile"

// utf8BOM is written by spreadsheet and PowerShell CSV exports.
const utf8BOM = "\xef\xbb\xbf"

// CSVFileModule loads a comma-separated table from a file. The first record
// is the header; every following record must have the same number of fields.
type CSVFileModule struct {
	path string
}

// NewCSVFile creates a CSV file input reading path.
func NewCSVFile(path string) (*CSVFileModule, error) {
	if err := pathutil.ValidateTablePath(path); err != nil {
		return nil, errhandling.NewValidationError(fmt.Sprintf("csvFile input: %v", err), err)
	}
	return &CSVFileModule{path: path}, nil
}

// NewCSVFileFromConfig creates a CSV file input from module configuration.
// Required key: "path".
func NewCSVFileFromConfig(cfg *report.ModuleConfig) (*CSVFileModule, error) {
	if cfg == nil {
		return nil, errhandling.NewValidationError("csvFile input: nil configuration", nil)
	}
	path, _ := cfg.Config["path"].(string)
	return NewCSVFile(path)
}

// Path returns the file the module reads.
func (m *CSVFileModule) Path() string {
	return m.path
}

// Fetch reads and validates the whole file.
//
// A missing file yields a not-found error; an empty file, a CSV syntax error,
// a record whose width differs from the header or a header without an Uptime
// column yields a malformed-table error.
func (m *CSVFileModule) Fetch(ctx context.Context) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(m.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errhandling.NewNotFoundError(m.path, err)
		}
		return nil, errhandling.NewIOError(m.path, "opening table", err)
	}
	defer f.Close()

	tbl, err := m.read(f)
	if err != nil {
		return nil, err
	}

	logger.WithModule("input", ModuleTypeCSVFile).Debug("csv table loaded",
		slog.String("path", m.path),
		slog.Int("columns", len(tbl.Header())),
		slog.Int("rows", tbl.Len()),
	)
	return tbl, nil
}

func (m *CSVFileModule) read(r io.Reader) (*table.Table, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && string(prefix) == utf8BOM {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	// Stray quotes inside unquoted fields are data, not syntax errors.
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errhandling.NewMalformedTableError(m.path, 0, "no header row", err)
		}
		return nil, m.csvError(err)
	}
	// FieldsPerRecord is pinned to the header width by the first Read; the
	// reader rejects any later record that differs.

	var records [][]string
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, m.csvError(err)
		}
		records = append(records, rec)
	}

	tbl, err := table.New(header, records)
	if err != nil {
		return nil, errhandling.NewMalformedTableError(m.path, 1, err.Error(), err)
	}
	return tbl, nil
}

// csvError classifies a reader error, keeping the line number when known.
func (m *CSVFileModule) csvError(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return errhandling.NewMalformedTableError(m.path, parseErr.StartLine, parseErr.Err.Error(), err)
	}
	return errhandling.NewIOError(m.path, fmt.Sprintf("reading table: %v", err), err)
}

// Close releases resources (the file is closed by Fetch).
func (m *CSVFileModule) Close() error {
	return nil
}

// Verify CSVFileModule implements Module
var _ Module = (*CSVFileModule)(nil)
