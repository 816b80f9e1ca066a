package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedFormat is returned for file extensions other than .csv and .xlsx.
	ErrUnsupportedFormat = errors.New("unsupported dataset format")

	// ErrMissingColumn is returned when a required input column is absent.
	ErrMissingColumn = errors.New("missing required column")

	// ErrRowMismatch is returned when results do not line up with table rows.
	ErrRowMismatch = errors.New("result count does not match row count")

	// ErrEmptyDataset is returned for files without a header row.
	ErrEmptyDataset = errors.New("dataset has no header row")

	// ErrRaggedRow is returned when a row has more cells than the header.
	ErrRaggedRow = errors.New("row has more fields than header")
)

const utf8BOM = "\ufeff"

// ReadFile reads a .csv or .xlsx table. The first row is the header; for
// workbooks the first sheet is used.
func ReadFile(path string) (*Table, error) {
	switch format(path) {
	case ".csv":
		return readCSV(path)
	case ".xlsx":
		return readXLSX(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// WriteFile writes t as .csv or .xlsx, creating parent directories.
func WriteFile(path string, t *Table) error {
	ext := format(path)
	if ext != ".csv" && ext != ".xlsx" {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if ext == ".xlsx" {
		return writeXLSX(path, t)
	}
	return writeCSV(path, t)
}

func format(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

func readCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDataset, path)
	}

	header := records[0]
	header[0] = strings.TrimPrefix(header[0], utf8BOM)
	return newCheckedTable(path, header, records[1:])
}

func writeCSV(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write(t.Header); err != nil {
		_ = f.Close()
		return err
	}
	if err := w.WriteAll(t.Rows); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func readXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDataset, path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDataset, path)
	}
	return newCheckedTable(path, rows[0], rows[1:])
}

func newCheckedTable(path string, header []string, rows [][]string) (*Table, error) {
	t := NewTable(header, rows)
	if err := t.checkWidth(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func writeXLSX(path string, t *Table) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(0)

	set := func(col, row int, value string) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellStr(sheet, cell, value)
	}

	for i, h := range t.Header {
		if err := set(i+1, 1, h); err != nil {
			return err
		}
	}
	for r, row := range t.Rows {
		for c, value := range row {
			if err := set(c+1, r+2, value); err != nil {
				return err
			}
		}
	}
	return f.SaveAs(path)
}
