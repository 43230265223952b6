// Package ingest turns uploaded financial statements into raw row maps.
// It is deliberately dumb: no semantic interpretation happens here, the
// normalizer is the first stage to understand column meanings.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"finhealth/internal/core"
)

var (
	// ErrUnsupportedFormat is returned for file types the service cannot read.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrEmptyFile is returned when a file has no data rows under its header.
	ErrEmptyFile = errors.New("file contains no data rows")
)

// ParseFile reads a .csv or .xlsx statement into raw rows. The first line
// is treated as the header; cells are kept as strings for the normalizer
// to coerce.
func ParseFile(filename string, r io.Reader) ([]core.RawRow, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return parseCSV(r)
	case ".xlsx":
		return parseXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}
}

func parseCSV(r io.Reader) ([]core.RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return RowsFromTable(records)
}

func parseXLSX(r io.Reader) ([]core.RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return RowsFromTable(records)
}

// RowsFromTable converts a header row plus data rows into raw row maps.
// Short rows are padded with empty cells; columns with blank header names
// are dropped.
func RowsFromTable(records [][]string) ([]core.RawRow, error) {
	if len(records) < 2 {
		return nil, ErrEmptyFile
	}

	header := records[0]
	rows := make([]core.RawRow, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(core.RawRow, len(header))
		empty := true
		for i, name := range header {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			cell := ""
			if i < len(record) {
				cell = strings.TrimSpace(record[i])
			}
			if cell != "" {
				empty = false
			}
			row[name] = cell
		}
		if !empty {
			rows = append(rows, row)
		}
	}

	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	return rows, nil
}
