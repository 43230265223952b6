package ingest

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseFileCSV(t *testing.T) {
	csvData := "Date,Revenue,Expense\n2024-01-05,100,40\n2024-02-05,110,45\n"

	rows, err := ParseFile("statement.csv", strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0]["Date"] != "2024-01-05" || rows[0]["Revenue"] != "100" || rows[0]["Expense"] != "40" {
		t.Errorf("first row = %v", rows[0])
	}
}

func TestParseFileCSVRaggedRows(t *testing.T) {
	csvData := "date,revenue,expense\n2024-01-05,100\n2024-02-05,110,45,extra\n"

	rows, err := ParseFile("ragged.csv", strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if rows[0]["expense"] != "" {
		t.Errorf("short row should pad missing cells, got %q", rows[0]["expense"])
	}
	if rows[1]["revenue"] != "110" {
		t.Errorf("long row mis-mapped: %v", rows[1])
	}
}

func TestParseFileXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	data := [][]any{
		{"date", "revenue", "expense_amount"},
		{"2024-01-05", 100, 40},
		{"2024-02-05", 110, 45},
	}
	for i, row := range data {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("build workbook: %v", err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	rows, err := ParseFile("statement.xlsx", &buf)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0]["date"] != "2024-01-05" {
		t.Errorf("first row = %v", rows[0])
	}
}

func TestParseFileUnsupported(t *testing.T) {
	_, err := ParseFile("statement.pdf", strings.NewReader("%PDF"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestRowsFromTable(t *testing.T) {
	t.Run("header only is empty", func(t *testing.T) {
		_, err := RowsFromTable([][]string{{"date", "revenue"}})
		if !errors.Is(err, ErrEmptyFile) {
			t.Errorf("error = %v, want ErrEmptyFile", err)
		}
	})

	t.Run("blank rows are skipped", func(t *testing.T) {
		rows, err := RowsFromTable([][]string{
			{"date", "revenue"},
			{"", ""},
			{"2024-01-05", "100"},
		})
		if err != nil {
			t.Fatalf("RowsFromTable: %v", err)
		}
		if len(rows) != 1 {
			t.Errorf("got %d rows, want 1", len(rows))
		}
	})

	t.Run("blank header columns are dropped", func(t *testing.T) {
		rows, err := RowsFromTable([][]string{
			{"date", "", "revenue"},
			{"2024-01-05", "junk", "100"},
		})
		if err != nil {
			t.Fatalf("RowsFromTable: %v", err)
		}
		if _, ok := rows[0][""]; ok {
			t.Error("blank header column should not appear in rows")
		}
		if rows[0]["revenue"] != "100" {
			t.Errorf("row = %v", rows[0])
		}
	})
}
