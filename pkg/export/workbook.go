// Package export writes and reads simple tabular .xlsx workbooks.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of an .xlsx workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ErrEmptyWorkbook is returned when an uploaded workbook has no data rows.
var ErrEmptyWorkbook = errors.New("workbook has no rows")

// Sheet is one worksheet: a bold header row followed by data rows.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
	Widths  map[string]float64 // column letter to width, e.g. "A": 24
}

// Write renders sheets into an .xlsx workbook. The first sheet replaces excelize's default "Sheet1".
func Write(sheets ...Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, errors.New("no sheets to write")
	}

	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E8E8E8"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", s.Name, err)
		}

		if err := writeSheet(f, s, header); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, s Sheet, headerStyle int) error {
	if len(s.Headers) > 0 {
		cell, _ := excelize.CoordinatesToCellName(1, 1)
		if err := f.SetSheetRow(s.Name, cell, &s.Headers); err != nil {
			return fmt.Errorf("write header of %s: %w", s.Name, err)
		}
		last, _ := excelize.CoordinatesToCellName(len(s.Headers), 1)
		if err := f.SetCellStyle(s.Name, cell, last, headerStyle); err != nil {
			return fmt.Errorf("style header of %s: %w", s.Name, err)
		}
	}

	offset := 1
	if len(s.Headers) == 0 {
		offset = 0
	}
	for i, row := range s.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1+offset)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(s.Name, cell, &r); err != nil {
			return fmt.Errorf("write row %d of %s: %w", i+1, s.Name, err)
		}
	}

	for col, width := range s.Widths {
		if err := f.SetColWidth(s.Name, col, col, width); err != nil {
			return fmt.Errorf("set width of %s!%s: %w", s.Name, col, err)
		}
	}
	return nil
}

// ReadRows returns the rows of the first sheet of an .xlsx workbook with
// surrounding whitespace trimmed. Rows with no content are dropped.
func ReadRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}

	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		empty := true
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
			if row[i] != "" {
				empty = false
			}
		}
		if !empty {
			out = append(out, row)
		}
	}
	if len(out) == 0 {
		return nil, ErrEmptyWorkbook
	}
	return out, nil
}

// HeaderIndex maps lower-cased header names to their column index.
func HeaderIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

// Cell returns row[i], or "" when the row is shorter.
func Cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
