package excel

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/xuri/excelize/v2"

	"tabula/domain/core"
)

// Splitter reads the first sheet of an .xlsx workbook into rows of string
// cells, so spreadsheet uploads flow through the same pipeline as delimited
// text. excelize renders every cell through its display format, which keeps
// the downstream classification purely string-based.
type Splitter struct {
	sheet string // empty means first sheet
}

// NewSplitter creates a workbook splitter reading the first sheet.
func NewSplitter() *Splitter {
	return &Splitter{}
}

// NewSheetSplitter creates a workbook splitter pinned to a named sheet.
func NewSheetSplitter(sheet string) *Splitter {
	return &Splitter{sheet: sheet}
}

// Split opens the workbook from memory and returns all rows of the selected
// sheet in order.
func (s *Splitter) Split(ctx context.Context, data []byte) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", core.ErrParseFailed, err)
	}
	defer f.Close()

	sheet := s.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return nil, fmt.Errorf("%w: workbook has no sheets", core.ErrParseFailed)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %s: %v", core.ErrParseFailed, sheet, err)
	}

	log.Printf("[ExcelSplitter] sheet %s read (%d rows)", sheet, len(rows))
	return rows, nil
}
