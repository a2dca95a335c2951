package ingest

import (
	"fmt"
	"strings"

	"tabula/domain/core"
)

// Column identifies one resolved header column. Identity is the deduplicated
// display name; Index is the positional index in the raw rows.
type Column struct {
	Name  string `json:"name"`
	Index int    `json:"index"`
}

// Structure is the outcome of locating the header row inside the raw rows.
type Structure struct {
	Columns   []Column `json:"columns"`
	DataStart int      `json:"data_start"` // absolute index of the first data row
	TotalRows int      `json:"total_rows"`
}

// Names returns the resolved column names in order of first appearance.
func (s *Structure) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// IndexOf returns the positional index for a resolved column name.
func (s *Structure) IndexOf(name string) (int, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c.Index, true
		}
	}
	return 0, false
}

// ResolveStructure locates the header row given skipRows and headerRow
// (headerRow is relative to the post-skip rows), derives unique column names
// and computes the absolute index where data rows begin.
func ResolveStructure(rows [][]string, skipRows, headerRow int) (*Structure, error) {
	total := len(rows)
	if total == 0 {
		return nil, core.ErrEmptyInput
	}
	if skipRows < 0 {
		return nil, core.NewOutOfRangeError("skipRows", skipRows, total)
	}
	if headerRow < 0 {
		return nil, core.NewOutOfRangeError("headerRow", headerRow, total)
	}
	if skipRows >= total {
		return nil, core.NewOutOfRangeError("skipRows", skipRows, total)
	}
	if skipRows+headerRow >= total {
		return nil, core.NewOutOfRangeError("skipRows+headerRow", skipRows+headerRow, total)
	}

	headerCells := rows[skipRows+headerRow]
	if len(headerCells) == 0 {
		return nil, core.ErrNoColumns
	}

	columns := dedupeColumns(headerCells)
	dataStart := skipRows + headerRow + 1
	if dataStart >= total {
		return nil, core.ErrNoDataRows
	}

	return &Structure{
		Columns:   columns,
		DataStart: dataStart,
		TotalRows: total,
	}, nil
}

// dedupeColumns derives unique display names. The first occurrence of a base
// name keeps it unchanged; the k-th later duplicate becomes "base_k". Empty
// trimmed header cells fall back to the literal "col" before deduplication.
func dedupeColumns(headerCells []string) []Column {
	seen := make(map[string]bool, len(headerCells))
	counts := make(map[string]int, len(headerCells))
	columns := make([]Column, len(headerCells))

	for i, cell := range headerCells {
		base := strings.TrimSpace(cell)
		if base == "" {
			base = "col"
		}

		name := base
		for seen[name] {
			counts[base]++
			name = fmt.Sprintf("%s_%d", base, counts[base])
		}
		seen[name] = true

		columns[i] = Column{Name: name, Index: i}
	}
	return columns
}
