package ingest

import (
	"tabula/domain/profile"
)

// RowKind labels a preview row relative to the resolved structure.
type RowKind string

const (
	RowSkipped RowKind = "skipped"
	RowHeader  RowKind = "header"
	RowData    RowKind = "data"
)

// PreviewCell is one raw cell plus its classification for display.
type PreviewCell struct {
	Value string            `json:"value"`
	Class profile.CellClass `json:"class"`
}

// PreviewRow is one raw row in the bounded preview window. Index is the
// absolute row index in the full document.
type PreviewRow struct {
	Index int           `json:"index"`
	Kind  RowKind       `json:"kind"`
	Cells []PreviewCell `json:"cells"`
}

// PreviewResult is the sole handoff artifact to interactive display code.
// It is a pure function of (rows, config, limits): re-running preview
// generation with identical inputs yields an identical result.
type PreviewResult struct {
	Columns   []Column              `json:"columns"`
	Target    string                `json:"target"`
	Features  []string              `json:"features"`
	Window    []PreviewRow          `json:"window"`
	Stats     []profile.ColumnStats `json:"stats"`
	DataStart int                   `json:"data_start"`
	TotalRows int                   `json:"total_rows"`

	// Violations carries outstanding size-limit failures. The preview still
	// renders with them attached; finalize refuses until they are resolved.
	Violations []LimitViolation `json:"violations,omitempty"`
}

// BuildPreview resolves structure over the full set of raw rows, then
// materializes a bounded window (skipped rows, the header row, and up to
// PreviewLimit data rows) with per-cell classifications and per-column stats
// computed over the windowed data rows only. Limit checks always use the
// full document counts so operators see violations before confirming.
func BuildPreview(rows [][]string, byteSize int64, cfg Config, limits Limits) (*PreviewResult, error) {
	structure, err := ResolveStructure(rows, cfg.SkipRows, cfg.HeaderRow)
	if err != nil {
		return nil, err
	}

	roles := cfg.ResolveRoles(structure)

	windowEnd := structure.DataStart + cfg.previewLimit()
	if windowEnd > structure.TotalRows {
		windowEnd = structure.TotalRows
	}

	window := make([]PreviewRow, 0, windowEnd)
	for i := 0; i < windowEnd; i++ {
		window = append(window, previewRow(rows[i], i, structure.DataStart, cfg.SkipRows+cfg.HeaderRow))
	}

	dataWindow := rows[structure.DataStart:windowEnd]
	stats := profile.ProfileColumns(structure.Names(), dataWindow)

	return &PreviewResult{
		Columns:    structure.Columns,
		Target:     roles.Target,
		Features:   roles.Features,
		Window:     window,
		Stats:      stats,
		DataStart:  structure.DataStart,
		TotalRows:  structure.TotalRows,
		Violations: limits.Check(byteSize, structure.TotalRows, len(structure.Columns)),
	}, nil
}

func previewRow(raw []string, index, dataStart, headerIndex int) PreviewRow {
	kind := RowSkipped
	switch {
	case index == headerIndex:
		kind = RowHeader
	case index >= dataStart:
		kind = RowData
	}

	cells := make([]PreviewCell, len(raw))
	for i, cell := range raw {
		pc := PreviewCell{Value: cell, Class: profile.CellValid}
		if kind == RowData {
			pc.Class = profile.Classify(cell)
		}
		cells[i] = pc
	}
	return PreviewRow{Index: index, Kind: kind, Cells: cells}
}
