package dataset

import (
	"fmt"
	"strings"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"tabula/domain/core"
	"tabula/domain/impute"
	"tabula/domain/ingest"
	"tabula/domain/policy"
	"tabula/domain/profile"
)

// classUniqueMax and classUniqueRatio bound the classification heuristic:
// a numeric target is treated as classes only when the distinct value count
// is small in absolute terms and relative to the sample count, so large
// value ranges fall through to regression even with moderate repeats.
const (
	classUniqueMax   = 10
	classUniqueRatio = 0.5
)

// LimitError is returned when finalize is refused because size limits are
// outstanding. It carries the structured violation list for display.
type LimitError struct {
	Violations []ingest.LimitViolation
}

func (e *LimitError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Message
	}
	return fmt.Sprintf("%v: %s", core.ErrLimitExceeded, strings.Join(msgs, "; "))
}

func (e *LimitError) Unwrap() error { return core.ErrLimitExceeded }

// Build runs the full finalize pass over the complete raw rows: structural
// resolution, limit enforcement, policy resolution, imputation and target
// type inference. It is deterministic for identical (rows, cfg, limits).
func Build(rows [][]string, byteSize int64, cfg ingest.Config, limits ingest.Limits) (*Dataset, error) {
	structure, err := ingest.ResolveStructure(rows, cfg.SkipRows, cfg.HeaderRow)
	if err != nil {
		return nil, err
	}

	if violations := limits.Check(byteSize, structure.TotalRows, len(structure.Columns)); len(violations) > 0 {
		return nil, &LimitError{Violations: violations}
	}

	roles := cfg.ResolveRoles(structure)
	resolution := policy.Resolve(cfg.PolicyInput(roles))

	colIndex := make(map[string]int, len(structure.Columns))
	for _, c := range structure.Columns {
		colIndex[c.Name] = c.Index
	}

	result := impute.Run(rows[structure.DataStart:], len(structure.Columns), colIndex, resolution)

	records := typedRecords(result.Rows, roles, colIndex)
	targetType, numClasses := inferTargetType(result.Rows, colIndex[roles.Target])

	ds := &Dataset{
		ID:          core.DatasetID(core.NewID()),
		CreatedAt:   core.Now(),
		Rows:        records,
		Features:    roles.Features,
		Target:      roles.Target,
		Type:        targetType,
		NumSamples:  len(records),
		NumFeatures: len(roles.Features),
		SkipRows:    cfg.SkipRows,
		HeaderRow:   cfg.HeaderRow,
		Summary: ImputationSummary{
			OriginalRowCount: result.OriginalRowCount,
			DroppedRowCount:  result.DroppedRowCount,
			DropApplied:      result.DroppedRowCount > 0,
			DropColumns:      resolution.DropCols,
			GlobalDrop:       resolution.GlobalDrop,
			TargetDrop:       resolution.TargetDrop,
			Replacements:     result.Replacements,
		},
		NumericSummaries: numericSummaries(result.Rows, roles.Features, colIndex),
	}
	if targetType == TargetClassification {
		ds.NumClasses = numClasses
	}
	return ds, nil
}

// typedRecords converts the final string rows into typed records: cells that
// parse as numbers become float64, everything else stays a string. Cells
// still missing after a leave-as-is strategy remain empty strings.
func typedRecords(rows [][]string, roles ingest.Roles, colIndex map[string]int) []map[string]any {
	columns := append(append([]string(nil), roles.Features...), roles.Target)

	records := make([]map[string]any, len(rows))
	for i, row := range rows {
		record := make(map[string]any, len(columns))
		for _, col := range columns {
			record[col] = typedCell(row[colIndex[col]])
		}
		records[i] = record
	}
	return records
}

func typedCell(cell string) any {
	if v, ok := profile.ParseNumeric(cell); ok {
		return v
	}
	return cell
}

// inferTargetType classifies the learning task from the final non-missing
// target values. Any value that fails numeric coercion forces
// classification; an all-numeric target is classification only while the
// distinct value count stays small both absolutely and relative to the
// sample count.
func inferTargetType(rows [][]string, targetIdx int) (TargetType, int) {
	distinctRaw := make(map[string]bool)
	distinctNum := make(map[float64]bool)
	total := 0
	allNumeric := true

	for _, row := range rows {
		cell := row[targetIdx]
		if cell == "" {
			continue
		}
		total++
		distinctRaw[cell] = true
		if v, ok := profile.ParseNumeric(cell); ok {
			distinctNum[v] = true
		} else {
			allNumeric = false
		}
	}

	if total == 0 {
		return TargetClassification, 0
	}
	if !allNumeric {
		return TargetClassification, len(distinctRaw)
	}

	unique := len(distinctNum)
	if unique <= classUniqueMax && float64(unique) < classUniqueRatio*float64(total) {
		return TargetClassification, unique
	}
	return TargetRegression, unique
}

// numericSummaries computes the final distribution of every feature column
// whose kept values are all numeric. Aggregation failures degrade to
// omission, never an error.
func numericSummaries(rows [][]string, features []string, colIndex map[string]int) []NumericSummary {
	var summaries []NumericSummary

	for _, col := range features {
		idx := colIndex[col]
		var values []float64
		numeric := true
		for _, row := range rows {
			if row[idx] == "" {
				continue
			}
			v, ok := profile.ParseNumeric(row[idx])
			if !ok {
				numeric = false
				break
			}
			values = append(values, v)
		}
		if !numeric || len(values) == 0 {
			continue
		}

		min, err := stats.Min(values)
		if err != nil {
			continue
		}
		max, err := stats.Max(values)
		if err != nil {
			continue
		}
		median, err := stats.Median(values)
		if err != nil {
			continue
		}

		mean, std := stat.MeanStdDev(values, nil)
		if len(values) < 2 {
			std = 0
		}

		summaries = append(summaries, NumericSummary{
			Column: col,
			Count:  len(values),
			Min:    min,
			Max:    max,
			Mean:   mean,
			Median: median,
			StdDev: std,
		})
	}
	return summaries
}
