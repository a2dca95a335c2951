// Package impute turns normalized raw rows into their final row set: it
// computes per-column replacement values, applies row-dropping semantics and
// fills the remaining missing cells. It is a pure function of the data rows
// and one resolved policy structure, shared by every code path that needs
// imputation so preview and finalize behavior cannot drift.
package impute

import (
	"strconv"

	"github.com/montanaflynn/stats"

	"tabula/domain/policy"
	"tabula/domain/profile"
)

// Replacement is the precomputed substitute for one column's missing cells.
// Numeric replacements (zero, mean, median and the numeric fallbacks) keep
// their float64 form so the finalizer can type them without reparsing loss;
// Raw carries mode and constant replacements on string identity.
type Replacement struct {
	Numeric *float64 `json:"numeric,omitempty"`
	Raw     string   `json:"raw,omitempty"`
}

// Cell renders the replacement as a cell value.
func (r Replacement) Cell() string {
	if r.Numeric != nil {
		return strconv.FormatFloat(*r.Numeric, 'g', -1, 64)
	}
	return r.Raw
}

// Result is the outcome of one imputation pass over the full data rows.
type Result struct {
	Rows             [][]string
	OriginalRowCount int
	DroppedRowCount  int

	// Replacements records what was substituted per column, for provenance.
	Replacements map[string]Replacement
}

// Run executes the four imputation phases in order: normalization,
// replacement computation, row filtering, and application. dataRows are the
// raw data rows (header excluded), width is the resolved column count, and
// colIndex maps resolved column names to positional indices.
//
// No phase fails on a malformed cell: numeric coercion failures degrade to
// exclusion from the relevant aggregate.
func Run(dataRows [][]string, width int, colIndex map[string]int, res policy.Resolution) Result {
	normalized := normalizeRows(dataRows, width, colIndex, res)
	replacements := computeReplacements(normalized, colIndex, res)
	kept, dropped := filterRows(normalized, colIndex, res)
	apply(kept, colIndex, res, replacements)

	return Result{
		Rows:             kept,
		OriginalRowCount: len(dataRows),
		DroppedRowCount:  dropped,
		Replacements:     replacements,
	}
}

// normalizeRows copies every row, pads it to the resolved width, and rewrites
// missing and placeholder feature/target cells to the empty string. The two
// classes are indistinguishable from here on.
func normalizeRows(dataRows [][]string, width int, colIndex map[string]int, res policy.Resolution) [][]string {
	governed := make([]int, 0, len(res.Order)+1)
	for _, col := range res.Order {
		governed = append(governed, colIndex[col])
	}
	if idx, ok := colIndex[res.Target]; ok && res.Target != "" {
		governed = append(governed, idx)
	}

	normalized := make([][]string, len(dataRows))
	for i, row := range dataRows {
		copied := make([]string, width)
		copy(copied, row)
		for _, idx := range governed {
			copied[idx] = profile.Normalize(copied[idx])
		}
		normalized[i] = copied
	}
	return normalized
}

// computeReplacements precomputes one replacement per feature column whose
// effective strategy imputes. Mean and median are computed over every
// non-missing numeric value in the entire normalized dataset; mode operates
// on raw string identity with ties broken by first-seen scan order. A column
// with no usable values falls back to 0.
func computeReplacements(rows [][]string, colIndex map[string]int, res policy.Resolution) map[string]Replacement {
	replacements := make(map[string]Replacement)

	for _, col := range res.Order {
		strategy := res.Features[col]
		if !strategy.Imputes() {
			continue
		}

		idx := colIndex[col]
		switch strategy.Kind {
		case policy.KindZero:
			replacements[col] = numericReplacement(0)
		case policy.KindConstant:
			replacements[col] = Replacement{Raw: strategy.Value}
		case policy.KindMean:
			replacements[col] = centralReplacement(columnNumerics(rows, idx), stats.Mean)
		case policy.KindMedian:
			replacements[col] = centralReplacement(columnNumerics(rows, idx), stats.Median)
		case policy.KindMode:
			replacements[col] = modeReplacement(rows, idx)
		}
	}
	return replacements
}

func numericReplacement(v float64) Replacement {
	return Replacement{Numeric: &v}
}

// columnNumerics collects the non-missing values of one column that parse as
// numbers. Non-numeric values are excluded, never an error.
func columnNumerics(rows [][]string, idx int) []float64 {
	var values []float64
	for _, row := range rows {
		if row[idx] == "" {
			continue
		}
		if v, ok := profile.ParseNumeric(row[idx]); ok {
			values = append(values, v)
		}
	}
	return values
}

func centralReplacement(values []float64, fn func(stats.Float64Data) (float64, error)) Replacement {
	if len(values) == 0 {
		return numericReplacement(0)
	}
	v, err := fn(values)
	if err != nil {
		return numericReplacement(0)
	}
	return numericReplacement(v)
}

func modeReplacement(rows [][]string, idx int) Replacement {
	counts := make(map[string]int)
	var order []string
	for _, row := range rows {
		if row[idx] == "" {
			continue
		}
		if counts[row[idx]] == 0 {
			order = append(order, row[idx])
		}
		counts[row[idx]]++
	}

	if len(order) == 0 {
		return numericReplacement(0)
	}

	best := order[0]
	for _, candidate := range order[1:] {
		if counts[candidate] > counts[best] {
			best = candidate
		}
	}
	return Replacement{Raw: best}
}

// filterRows applies the drop semantics once, before imputation: a row is
// dropped when the global drop strategy sees any missing feature, when any
// explicit drop-row column is missing, or when target drop is in effect and
// the target cell is missing.
func filterRows(rows [][]string, colIndex map[string]int, res policy.Resolution) ([][]string, int) {
	kept := make([][]string, 0, len(rows))
	for _, row := range rows {
		if shouldDrop(row, colIndex, res) {
			continue
		}
		kept = append(kept, row)
	}
	return kept, len(rows) - len(kept)
}

func shouldDrop(row []string, colIndex map[string]int, res policy.Resolution) bool {
	if res.GlobalDrop {
		for _, col := range res.Order {
			if row[colIndex[col]] == "" {
				return true
			}
		}
	}
	for _, col := range res.DropCols {
		if row[colIndex[col]] == "" {
			return true
		}
	}
	if res.TargetDrop && res.Target != "" {
		if idx, ok := colIndex[res.Target]; ok && row[idx] == "" {
			return true
		}
	}
	return false
}

// apply fills remaining missing feature cells with their precomputed
// replacement. The target column is deliberately never imputed - fabricated
// labels are worse than dropped rows.
func apply(rows [][]string, colIndex map[string]int, res policy.Resolution, replacements map[string]Replacement) {
	for col, replacement := range replacements {
		idx := colIndex[col]
		cell := replacement.Cell()
		for _, row := range rows {
			if row[idx] == "" {
				row[idx] = cell
			}
		}
	}
}
