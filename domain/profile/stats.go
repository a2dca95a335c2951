package profile

// InferredType is the coarse column type derived from observed values.
type InferredType string

const (
	TypeEmpty       InferredType = "empty"
	TypeNumeric     InferredType = "numeric"
	TypeCategorical InferredType = "categorical"
	TypeMixed       InferredType = "mixed"
)

// maxPlaceholderExamples caps the distinct placeholder tokens retained per
// column for operator display.
const maxPlaceholderExamples = 5

// ColumnStats aggregates per-column cell statistics over a bounded preview
// window. They drive the UI and policy decisions and are never authoritative
// for the final dataset.
type ColumnStats struct {
	Column              string       `json:"column"`
	MissingCount        int          `json:"missing_count"`
	PlaceholderCount    int          `json:"placeholder_count"`
	InferredType        InferredType `json:"inferred_type"`
	UniqueCount         int          `json:"unique_count"`
	NumericFraction     float64      `json:"numeric_fraction"`
	PlaceholderExamples []string     `json:"placeholder_examples,omitempty"`
}

// ProfileColumns computes per-column statistics over data rows only. rows is
// positionally aligned with names; short rows are treated as missing in the
// trailing columns.
//
// NumericFraction uses one consistent rule: the denominator is every
// non-missing cell (valid + placeholder), the numerator is cells that parse
// as numbers. Placeholders never parse, so they dilute the fraction without
// ever contributing to it.
func ProfileColumns(names []string, dataRows [][]string) []ColumnStats {
	stats := make([]ColumnStats, len(names))

	for colIdx, name := range names {
		cs := ColumnStats{Column: name}

		unique := make(map[string]bool)
		exampleSeen := make(map[string]bool)
		numericCount := 0
		validCount := 0

		for _, row := range dataRows {
			var cell string
			if colIdx < len(row) {
				cell = row[colIdx]
			}

			switch Classify(cell) {
			case CellMissing:
				cs.MissingCount++
			case CellPlaceholder:
				cs.PlaceholderCount++
				token := trimmedLower(cell)
				if !exampleSeen[token] && len(cs.PlaceholderExamples) < maxPlaceholderExamples {
					exampleSeen[token] = true
					cs.PlaceholderExamples = append(cs.PlaceholderExamples, token)
				}
			case CellValid:
				validCount++
				unique[cell] = true
				if _, ok := ParseNumeric(cell); ok {
					numericCount++
				}
			}
		}

		cs.UniqueCount = len(unique)
		cs.InferredType = inferType(validCount, numericCount)

		nonMissing := validCount + cs.PlaceholderCount
		if nonMissing > 0 {
			cs.NumericFraction = float64(numericCount) / float64(nonMissing)
		}

		stats[colIdx] = cs
	}
	return stats
}

// inferType labels a column empty when no valid values were observed,
// numeric when every valid value parses, categorical when none do, and
// mixed otherwise.
func inferType(validCount, numericCount int) InferredType {
	switch {
	case validCount == 0:
		return TypeEmpty
	case numericCount == validCount:
		return TypeNumeric
	case numericCount == 0:
		return TypeCategorical
	default:
		return TypeMixed
	}
}
