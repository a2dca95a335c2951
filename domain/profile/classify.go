package profile

import (
	"math"
	"strconv"
	"strings"
)

// CellClass classifies one raw cell for preview display and statistics.
type CellClass string

const (
	CellMissing     CellClass = "missing"
	CellPlaceholder CellClass = "placeholder"
	CellValid       CellClass = "valid"
)

// placeholderTokens is the fixed set of strings that are not empty but
// semantically represent a missing value. Matching is case-insensitive over
// the whitespace-trimmed cell.
var placeholderTokens = map[string]bool{
	"na":      true,
	"n/a":     true,
	"null":    true,
	"none":    true,
	"nil":     true,
	"nan":     true,
	"?":       true,
	"-":       true,
	"missing": true,
	"unknown": true,
	".":       true,
}

// Classify labels a raw cell: missing when the trimmed value is empty,
// placeholder when the trimmed lowercased value is a known token, valid
// otherwise.
func Classify(cell string) CellClass {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return CellMissing
	}
	if placeholderTokens[strings.ToLower(trimmed)] {
		return CellPlaceholder
	}
	return CellValid
}

// IsMissingLike reports whether a cell is missing or a placeholder, the two
// classes the imputation engine unifies into one missing representation.
func IsMissingLike(cell string) bool {
	return Classify(cell) != CellValid
}

// Normalize rewrites missing-like cells to the empty string and leaves valid
// cells untouched. This is the lossless pre-strategy normalization: the raw
// value of a valid cell is preserved verbatim.
func Normalize(cell string) string {
	if IsMissingLike(cell) {
		return ""
	}
	return cell
}

// trimmedLower is the canonical form placeholder tokens are compared and
// reported in.
func trimmedLower(cell string) string {
	return strings.ToLower(strings.TrimSpace(cell))
}

// ParseNumeric parses a cell as a number. The rule is deliberately
// explicit and shared by the preview and finalize paths: surrounding
// whitespace is ignored, and values that parse to NaN or an infinity are
// rejected so malformed exponents cannot leak into aggregates.
func ParseNumeric(cell string) (float64, bool) {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
