// Package testkit provides table fixtures shared by the pipeline tests.
package testkit

import (
	"strings"
)

// CSV joins rows into comma-delimited text. Cells containing commas or
// quotes must be pre-escaped by the caller; fixtures should stay simple.
func CSV(rows ...[]string) string {
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(strings.Join(row, ","))
		b.WriteString("\n")
	}
	return b.String()
}

// Rows is a convenience literal for raw row slices.
func Rows(rows ...[]string) [][]string {
	return rows
}

// MessyTable is a small table exercising every cell class: empty cells,
// placeholder tokens in mixed case, numeric and categorical values.
func MessyTable() [][]string {
	return Rows(
		[]string{"age", "city", "income", "label"},
		[]string{"34", "london", "52000", "1"},
		[]string{"", "paris", "NA", "0"},
		[]string{"41", "?", "61000", "1"},
		[]string{"29", "berlin", "", ""},
		[]string{"n/a", "london", "58000", "0"},
	)
}
