package profile

import "testing"

// TestClassify verifies the three-way cell classification.
func TestClassify(t *testing.T) {
	tests := []struct {
		cell string
		want CellClass
	}{
		{"", CellMissing},
		{"   ", CellMissing},
		{"\t", CellMissing},
		{"NA", CellPlaceholder},
		{"na", CellPlaceholder},
		{" N/A ", CellPlaceholder},
		{"NULL", CellPlaceholder},
		{"None", CellPlaceholder},
		{"nil", CellPlaceholder},
		{"NaN", CellPlaceholder},
		{"?", CellPlaceholder},
		{"-", CellPlaceholder},
		{"Missing", CellPlaceholder},
		{"UNKNOWN", CellPlaceholder},
		{".", CellPlaceholder},
		{"0", CellValid},
		{"hello", CellValid},
		{"-1", CellValid},   // negative number, not the "-" token
		{"n.a.", CellValid}, // not in the token set
		{"..", CellValid},
	}

	for _, tt := range tests {
		if got := Classify(tt.cell); got != tt.want {
			t.Errorf("Classify(%q) = %s, want %s", tt.cell, got, tt.want)
		}
	}
}

// TestNormalize verifies missing-like cells unify to the empty string while
// valid cells are preserved verbatim, whitespace included.
func TestNormalize(t *testing.T) {
	tests := []struct {
		cell string
		want string
	}{
		{"", ""},
		{"  ", ""},
		{"NA", ""},
		{" null ", ""},
		{"42", "42"},
		{" 42 ", " 42 "},
		{"text", "text"},
	}

	for _, tt := range tests {
		if got := Normalize(tt.cell); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.cell, got, tt.want)
		}
	}
}

// TestParseNumeric verifies the shared numeric coercion rule.
func TestParseNumeric(t *testing.T) {
	tests := []struct {
		cell string
		want float64
		ok   bool
	}{
		{"42", 42, true},
		{" 3.5 ", 3.5, true},
		{"-1e3", -1000, true},
		{"0", 0, true},
		{"", 0, false},
		{"abc", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"-Inf", 0, false},
		{"1,000", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseNumeric(tt.cell)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseNumeric(%q) = (%v, %v), want (%v, %v)", tt.cell, got, ok, tt.want, tt.ok)
		}
	}
}
