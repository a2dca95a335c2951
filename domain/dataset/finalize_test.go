package dataset

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"tabula/domain/core"
	"tabula/domain/ingest"
	"tabula/domain/policy"
)

// TestBuildZeroStrategy runs the full pipeline over a tiny document with a
// global zero strategy: feature gaps become 0.0 and no rows are dropped.
func TestBuildZeroStrategy(t *testing.T) {
	rows := [][]string{
		{"a", "b"},
		{"1", ""},
		{"2", "3"},
	}
	cfg := ingest.Config{
		TargetColumn:   "a", // b is a feature, so its gap is imputable
		GlobalStrategy: policy.Zero(),
	}

	ds, err := Build(rows, 32, cfg, ingest.Limits{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := []map[string]any{
		{"a": float64(1), "b": float64(0)},
		{"a": float64(2), "b": float64(3)},
	}
	if !reflect.DeepEqual(ds.Rows, want) {
		t.Errorf("Expected %v, got %v", want, ds.Rows)
	}
	if ds.NumSamples != 2 || ds.NumFeatures != 1 {
		t.Errorf("Expected 2 samples / 1 feature, got %d/%d", ds.NumSamples, ds.NumFeatures)
	}
	if ds.Summary.DroppedRowCount != 0 || ds.Summary.DropApplied {
		t.Errorf("Expected no drops, got %+v", ds.Summary)
	}
	if ds.ID == "" || ds.CreatedAt.IsZero() {
		t.Error("Expected identity and creation time to be set")
	}
}

// TestBuildDropRowStrategy runs the same document with a global drop-row
// strategy: the gapped row disappears. The target gap is in the target
// column itself, so target drop also fires.
func TestBuildDropRowStrategy(t *testing.T) {
	rows := [][]string{
		{"a", "b"},
		{"1", ""},
		{"2", "3"},
	}
	cfg := ingest.Config{
		TargetColumn:   "b",
		GlobalStrategy: policy.DropRow(),
	}

	ds, err := Build(rows, 32, cfg, ingest.Limits{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := []map[string]any{
		{"a": float64(2), "b": float64(3)},
	}
	if !reflect.DeepEqual(ds.Rows, want) {
		t.Errorf("Expected %v, got %v", want, ds.Rows)
	}
	if ds.Summary.OriginalRowCount != 2 || ds.Summary.DroppedRowCount != 1 {
		t.Errorf("Expected 1 of 2 rows dropped, got %+v", ds.Summary)
	}
	if !ds.Summary.DropApplied || !ds.Summary.GlobalDrop || !ds.Summary.TargetDrop {
		t.Errorf("Expected drop mechanisms recorded, got %+v", ds.Summary)
	}
}

// TestBuildTargetType verifies the classification/regression inference over
// the final target values.
func TestBuildTargetType(t *testing.T) {
	binary := [][]string{{"x", "y"}}
	for i := 0; i < 10; i++ {
		binary = append(binary, []string{"1", fmt.Sprintf("%d", i%2)})
	}

	continuous := [][]string{{"x", "y"}}
	for i := 0; i < 50; i++ {
		continuous = append(continuous, []string{"1", fmt.Sprintf("%d.5", i)})
	}

	labels := [][]string{{"x", "y"}, {"1", "cat"}, {"2", "dog"}, {"3", "cat"}}

	tests := []struct {
		name        string
		rows        [][]string
		wantType    TargetType
		wantClasses int
	}{
		{"binary numeric", binary, TargetClassification, 2},
		{"continuous numeric", continuous, TargetRegression, 0},
		{"string labels", labels, TargetClassification, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := Build(tt.rows, 64, ingest.Config{}, ingest.Limits{})
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			if ds.Type != tt.wantType {
				t.Errorf("Expected %s, got %s", tt.wantType, ds.Type)
			}
			if ds.NumClasses != tt.wantClasses {
				t.Errorf("Expected %d classes, got %d", tt.wantClasses, ds.NumClasses)
			}
		})
	}
}

// TestBuildNumericEquivalenceInTarget verifies distinct target counting uses
// numeric identity for all-numeric targets, so "1" and "1.0" are one class.
func TestBuildNumericEquivalenceInTarget(t *testing.T) {
	rows := [][]string{
		{"x", "y"},
		{"a", "1"},
		{"b", "1.0"},
		{"c", "0"},
		{"d", "0"},
		{"e", "1"},
	}

	ds, err := Build(rows, 32, ingest.Config{}, ingest.Limits{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if ds.Type != TargetClassification || ds.NumClasses != 2 {
		t.Errorf("Expected classification with 2 classes, got %s/%d", ds.Type, ds.NumClasses)
	}
}

// TestBuildLimitRefusal verifies finalize refuses with a structured limit
// error while the same limits merely annotate a preview.
func TestBuildLimitRefusal(t *testing.T) {
	rows := [][]string{
		{"a", "b"},
		{"1", "2"},
		{"3", "4"},
	}
	limits := ingest.Limits{MaxRows: 2}

	_, err := Build(rows, 16, ingest.Config{}, limits)
	if !errors.Is(err, core.ErrLimitExceeded) {
		t.Fatalf("Expected ErrLimitExceeded, got %v", err)
	}

	var le *LimitError
	if !errors.As(err, &le) {
		t.Fatalf("Expected *LimitError, got %T", err)
	}
	if len(le.Violations) != 1 || le.Violations[0].Limit != "max_rows" {
		t.Errorf("Expected one max_rows violation, got %v", le.Violations)
	}
}

// TestBuildLeaveAsIsKeepsGaps verifies the default policy materializes gaps
// as empty strings in the typed records.
func TestBuildLeaveAsIsKeepsGaps(t *testing.T) {
	rows := [][]string{
		{"a", "y"},
		{"", "1"},
		{"NA", "0"},
	}

	ds, err := Build(rows, 16, ingest.Config{}, ingest.Limits{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	for i, rec := range ds.Rows {
		if rec["a"] != "" {
			t.Errorf("Row %d: expected empty string gap, got %v", i, rec["a"])
		}
	}
}

// TestBuildNumericSummaries verifies the final per-column distribution of
// all-numeric feature columns.
func TestBuildNumericSummaries(t *testing.T) {
	rows := [][]string{
		{"num", "cat", "y"},
		{"1", "red", "0"},
		{"2", "blue", "1"},
		{"3", "red", "0"},
	}

	ds, err := Build(rows, 32, ingest.Config{}, ingest.Limits{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if len(ds.NumericSummaries) != 1 {
		t.Fatalf("Expected one numeric summary, got %v", ds.NumericSummaries)
	}
	s := ds.NumericSummaries[0]
	if s.Column != "num" || s.Count != 3 {
		t.Errorf("Expected num with 3 values, got %+v", s)
	}
	if s.Min != 1 || s.Max != 3 || s.Mean != 2 || s.Median != 2 {
		t.Errorf("Unexpected aggregates: %+v", s)
	}
	if s.StdDev != 1 { // sample standard deviation of {1,2,3}
		t.Errorf("Expected stddev 1, got %v", s.StdDev)
	}
}

// TestBuildDeterministic verifies identical inputs produce identical datasets
// modulo identity and timestamp.
func TestBuildDeterministic(t *testing.T) {
	rows := [][]string{
		{"a", "b", "y"},
		{"1", "", "0"},
		{"", "x", "1"},
		{"3", "x", "0"},
	}
	cfg := ingest.Config{GlobalStrategy: policy.Mean(), ColumnStrategies: map[string]policy.Strategy{
		"b": policy.Mode(),
	}}

	first, err := Build(rows, 48, cfg, ingest.Limits{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	second, err := Build(rows, 48, cfg, ingest.Limits{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if !reflect.DeepEqual(first.Rows, second.Rows) {
		t.Error("Expected identical rows across runs")
	}
	if !reflect.DeepEqual(first.Summary, second.Summary) {
		t.Error("Expected identical summaries across runs")
	}
	if first.ID == second.ID {
		t.Error("Expected distinct dataset identities")
	}
}
