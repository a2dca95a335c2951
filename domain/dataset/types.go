package dataset

import (
	"tabula/domain/core"
	"tabula/domain/impute"
)

// TargetType tags the inferred learning task for the target column.
type TargetType string

const (
	TargetClassification TargetType = "classification"
	TargetRegression     TargetType = "regression"
)

// ImputationSummary is the provenance record packaged with every finalized
// dataset: how many rows came in, how many were dropped, and which drop
// mechanisms fired.
type ImputationSummary struct {
	OriginalRowCount int      `json:"original_row_count"`
	DroppedRowCount  int      `json:"dropped_row_count"`
	DropApplied      bool     `json:"drop_applied"`
	DropColumns      []string `json:"drop_columns,omitempty"`
	GlobalDrop       bool     `json:"global_drop"`
	TargetDrop       bool     `json:"target_drop"`

	// Replacements records the substitute used per imputed column.
	Replacements map[string]impute.Replacement `json:"replacements,omitempty"`
}

// NumericSummary describes the final distribution of one numeric feature
// column. Display metadata only; never authoritative for imputation.
type NumericSummary struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
}

// Dataset is the final artifact of a confirmed ingestion and the sole
// handoff to model-training code. It is constructed once, immutable
// thereafter, and replaced wholesale by a new ingestion.
type Dataset struct {
	ID        core.DatasetID `json:"id"`
	CreatedAt core.Timestamp `json:"created_at"`

	// Rows are ordered records mapping resolved column name to a typed
	// value: float64 when the cell parses as a number, string otherwise.
	// Only feature and target columns are materialized.
	Rows []map[string]any `json:"rows"`

	Features []string   `json:"features"`
	Target   string     `json:"target"`
	Type     TargetType `json:"target_type"`

	NumSamples  int `json:"num_samples"`
	NumFeatures int `json:"num_features"`
	// NumClasses is set only for classification targets.
	NumClasses int `json:"num_classes,omitempty"`

	SkipRows  int `json:"skip_rows"`
	HeaderRow int `json:"header_row"`

	Summary          ImputationSummary `json:"imputation_summary"`
	NumericSummaries []NumericSummary  `json:"numeric_summaries,omitempty"`
}
