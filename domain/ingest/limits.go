package ingest

import "fmt"

// Limits is the dataset size config surface enforced before a final dataset
// is accepted. Zero means unlimited.
type Limits struct {
	MaxFileBytes int64 `json:"max_file_bytes"`
	MaxRows      int   `json:"max_rows"`
	MaxColumns   int   `json:"max_columns"`
}

// LimitViolation is one structured limit failure. Previews may still render
// while violations are outstanding; finalize must refuse.
type LimitViolation struct {
	Limit   string `json:"limit"`
	Message string `json:"message"`
}

// Check evaluates all limits against the full document, never a preview
// window. Row count excludes skipped and header rows only when dataRows
// is known; callers pass the total raw row count.
func (l Limits) Check(byteSize int64, rowCount, colCount int) []LimitViolation {
	var violations []LimitViolation

	if l.MaxFileBytes > 0 && byteSize > l.MaxFileBytes {
		violations = append(violations, LimitViolation{
			Limit:   "max_file_bytes",
			Message: fmt.Sprintf("file size %d bytes exceeds maximum %d bytes", byteSize, l.MaxFileBytes),
		})
	}
	if l.MaxRows > 0 && rowCount > l.MaxRows {
		violations = append(violations, LimitViolation{
			Limit:   "max_rows",
			Message: fmt.Sprintf("row count %d exceeds maximum %d", rowCount, l.MaxRows),
		})
	}
	if l.MaxColumns > 0 && colCount > l.MaxColumns {
		violations = append(violations, LimitViolation{
			Limit:   "max_columns",
			Message: fmt.Sprintf("column count %d exceeds maximum %d", colCount, l.MaxColumns),
		})
	}
	return violations
}
