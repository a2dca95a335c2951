package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"tabula/domain/core"
	"tabula/domain/dataset"
	"tabula/ports"
)

// datasetRepository implements ports.DatasetRepository on PostgreSQL. Rows
// and provenance are stored as JSONB documents: a finalized dataset is an
// immutable snapshot, never queried cell-by-cell.
type datasetRepository struct {
	db *sqlx.DB
}

// NewDatasetRepository creates a new dataset repository
func NewDatasetRepository(db *sqlx.DB) ports.DatasetRepository {
	return &datasetRepository{db: db}
}

// Migrate creates the datasets table when missing.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	schema := `CREATE TABLE IF NOT EXISTS datasets (
		id TEXT PRIMARY KEY,
		target_column TEXT NOT NULL,
		target_type TEXT NOT NULL,
		num_samples INT NOT NULL,
		num_features INT NOT NULL,
		num_classes INT NOT NULL DEFAULT 0,
		skip_rows INT NOT NULL,
		header_row INT NOT NULL,
		features JSONB NOT NULL,
		rows JSONB NOT NULL,
		summary JSONB NOT NULL,
		numeric_summaries JSONB,
		created_at TIMESTAMPTZ NOT NULL
	)`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate datasets table: %w", err)
	}
	return nil
}

// Save inserts a finalized dataset.
func (r *datasetRepository) Save(ctx context.Context, ds *dataset.Dataset) error {
	featuresJSON, err := json.Marshal(ds.Features)
	if err != nil {
		return fmt.Errorf("failed to marshal features: %w", err)
	}
	rowsJSON, err := json.Marshal(ds.Rows)
	if err != nil {
		return fmt.Errorf("failed to marshal rows: %w", err)
	}
	summaryJSON, err := json.Marshal(ds.Summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	numericJSON, err := json.Marshal(ds.NumericSummaries)
	if err != nil {
		return fmt.Errorf("failed to marshal numeric summaries: %w", err)
	}

	query := `INSERT INTO datasets (
		id, target_column, target_type, num_samples, num_features, num_classes,
		skip_rows, header_row, features, rows, summary, numeric_summaries, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err = r.db.ExecContext(ctx, query,
		ds.ID, ds.Target, ds.Type, ds.NumSamples, ds.NumFeatures, ds.NumClasses,
		ds.SkipRows, ds.HeaderRow, featuresJSON, rowsJSON, summaryJSON, numericJSON,
		ds.CreatedAt.Time(),
	)
	if err != nil {
		return fmt.Errorf("failed to save dataset: %w", err)
	}
	return nil
}

// GetByID retrieves a dataset by its ID
func (r *datasetRepository) GetByID(ctx context.Context, id core.DatasetID) (*dataset.Dataset, error) {
	query := `SELECT
		id, target_column, target_type, num_samples, num_features, num_classes,
		skip_rows, header_row, features, rows, summary, COALESCE(numeric_summaries, 'null') AS numeric_summaries, created_at
	FROM datasets WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)
	ds, err := scanDataset(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: dataset %s", core.ErrNoDatasetYet, id)
	}
	return ds, err
}

// ListRecent returns the most recently finalized datasets.
func (r *datasetRepository) ListRecent(ctx context.Context, limit int) ([]*dataset.Dataset, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `SELECT
		id, target_column, target_type, num_samples, num_features, num_classes,
		skip_rows, header_row, features, rows, summary, COALESCE(numeric_summaries, 'null') AS numeric_summaries, created_at
	FROM datasets ORDER BY created_at DESC LIMIT $1`

	sqlRows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	defer sqlRows.Close()

	var out []*dataset.Dataset
	for sqlRows.Next() {
		ds, err := scanDataset(sqlRows)
		if err != nil {
			return nil, err
		}
		out = append(out, ds)
	}
	return out, sqlRows.Err()
}

// Delete removes a persisted dataset.
func (r *datasetRepository) Delete(ctx context.Context, id core.DatasetID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM datasets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete dataset %s: %w", id, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDataset(row rowScanner) (*dataset.Dataset, error) {
	var ds dataset.Dataset
	var featuresJSON, rowsJSON, summaryJSON, numericJSON []byte
	var createdAt time.Time

	err := row.Scan(
		&ds.ID, &ds.Target, &ds.Type, &ds.NumSamples, &ds.NumFeatures, &ds.NumClasses,
		&ds.SkipRows, &ds.HeaderRow, &featuresJSON, &rowsJSON, &summaryJSON, &numericJSON,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}
	ds.CreatedAt = core.NewTimestamp(createdAt)

	if err := json.Unmarshal(featuresJSON, &ds.Features); err != nil {
		return nil, fmt.Errorf("failed to unmarshal features: %w", err)
	}
	if err := json.Unmarshal(rowsJSON, &ds.Rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rows: %w", err)
	}
	if err := json.Unmarshal(summaryJSON, &ds.Summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal summary: %w", err)
	}
	if err := json.Unmarshal(numericJSON, &ds.NumericSummaries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal numeric summaries: %w", err)
	}
	return &ds, nil
}
