package ports

import (
	"context"

	"tabula/domain/core"
	"tabula/domain/dataset"
)

// DatasetRepository persists finalized datasets. The core never touches
// storage; persistence is opt-in wiring around the pipeline.
type DatasetRepository interface {
	Save(ctx context.Context, ds *dataset.Dataset) error
	GetByID(ctx context.Context, id core.DatasetID) (*dataset.Dataset, error)
	ListRecent(ctx context.Context, limit int) ([]*dataset.Dataset, error)
	Delete(ctx context.Context, id core.DatasetID) error
}
