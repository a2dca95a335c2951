package ports

import "context"

// RowSplitter maps a raw document to an ordered sequence of rows, each an
// ordered sequence of string cells. Implementations must preserve row order
// and must not silently merge or drop rows on embedded delimiters or quotes.
// Both the preview and finalize paths use a full-document parse: downstream
// logic needs accurate row counts for limit checks.
type RowSplitter interface {
	Split(ctx context.Context, data []byte) ([][]string, error)
}
