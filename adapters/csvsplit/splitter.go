package csvsplit

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"tabula/domain/core"
)

// Splitter tokenizes delimited text into rows of string cells using
// encoding/csv. Quoting and embedded delimiters are the csv reader's
// problem; this adapter only guarantees order preservation and a
// full-document parse.
type Splitter struct {
	comma rune
}

// NewSplitter creates a comma-delimited splitter.
func NewSplitter() *Splitter {
	return &Splitter{comma: ','}
}

// NewSplitterWithDelimiter creates a splitter for an alternate delimiter
// such as tab or semicolon.
func NewSplitterWithDelimiter(comma rune) *Splitter {
	return &Splitter{comma: comma}
}

// Split parses the entire document. Rows are allowed to have varying cell
// counts; ragged rows are a structural concern for the resolver, not a
// parse failure.
func (s *Splitter) Split(ctx context.Context, data []byte) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = s.comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrParseFailed, err)
	}
	return rows, nil
}
