package main

// RowBatch is one chunk of extracted rows for a single table. Every row
// has exactly len(Columns) values, positionally aligned with Columns.
// The pipeline keeps at most one batch resident at a time: a batch is
// converted and loaded before the next one is pulled from the stream.
type RowBatch struct {
	Columns []string
	Rows    [][]any
}

// NumRows returns the number of rows in the batch.
func (b *RowBatch) NumRows() int {
	if b == nil {
		return 0
	}
	return len(b.Rows)
}
