package driving

import "context"

// BatchSummary aggregates the outcome of one processing batch.
type BatchSummary struct {
	// Attempted is the number of matching documents the batch tried
	// to process.
	Attempted int

	// Processed is the number of documents that published a record.
	Processed int

	// Skipped is the number of documents with no extractable text.
	Skipped int

	// Failed is the number of documents that errored.
	Failed int
}

// Empty reports whether the source container held no matching
// documents at all, which is distinct from every document failing.
func (s *BatchSummary) Empty() bool {
	return s.Attempted == 0
}

// BatchRunner drives the document processor over every matching item
// in the source container. Failures are isolated per document; the
// returned error is only for setup-level problems such as being
// unable to list the source container.
type BatchRunner interface {
	Run(ctx context.Context) (*BatchSummary, error)
}
