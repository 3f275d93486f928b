package driving

import "context"

// IndexSummary aggregates the outcome of one reindex pass.
type IndexSummary struct {
	// Artifacts is the number of published records that parsed and
	// contributed entries.
	Artifacts int

	// SkippedArtifacts is the number of malformed records skipped.
	SkippedArtifacts int

	// Prepared is the number of index entries submitted.
	Prepared int

	// FailedIDs lists the keys the index rejected.
	FailedIDs []string
}

// Reindexer reads all published records and upserts their chunks into
// the search index. Malformed artifacts and per-entry rejections are
// logged and skipped; the returned error is only for setup-level
// problems such as being unable to list the processed container.
type Reindexer interface {
	Reindex(ctx context.Context) (*IndexSummary, error)
}
