package driven

import (
	"context"

	"github.com/Ogechifaith-analytics/chunckingagent/internal/core/domain"
)

// UpsertResult reports the outcome for one entry in an upsert batch.
type UpsertResult struct {
	// Key is the index key of the entry.
	Key string

	// Succeeded is true when the entry was accepted.
	Succeeded bool

	// ErrorMessage describes the rejection when Succeeded is false.
	ErrorMessage string
}

// SearchIndex stores search-ready entries keyed by identifier.
// Upsert is insert-or-overwrite: submitting the same key again
// replaces the prior entry. A per-entry failure does not roll back
// the rest of the batch.
type SearchIndex interface {
	Upsert(ctx context.Context, entries []domain.IndexEntry) ([]UpsertResult, error)
}
