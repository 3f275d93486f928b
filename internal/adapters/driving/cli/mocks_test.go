package cli

import (
	"context"

	"github.com/Ogechifaith-analytics/chunckingagent/internal/core/domain"
	"github.com/Ogechifaith-analytics/chunckingagent/internal/core/ports/driving"
)

// fakeRunner returns a canned batch summary.
type fakeRunner struct {
	summary *driving.BatchSummary
	err     error
}

func (r *fakeRunner) Run(_ context.Context) (*driving.BatchSummary, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.summary, nil
}

// fakeReindexer returns a canned index summary.
type fakeReindexer struct {
	summary *driving.IndexSummary
	err     error
}

func (r *fakeReindexer) Reindex(_ context.Context) (*driving.IndexSummary, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.summary, nil
}

// fakeSearcher returns canned entries.
type fakeSearcher struct {
	entries []domain.IndexEntry
	err     error
	gotTerm string
	gotLim  int
}

func (s *fakeSearcher) Search(_ context.Context, term string, limit int) ([]domain.IndexEntry, error) {
	s.gotTerm = term
	s.gotLim = limit
	if s.err != nil {
		return nil, s.err
	}
	return s.entries, nil
}

// setupTestServices installs fakes for all package-level
// collaborators and returns a cleanup restoring the previous state.
func setupTestServices(runner driving.BatchRunner, reindex driving.Reindexer, searcher chunkSearcher) func() {
	prevRunner, prevReindexer, prevSearcher := batchRunner, reindexer, localSearcher
	batchRunner, reindexer, localSearcher = runner, reindex, searcher
	return func() {
		batchRunner, reindexer, localSearcher = prevRunner, prevReindexer, prevSearcher
	}
}
