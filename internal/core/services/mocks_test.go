package services

import (
	"context"
	"sync"

	"github.com/Ogechifaith-analytics/chunckingagent/internal/core/domain"
	"github.com/Ogechifaith-analytics/chunckingagent/internal/core/ports/driven"
)

// memStore is an in-memory ObjectStore for tests.
type memStore struct {
	mu       sync.Mutex
	objects  map[string][]byte
	listErr  error
	readErr  error
	writeErr error
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (s *memStore) List(_ context.Context) ([]domain.SourceDocument, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var docs []domain.SourceDocument
	for name, data := range s.objects {
		docs = append(docs, domain.SourceDocument{Name: name, Size: int64(len(data))})
	}
	return docs, nil
}

func (s *memStore) Read(_ context.Context, name string) ([]byte, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return data, nil
}

func (s *memStore) Write(_ context.Context, name string, data []byte) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[name] = data
	return nil
}

// fakeAnalyzer returns a canned analysis result.
type fakeAnalyzer struct {
	result *driven.AnalysisResult
	err    error
}

func (a *fakeAnalyzer) Analyze(_ context.Context, _ []byte, _ string) (*driven.AnalysisResult, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.result, nil
}

// fakeLanguage returns canned annotations and records call counts.
type fakeLanguage struct {
	keyPhrases []string
	kpErr      error
	entities   []domain.Entity
	entErr     error

	mu       sync.Mutex
	kpCalls  int
	entCalls int
}

func (l *fakeLanguage) ExtractKeyPhrases(_ context.Context, _ string) ([]string, error) {
	l.mu.Lock()
	l.kpCalls++
	l.mu.Unlock()
	return l.keyPhrases, l.kpErr
}

func (l *fakeLanguage) RecognizeEntities(_ context.Context, _ string) ([]domain.Entity, error) {
	l.mu.Lock()
	l.entCalls++
	l.mu.Unlock()
	return l.entities, l.entErr
}

// fakeIndex records upserted entries and returns canned results.
type fakeIndex struct {
	results []driven.UpsertResult
	err     error
	calls   int
	got     []domain.IndexEntry
}

func (ix *fakeIndex) Upsert(_ context.Context, entries []domain.IndexEntry) ([]driven.UpsertResult, error) {
	ix.calls++
	ix.got = append(ix.got, entries...)
	if ix.err != nil {
		return nil, ix.err
	}
	if ix.results != nil {
		return ix.results, nil
	}
	results := make([]driven.UpsertResult, len(entries))
	for i, e := range entries {
		results[i] = driven.UpsertResult{Key: e.ID, Succeeded: true}
	}
	return results, nil
}

// stubProcessor returns scripted outcomes per document name.
type stubProcessor struct {
	mu       sync.Mutex
	outcomes map[string]Outcome
	errs     map[string]error
	seen     []string
}

func (p *stubProcessor) Process(_ context.Context, name string) (Outcome, error) {
	p.mu.Lock()
	p.seen = append(p.seen, name)
	p.mu.Unlock()
	if err, ok := p.errs[name]; ok {
		return OutcomeFailed, err
	}
	if outcome, ok := p.outcomes[name]; ok {
		return outcome, nil
	}
	return OutcomeProcessed, nil
}
