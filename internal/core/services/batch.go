package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Ogechifaith-analytics/chunckingagent/internal/core/ports/driven"
	"github.com/Ogechifaith-analytics/chunckingagent/internal/core/ports/driving"
	"github.com/Ogechifaith-analytics/chunckingagent/internal/logger"
)

// acceptedExtension filters the source container to the one file type
// the pipeline handles.
const acceptedExtension = ".pdf"

// documentProcessor is the slice of DocumentProcessor the runner
// needs. Narrowed to an interface for testing.
type documentProcessor interface {
	Process(ctx context.Context, name string) (Outcome, error)
}

// Ensure BatchRunner implements the interface.
var _ driving.BatchRunner = (*BatchRunner)(nil)

// BatchRunner enumerates the source container and drives the document
// processor over each matching item. Documents are independent units
// of work: one document's failure never affects another.
type BatchRunner struct {
	source    driven.ObjectStore
	processor documentProcessor
	workers   int
}

// NewBatchRunner creates a runner. workers bounds document-level
// parallelism; 1 processes documents strictly one after another.
func NewBatchRunner(source driven.ObjectStore, processor documentProcessor, workers int) *BatchRunner {
	if workers < 1 {
		workers = 1
	}
	return &BatchRunner{source: source, processor: processor, workers: workers}
}

// Run processes every matching document and aggregates counts. The
// returned error covers setup problems only, such as being unable to
// list the source container.
func (r *BatchRunner) Run(ctx context.Context) (*driving.BatchSummary, error) {
	docs, err := r.source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list source container: %w", err)
	}

	var names []string
	for _, doc := range docs {
		if !strings.HasSuffix(strings.ToLower(doc.Name), acceptedExtension) {
			logger.Info("skipping non-PDF file: %s", doc.Name)
			continue
		}
		names = append(names, doc.Name)
	}

	summary := &driving.BatchSummary{Attempted: len(names)}
	if len(names) == 0 {
		logger.Info("no PDF documents found in the source container")
		return summary, nil
	}

	var mu sync.Mutex
	record := func(outcome Outcome, name string, err error) {
		mu.Lock()
		defer mu.Unlock()
		switch outcome {
		case OutcomeProcessed:
			summary.Processed++
		case OutcomeSkipped:
			summary.Skipped++
		case OutcomeFailed:
			summary.Failed++
			logger.Error("could not process %s: %v", name, err)
		}
	}

	if r.workers == 1 {
		for i, name := range names {
			logger.Info("processing document %d/%d: %s", i+1, len(names), name)
			outcome, err := r.processor.Process(ctx, name)
			record(outcome, name, err)
		}
	} else {
		g := new(errgroup.Group)
		g.SetLimit(r.workers)
		for _, name := range names {
			g.Go(func() error {
				logger.Info("processing document: %s", name)
				outcome, err := r.processor.Process(ctx, name)
				record(outcome, name, err)
				return nil
			})
		}
		// Workers never return errors: failures are recorded per
		// document so the batch always runs to completion.
		_ = g.Wait()
	}

	logger.Info("finished processing %d/%d documents (%d skipped, %d failed)",
		summary.Processed, summary.Attempted, summary.Skipped, summary.Failed)
	return summary, nil
}
