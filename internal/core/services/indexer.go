package services

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/Ogechifaith-analytics/chunckingagent/internal/core/domain"
	"github.com/Ogechifaith-analytics/chunckingagent/internal/core/ports/driven"
	"github.com/Ogechifaith-analytics/chunckingagent/internal/core/ports/driving"
	"github.com/Ogechifaith-analytics/chunckingagent/internal/logger"
)

// Ensure Indexer implements the interface.
var _ driving.Reindexer = (*Indexer)(nil)

// Indexer reads published records from the processed container and
// upserts their chunks into the search index. Malformed artifacts are
// skipped, and per-entry rejections from the index never roll back
// the rest of the batch.
type Indexer struct {
	processed driven.ObjectStore
	index     driven.SearchIndex
}

// NewIndexer creates an indexer with injected collaborators.
func NewIndexer(processed driven.ObjectStore, index driven.SearchIndex) *Indexer {
	return &Indexer{processed: processed, index: index}
}

// Reindex runs one full pass over the processed container. The
// returned error covers setup problems only: listing failures and a
// wholesale rejection of the upsert call.
func (ix *Indexer) Reindex(ctx context.Context) (*driving.IndexSummary, error) {
	objects, err := ix.processed.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list processed container: %w", err)
	}
	logger.Debug("found %d objects in the processed container", len(objects))

	summary := &driving.IndexSummary{}
	var entries []domain.IndexEntry

	for _, obj := range objects {
		if !strings.HasSuffix(obj.Name, ".json") {
			continue
		}

		prepared, err := ix.prepareArtifact(ctx, obj.Name)
		if err != nil {
			logger.Warn("skipping artifact %s: %v", obj.Name, err)
			summary.SkippedArtifacts++
			continue
		}

		logger.Info("prepared %d chunks from %s for upload", len(prepared), obj.Name)
		summary.Artifacts++
		entries = append(entries, prepared...)
	}

	summary.Prepared = len(entries)
	if len(entries) == 0 {
		logger.Info("no documents to upload to the search index")
		return summary, nil
	}

	results, err := ix.index.Upsert(ctx, entries)
	if err != nil {
		return nil, fmt.Errorf("upsert %d entries: %w", len(entries), err)
	}

	for _, res := range results {
		if !res.Succeeded {
			logger.Error("failed to upload document %s: %s", res.Key, res.ErrorMessage)
			summary.FailedIDs = append(summary.FailedIDs, res.Key)
		}
	}

	logger.Info("uploaded %d documents to the search index (%d failed)",
		summary.Prepared-len(summary.FailedIDs), len(summary.FailedIDs))
	return summary, nil
}

// prepareArtifact parses one published record into index entries.
func (ix *Indexer) prepareArtifact(ctx context.Context, artifactName string) ([]domain.IndexEntry, error) {
	data, err := ix.processed.Read(ctx, artifactName)
	if err != nil {
		return nil, err
	}

	var record domain.ProcessedRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedRecord, err)
	}
	if len(record.Chunks) == 0 {
		return nil, fmt.Errorf("%w: no 'chunks' found", domain.ErrMalformedRecord)
	}

	displayName := displayNameFor(&record, artifactName)

	entries := make([]domain.IndexEntry, 0, len(record.Chunks))
	for i, chunk := range record.Chunks {
		id := chunk.ChunkID
		if id == "" {
			// Records published before chunk IDs were introduced:
			// derive the legacy {document}-{page}-{position} key.
			id = fmt.Sprintf("%s-%d-%d", domain.DocumentStem(displayName), chunk.Page, i)
		}

		entities := make([]string, 0, len(chunk.Entities))
		for _, e := range chunk.Entities {
			if e.Text != "" {
				entities = append(entities, e.Text)
			}
		}

		entries = append(entries, domain.IndexEntry{
			ID:              id,
			DocumentName:    displayName,
			PageNumber:      chunk.Page,
			ChunkText:       chunk.RedactedContent,
			MedicalEntities: entities,
		})
	}
	return entries, nil
}

// displayNameFor derives the human-readable document name for index
// entries: the record's document name without extension, falling back
// to the artifact name minus its suffix.
func displayNameFor(record *domain.ProcessedRecord, artifactName string) string {
	if record.DocumentName != "" {
		return strings.TrimSuffix(record.DocumentName, path.Ext(record.DocumentName))
	}
	return domain.DisplayName(artifactName)
}
