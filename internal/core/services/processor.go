package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"path"
	"strings"

	"github.com/Ogechifaith-analytics/chunckingagent/internal/core/domain"
	"github.com/Ogechifaith-analytics/chunckingagent/internal/core/ports/driven"
	"github.com/Ogechifaith-analytics/chunckingagent/internal/logger"
)

// Outcome classifies the result of processing one document.
type Outcome int

const (
	// OutcomeProcessed means a record was published.
	OutcomeProcessed Outcome = iota

	// OutcomeSkipped means the document had no extractable text and
	// was omitted from output. Not an error.
	OutcomeSkipped

	// OutcomeFailed means processing errored. The batch continues
	// with the next document.
	OutcomeFailed
)

// DocumentProcessor runs one document end to end: fetch, analyze,
// chunk, redact, annotate, serialize, publish.
type DocumentProcessor struct {
	source    driven.ObjectStore
	processed driven.ObjectStore
	analyzer  driven.DocumentAnalyzer
	splitter  driven.TextSplitter
	redactor  driven.Redactor
	annotator *Annotator
}

// NewDocumentProcessor creates a processor with injected
// collaborators.
func NewDocumentProcessor(
	source driven.ObjectStore,
	processed driven.ObjectStore,
	analyzer driven.DocumentAnalyzer,
	splitter driven.TextSplitter,
	redactor driven.Redactor,
	annotator *Annotator,
) *DocumentProcessor {
	return &DocumentProcessor{
		source:    source,
		processed: processed,
		analyzer:  analyzer,
		splitter:  splitter,
		redactor:  redactor,
		annotator: annotator,
	}
}

// Process handles one source document. A per-chunk annotation failure
// never affects sibling chunks; any other failure fails only this
// document.
func (p *DocumentProcessor) Process(ctx context.Context, name string) (Outcome, error) {
	logger.Debug("downloading %s", name)
	data, err := p.source.Read(ctx, name)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("download %s: %w", name, err)
	}
	logger.Debug("downloaded %s: %d bytes", name, len(data))

	result, err := p.analyzer.Analyze(ctx, data, contentTypeFor(name))
	if err != nil {
		return OutcomeFailed, fmt.Errorf("analyze %s: %w", name, err)
	}

	if strings.TrimSpace(result.Content) == "" {
		logger.Info("no text content extracted for %s, skipping", name)
		return OutcomeSkipped, nil
	}
	logger.Debug("extracted %d characters from %s", len(result.Content), name)

	chunks := p.splitter.Split(result.Content)
	if len(chunks) == 0 {
		logger.Info("no chunks produced for %s, skipping", name)
		return OutcomeSkipped, nil
	}
	logger.Info("created %d chunks for %s", len(chunks), name)

	annotated := make([]domain.AnnotatedChunk, 0, len(chunks))
	for _, chunk := range chunks {
		annotated = append(annotated, p.annotateChunk(ctx, name, chunk, result))
	}

	record := domain.ProcessedRecord{
		DocumentName: name,
		Chunks:       annotated,
	}
	payload, err := marshalRecord(&record)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("serialize record for %s: %w", name, err)
	}

	artifact := domain.ArtifactName(name)
	if err := p.processed.Write(ctx, artifact, payload); err != nil {
		return OutcomeFailed, fmt.Errorf("publish %s: %w", artifact, err)
	}

	logger.Info("published %s (%d chunks)", artifact, len(annotated))
	return OutcomeProcessed, nil
}

// annotateChunk redacts one chunk and attaches its annotations and
// identity. Annotation failures surface as empty fields, never as
// errors.
func (p *DocumentProcessor) annotateChunk(
	ctx context.Context,
	name string,
	chunk domain.Chunk,
	result *driven.AnalysisResult,
) domain.AnnotatedChunk {
	chunkID := domain.ChunkID(name, chunk.Position)
	redacted := p.redactor.Redact(chunk.Text)

	keyPhrases, entities := p.annotator.Annotate(ctx, chunkID, redacted)
	if keyPhrases == nil {
		keyPhrases = []string{}
	}
	if entities == nil {
		entities = []domain.Entity{}
	}

	return domain.AnnotatedChunk{
		ChunkID:         chunkID,
		SourceDocument:  name,
		Page:            result.PageFor(chunk.StartOffset),
		OriginalContent: chunk.Text,
		RedactedContent: redacted,
		KeyPhrases:      keyPhrases,
		Entities:        entities,
		Metadata: map[string]any{
			"position":     chunk.Position,
			"start_offset": chunk.StartOffset,
		},
	}
}

// marshalRecord serializes a record as indented UTF-8 JSON with
// non-ASCII characters preserved.
func marshalRecord(record *domain.ProcessedRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(record); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// contentTypeFor maps a document name to the content type sent to the
// analysis service.
func contentTypeFor(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
