package cli

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/Ogechifaith-analytics/chunckingagent/internal/adapters/driven/analysis/docintel"
	"github.com/Ogechifaith-analytics/chunckingagent/internal/adapters/driven/analysis/local"
	"github.com/Ogechifaith-analytics/chunckingagent/internal/adapters/driven/language/textanalytics"
	"github.com/Ogechifaith-analytics/chunckingagent/internal/adapters/driven/search/azsearch"
	sqliteindex "github.com/Ogechifaith-analytics/chunckingagent/internal/adapters/driven/search/sqlite"
	"github.com/Ogechifaith-analytics/chunckingagent/internal/adapters/driven/storage/azureblob"
	"github.com/Ogechifaith-analytics/chunckingagent/internal/adapters/driven/storage/filesystem"
	"github.com/Ogechifaith-analytics/chunckingagent/internal/chunker"
	"github.com/Ogechifaith-analytics/chunckingagent/internal/config"
	"github.com/Ogechifaith-analytics/chunckingagent/internal/core/domain"
	"github.com/Ogechifaith-analytics/chunckingagent/internal/core/ports/driven"
	"github.com/Ogechifaith-analytics/chunckingagent/internal/core/ports/driving"
	"github.com/Ogechifaith-analytics/chunckingagent/internal/core/services"
	"github.com/Ogechifaith-analytics/chunckingagent/internal/logger"
	"github.com/Ogechifaith-analytics/chunckingagent/internal/redact"
)

// languageCallsPerSecond throttles language service requests across
// all workers, staying under the service's request quota.
const languageCallsPerSecond = 5

// chunkSearcher is the local-index query surface used by the search
// command. The remote index does not implement it.
type chunkSearcher interface {
	Search(ctx context.Context, term string, limit int) ([]domain.IndexEntry, error)
}

// Package-level collaborators, built by the bootstrap functions and
// replaceable in tests.
var (
	batchRunner   driving.BatchRunner
	reindexer     driving.Reindexer
	docProcessor  *services.DocumentProcessor
	localSearcher chunkSearcher

	// watchDir is non-empty in filesystem mode and names the
	// directory the watch flag observes.
	watchDir string
)

// bootstrapPipeline builds the batch runner and document processor.
// No-op when a runner is already set.
func bootstrapPipeline() error {
	if batchRunner != nil {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	source, err := newObjectStore(cfg, cfg.SourceContainer, true)
	if err != nil {
		return fmt.Errorf("source store: %w", err)
	}
	processed, err := newObjectStore(cfg, cfg.ProcessedContainer, false)
	if err != nil {
		return fmt.Errorf("processed store: %w", err)
	}

	var analyzer driven.DocumentAnalyzer
	if cfg.DocIntelEndpoint != "" {
		analyzer = docintel.NewClient(cfg.DocIntelEndpoint, cfg.DocIntelKey)
	} else {
		logger.Info("no document intelligence endpoint configured, extracting text locally")
		analyzer = local.NewExtractor(cfg.UnidocLicenseKey)
	}

	annotator := services.NewAnnotator(nil, nil)
	var language *textanalytics.Client
	if cfg.LanguageEndpoint != "" {
		language = textanalytics.NewClient(cfg.LanguageEndpoint, cfg.LanguageKey)
		limiter := rate.NewLimiter(rate.Limit(languageCallsPerSecond), languageCallsPerSecond)
		annotator = services.NewAnnotator(language, limiter)
	} else {
		logger.Info("no language service endpoint configured, annotation disabled")
	}

	var redactor driven.Redactor = redact.NewPattern()
	if cfg.PIIDetection {
		redactor = redact.NewService(redactor, language)
	}

	splitter := chunker.New(
		chunker.WithMaxSize(cfg.ChunkSize),
		chunker.WithOverlap(cfg.ChunkOverlap),
	)

	docProcessor = services.NewDocumentProcessor(source, processed, analyzer, splitter, redactor, annotator)
	batchRunner = services.NewBatchRunner(source, docProcessor, cfg.Workers)
	return nil
}

// bootstrapIndexer builds the reindexer. No-op when one is already set.
func bootstrapIndexer() error {
	if reindexer != nil {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	processed, err := newObjectStore(cfg, cfg.ProcessedContainer, false)
	if err != nil {
		return fmt.Errorf("processed store: %w", err)
	}

	var index driven.SearchIndex
	if cfg.SearchEndpoint != "" {
		index = azsearch.NewClient(cfg.SearchEndpoint, cfg.SearchAPIKey, cfg.SearchIndexName)
	} else {
		logger.Info("no search endpoint configured, using the local index")
		local, err := sqliteindex.NewIndex(cfg.IndexPath)
		if err != nil {
			return fmt.Errorf("local index: %w", err)
		}
		index = local
		localSearcher = local
	}

	reindexer = services.NewIndexer(processed, index)
	return nil
}

// bootstrapSearcher builds the local index query surface. Fails when
// a remote search endpoint is configured: querying that belongs to
// the search service, not this tool.
func bootstrapSearcher() error {
	if localSearcher != nil {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.SearchEndpoint != "" {
		return fmt.Errorf("the search command only queries the local index; use the search service for %s", cfg.SearchEndpoint)
	}

	local, err := sqliteindex.NewIndex(cfg.IndexPath)
	if err != nil {
		return fmt.Errorf("local index: %w", err)
	}
	localSearcher = local
	return nil
}

// newObjectStore selects the storage backend for one container.
// source marks the container whose directory watch mode observes.
func newObjectStore(cfg *config.Config, container string, source bool) (driven.ObjectStore, error) {
	if cfg.ConnectionString != "" {
		return azureblob.NewStore(cfg.ConnectionString, container)
	}
	store, err := filesystem.NewStore(cfg.DataDir, container)
	if err != nil {
		return nil, err
	}
	if source {
		watchDir = store.Dir()
	}
	return store, nil
}
