// Package sqlite provides a local search index in a SQLite file, used
// when no search service endpoint is configured. It gives the pipeline
// a fully offline end-to-end path.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/Ogechifaith-analytics/chunckingagent/internal/core/domain"
	"github.com/Ogechifaith-analytics/chunckingagent/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.SearchIndex = (*Index)(nil)

// Index is a SQLite-backed search index.
type Index struct {
	db   *sql.DB
	path string
}

// NewIndex opens (or creates) the index database at path. If path is
// empty, defaults to ~/.medpipe/index.db.
func NewIndex(path string) (*Index, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".medpipe", "index.db")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening index database: %w", err)
	}

	ix := &Index{db: db, path: path}
	if err := ix.bootstrap(); err != nil {
		db.Close()
		return nil, err
	}
	return ix, nil
}

// Close closes the database connection.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// Path returns the database file path.
func (ix *Index) Path() string {
	return ix.path
}

// bootstrap creates the schema.
func (ix *Index) bootstrap() error {
	_, err := ix.db.Exec(`
		CREATE TABLE IF NOT EXISTS chunks (
			id TEXT PRIMARY KEY,
			document_name TEXT NOT NULL,
			page_number INTEGER NOT NULL,
			chunk_text TEXT NOT NULL,
			medical_entities TEXT NOT NULL DEFAULT '[]',
			indexed_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating chunks table: %w", err)
	}
	return nil
}

// Upsert inserts or replaces entries by id. A per-entry failure is
// reported in its result and does not abort the batch.
func (ix *Index) Upsert(ctx context.Context, entries []domain.IndexEntry) ([]driven.UpsertResult, error) {
	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_name, page_number, chunk_text, medical_entities)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document_name = excluded.document_name,
			page_number = excluded.page_number,
			chunk_text = excluded.chunk_text,
			medical_entities = excluded.medical_entities,
			indexed_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return nil, fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	results := make([]driven.UpsertResult, len(entries))
	for i, entry := range entries {
		results[i] = driven.UpsertResult{Key: entry.ID, Succeeded: true}

		entities, err := json.Marshal(entry.MedicalEntities)
		if err != nil {
			results[i].Succeeded = false
			results[i].ErrorMessage = err.Error()
			continue
		}
		if _, err := stmt.ExecContext(ctx, entry.ID, entry.DocumentName, entry.PageNumber,
			entry.ChunkText, string(entities)); err != nil {
			results[i].Succeeded = false
			results[i].ErrorMessage = err.Error()
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing upsert: %w", err)
	}
	return results, nil
}

// Search returns up to limit entries whose text matches the term,
// newest first. Matching is a case-insensitive substring scan.
func (ix *Index) Search(ctx context.Context, term string, limit int) ([]domain.IndexEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := ix.db.QueryContext(ctx, `
		SELECT id, document_name, page_number, chunk_text, medical_entities
		FROM chunks
		WHERE chunk_text LIKE '%' || ? || '%' OR medical_entities LIKE '%' || ? || '%'
		ORDER BY indexed_at DESC, id
		LIMIT ?
	`, term, term, limit)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var entries []domain.IndexEntry
	for rows.Next() {
		var entry domain.IndexEntry
		var entities string
		if err := rows.Scan(&entry.ID, &entry.DocumentName, &entry.PageNumber,
			&entry.ChunkText, &entities); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if err := json.Unmarshal([]byte(entities), &entry.MedicalEntities); err != nil {
			return nil, fmt.Errorf("parsing entities for %s: %w", entry.ID, err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
