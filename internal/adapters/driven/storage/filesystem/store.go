// Package filesystem provides an object store backed by a local
// directory per container. It lets the whole pipeline run without a
// storage account: documents are read from and artifacts written to
// plain files.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Ogechifaith-analytics/chunckingagent/internal/core/domain"
	"github.com/Ogechifaith-analytics/chunckingagent/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ObjectStore = (*Store)(nil)

// Store is a directory-backed object store. Object names map to file
// names directly; nested directories are not listed.
type Store struct {
	dir string
}

// NewStore creates a store rooted at root/container, creating the
// directory if needed.
func NewStore(root, container string) (*Store, error) {
	dir := filepath.Join(root, container)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating container directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory backing the store.
func (s *Store) Dir() string {
	return s.dir
}

// List returns the regular files in the container directory.
func (s *Store) List(ctx context.Context) ([]domain.SourceDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading container directory: %w", err)
	}

	var docs []domain.SourceDocument
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", entry.Name(), err)
		}
		docs = append(docs, domain.SourceDocument{
			Name: entry.Name(),
			Size: info.Size(),
		})
	}
	return docs, nil
}

// Read returns the content of the named object.
func (s *Store) Read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.dir, filepath.Base(name)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

// Write stores an object, replacing any existing file of that name.
func (s *Store) Write(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(s.dir, filepath.Base(name)), data, 0600); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
