package driven

import (
	"context"

	"github.com/Ogechifaith-analytics/chunckingagent/internal/core/domain"
)

// ObjectStore provides access to one named collection of objects
// (an Azure blob container, or a directory in filesystem mode).
// Writes overwrite: re-running the pipeline on the same document
// replaces its prior artifact in place.
type ObjectStore interface {
	// List returns the objects in the container.
	List(ctx context.Context) ([]domain.SourceDocument, error)

	// Read returns the full content of an object.
	// Returns domain.ErrNotFound if the object does not exist.
	Read(ctx context.Context, name string) ([]byte, error)

	// Write stores an object, overwriting any existing content.
	Write(ctx context.Context, name string, data []byte) error
}
