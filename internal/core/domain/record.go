package domain

import (
	"fmt"
	"path"
	"strings"
)

// ArtifactSuffix is appended to a document stem to name its published
// record in the processed container.
const ArtifactSuffix = "_chunks.json"

// ProcessedRecord is the published artifact for one source document:
// the ordered sequence of annotated chunks. It is fully overwritten on
// re-run; there is no incremental update.
type ProcessedRecord struct {
	// DocumentName is the source document name as listed in the
	// source container.
	DocumentName string `json:"document_name"`

	// Chunks are the annotated chunks in position order.
	Chunks []AnnotatedChunk `json:"chunks"`
}

// DocumentStem returns the document name without its extension and
// with spaces replaced by underscores. Slashes are also replaced so
// the stem is safe as an object or file name.
func DocumentStem(name string) string {
	stem := strings.TrimSuffix(name, path.Ext(name))
	stem = strings.ReplaceAll(stem, " ", "_")
	stem = strings.ReplaceAll(stem, "/", "_")
	return stem
}

// ChunkID derives the stable chunk identity from the document name and
// the chunk's position. Deterministic: the same name and position
// always produce the same ID, which makes index upserts idempotent.
func ChunkID(documentName string, position int) string {
	return fmt.Sprintf("%s_chunk_%03d", DocumentStem(documentName), position)
}

// ArtifactName returns the published record name for a document.
func ArtifactName(documentName string) string {
	return DocumentStem(documentName) + ArtifactSuffix
}

// DisplayName strips the artifact suffix from a published record name,
// recovering the document stem for index entries.
func DisplayName(artifactName string) string {
	return strings.TrimSuffix(artifactName, ArtifactSuffix)
}
