package domain

// SourceDocument identifies an item in the source container.
// The pipeline never mutates source documents; content is fetched
// on demand through the object store.
type SourceDocument struct {
	// Name is the object name, unique within the source container.
	Name string

	// Size is the content length in bytes, when the store reports it.
	Size int64
}

// Chunk is a bounded, possibly overlapping slice of a document's
// extracted text.
type Chunk struct {
	// Text is the chunk content, including any overlap carried from
	// the preceding chunk.
	Text string

	// Position is the zero-based ordinal of the chunk within its
	// document. Strictly increasing.
	Position int

	// StartOffset is the offset in the extracted text where this
	// chunk's non-overlap content begins. Used for page attribution.
	StartOffset int
}

// Entity is a named entity recognised in a chunk.
type Entity struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

// AnnotatedChunk is a chunk enriched with redaction and derived
// annotations, ready for publication.
type AnnotatedChunk struct {
	// ChunkID is the stable identity of the chunk, derived from the
	// document name and chunk position. See ChunkID.
	ChunkID string `json:"chunk_id"`

	// SourceDocument is the originating document name.
	SourceDocument string `json:"source_document"`

	// Page is the 1-based page the chunk starts on, 0 when unknown.
	Page int `json:"page"`

	// OriginalContent is the chunk text before redaction.
	OriginalContent string `json:"original_chunk_content"`

	// RedactedContent is the chunk text after redaction. Annotations
	// are derived from this field, never from OriginalContent.
	RedactedContent string `json:"redacted_chunk_content"`

	// KeyPhrases are extracted key phrases, possibly empty.
	KeyPhrases []string `json:"key_phrases"`

	// Entities are recognised entities, possibly empty.
	Entities []Entity `json:"entities"`

	// Metadata carries free-form positional metadata.
	Metadata map[string]any `json:"metadata"`
}
