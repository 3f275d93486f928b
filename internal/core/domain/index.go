package domain

// IndexEntry is the flattened, search-ready projection of one
// annotated chunk, as accepted by the search index.
type IndexEntry struct {
	// ID is the index key. The authoritative chunk_id from the
	// published record is used when present; older records without
	// chunk_ids fall back to a derived {document}-{page}-{position} key.
	ID string `json:"id"`

	// DocumentName is the display name of the source document,
	// without its extension.
	DocumentName string `json:"document_name"`

	// PageNumber is the page the chunk starts on, 0 when unknown.
	PageNumber int `json:"page_number"`

	// ChunkText is the searchable text. Always the redacted content;
	// unredacted text never reaches the index.
	ChunkText string `json:"chunk_text"`

	// MedicalEntities are the entity texts for the chunk. Categories
	// are dropped at this stage.
	MedicalEntities []string `json:"medical_entities"`
}
