package driven

import "github.com/Ogechifaith-analytics/chunckingagent/internal/core/domain"

// TextSplitter splits extracted text into bounded, overlapping chunks.
// Empty or whitespace-only input yields no chunks.
type TextSplitter interface {
	Split(text string) []domain.Chunk
}
