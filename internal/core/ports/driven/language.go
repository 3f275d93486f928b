package driven

import (
	"context"

	"github.com/Ogechifaith-analytics/chunckingagent/internal/core/domain"
)

// LanguageService extracts key phrases and named entities from text.
// The two operations may fail independently; callers absorb failures
// per chunk rather than propagating them.
type LanguageService interface {
	ExtractKeyPhrases(ctx context.Context, text string) ([]string, error)
	RecognizeEntities(ctx context.Context, text string) ([]domain.Entity, error)
}

// PIIEntity is a span of personally identifying information detected
// by a PII detection service.
type PIIEntity struct {
	Text     string
	Category string
}

// PIIDetector detects PII spans in text. Used by the optional
// service-based redaction pass; pattern-based redaction never depends
// on it.
type PIIDetector interface {
	DetectPII(ctx context.Context, text string) ([]PIIEntity, error)
}
