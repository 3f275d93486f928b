package driven

// Redactor replaces sensitive spans in text with category
// placeholders. Implementations must be deterministic and must never
// fail: redaction always returns usable text.
type Redactor interface {
	Redact(text string) string
}
