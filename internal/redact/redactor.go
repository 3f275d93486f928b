// Package redact removes personally identifying and health
// information from text by replacing matched spans with category
// placeholders. Matching is pattern-based and best-effort: it both
// under- and over-matches (any two-capitalised-word phrase is treated
// as a name). Redaction is deterministic and never fails.
package redact

import (
	"regexp"

	"github.com/Ogechifaith-analytics/chunckingagent/internal/core/ports/driven"
)

// Ensure PatternRedactor implements the interface.
var _ driven.Redactor = (*PatternRedactor)(nil)

// rule replaces all non-overlapping matches of one PHI category with
// a fixed placeholder token.
type rule struct {
	category    string
	pattern     *regexp.Regexp
	placeholder string
}

// rules are applied in order. Later patterns operate on the already
// substituted text, but no category matches inside another category's
// placeholder, so ordering only matters for overlapping source spans.
var rules = []rule{
	{
		category:    "name",
		pattern:     regexp.MustCompile(`\b(Mr\.|Mrs\.|Ms\.|Dr\.)?\s?[A-Z][a-z]+\s[A-Z][a-z]+\b`),
		placeholder: "[PATIENT_NAME]",
	},
	{
		category:    "date",
		pattern:     regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b|\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s\d{1,2},\s\d{4}\b|\b\d{4}-\d{2}-\d{2}\b`),
		placeholder: "[DATE]",
	},
	{
		category:    "phone",
		pattern:     regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
		placeholder: "[PHONE_NUMBER]",
	},
	{
		category:    "ssn",
		pattern:     regexp.MustCompile(`\d{3}-\d{2}-\d{4}`),
		placeholder: "[SSN]",
	},
	{
		category:    "address",
		pattern:     regexp.MustCompile(`\b\d+\s[A-Za-z]+\s(Street|St|Road|Rd|Avenue|Ave|Boulevard|Blvd|Lane|Ln|Drive|Dr)\b`),
		placeholder: "[ADDRESS]",
	},
}

// PatternRedactor applies the built-in PHI substitution rules.
type PatternRedactor struct{}

// NewPattern creates the default pattern-based redactor.
func NewPattern() *PatternRedactor {
	return &PatternRedactor{}
}

// Redact replaces every matched PHI span with its category
// placeholder. Pure and deterministic; no external calls.
func (r *PatternRedactor) Redact(text string) string {
	for _, ru := range rules {
		text = ru.pattern.ReplaceAllString(text, ru.placeholder)
	}
	return text
}
