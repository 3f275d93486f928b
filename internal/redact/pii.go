package redact

import (
	"context"
	"strings"

	"github.com/Ogechifaith-analytics/chunckingagent/internal/core/ports/driven"
	"github.com/Ogechifaith-analytics/chunckingagent/internal/logger"
)

// Ensure ServiceRedactor implements the interface.
var _ driven.Redactor = (*ServiceRedactor)(nil)

// ServiceRedactor layers a service-based PII detection pass on top of
// a base redactor. Spans the detector reports are replaced with their
// upper-cased category in brackets. If the detector fails, the base
// result is returned unchanged: redaction never fails the pipeline.
type ServiceRedactor struct {
	base     driven.Redactor
	detector driven.PIIDetector
}

// NewService creates a redactor that runs detector over the output of
// base.
func NewService(base driven.Redactor, detector driven.PIIDetector) *ServiceRedactor {
	return &ServiceRedactor{base: base, detector: detector}
}

// Redact applies the base redaction, then replaces each span the PII
// detector reports with a [CATEGORY] placeholder.
func (r *ServiceRedactor) Redact(text string) string {
	redacted := r.base.Redact(text)

	entities, err := r.detector.DetectPII(context.Background(), redacted)
	if err != nil {
		logger.Warn("PII detection failed, keeping pattern-based result: %v", err)
		return redacted
	}

	for _, e := range entities {
		if e.Text == "" {
			continue
		}
		redacted = strings.ReplaceAll(redacted, e.Text, "["+strings.ToUpper(e.Category)+"]")
	}
	return redacted
}
