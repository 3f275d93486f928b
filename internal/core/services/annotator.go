package services

import (
	"context"
	"strings"

	"golang.org/x/time/rate"

	"github.com/Ogechifaith-analytics/chunckingagent/internal/core/domain"
	"github.com/Ogechifaith-analytics/chunckingagent/internal/core/ports/driven"
	"github.com/Ogechifaith-analytics/chunckingagent/internal/logger"
)

// minAnnotateLen is the stripped-text length below which the language
// service is not called at all. Near-empty chunks would only waste
// quota.
const minAnnotateLen = 10

// Annotator derives key phrases and entities for a chunk by calling
// the language service. Calls operate on redacted text only, and any
// failure is absorbed: a chunk that cannot be annotated is published
// with empty annotation fields.
type Annotator struct {
	language driven.LanguageService
	limiter  *rate.Limiter
}

// NewAnnotator creates an annotator. The language service may be nil,
// which disables annotation entirely. The limiter is optional and
// throttles calls to respect external service quotas.
func NewAnnotator(language driven.LanguageService, limiter *rate.Limiter) *Annotator {
	return &Annotator{language: language, limiter: limiter}
}

// Annotate returns key phrases and entities for redacted chunk text.
// It never returns an error: service failures are logged as warnings
// and yield empty results.
func (a *Annotator) Annotate(ctx context.Context, chunkID, redactedText string) ([]string, []domain.Entity) {
	if a.language == nil {
		return nil, nil
	}
	if len(strings.TrimSpace(redactedText)) <= minAnnotateLen {
		logger.Debug("chunk %s too short for language analysis", chunkID)
		return nil, nil
	}

	var keyPhrases []string
	if err := a.wait(ctx); err == nil {
		kp, err := a.language.ExtractKeyPhrases(ctx, redactedText)
		if err != nil {
			logger.Warn("key phrase extraction failed for chunk %s: %v", chunkID, err)
		} else {
			keyPhrases = kp
		}
	}

	var entities []domain.Entity
	if err := a.wait(ctx); err == nil {
		ents, err := a.language.RecognizeEntities(ctx, redactedText)
		if err != nil {
			logger.Warn("entity recognition failed for chunk %s: %v", chunkID, err)
		} else {
			entities = ents
		}
	}

	return keyPhrases, entities
}

func (a *Annotator) wait(ctx context.Context) error {
	if a.limiter == nil {
		return nil
	}
	if err := a.limiter.Wait(ctx); err != nil {
		logger.Warn("rate limiter wait aborted: %v", err)
		return err
	}
	return nil
}
