// Package local extracts PDF text in-process with unipdf, as a
// fallback when no document intelligence endpoint is configured. Page
// spans are computed from per-page text lengths so page attribution
// still works offline.
package local

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"

	"github.com/Ogechifaith-analytics/chunckingagent/internal/core/domain"
	"github.com/Ogechifaith-analytics/chunckingagent/internal/core/ports/driven"
	"github.com/Ogechifaith-analytics/chunckingagent/internal/logger"
)

// pageSeparator joins page texts; paragraph-sized so the splitter
// prefers breaking at page boundaries.
const pageSeparator = "\n\n"

var licenseOnce sync.Once

// Ensure Extractor implements the interface.
var _ driven.DocumentAnalyzer = (*Extractor)(nil)

// Extractor extracts text from PDF bytes.
type Extractor struct{}

// NewExtractor creates an extractor. licenseKey activates the metered
// unipdf license; an empty key is allowed and logged, extraction may
// then fail at runtime.
func NewExtractor(licenseKey string) *Extractor {
	licenseOnce.Do(func() {
		if err := license.SetMeteredKey(licenseKey); err != nil {
			logger.Warn("could not set unipdf license key: %v", err)
		}
	})
	return &Extractor{}
}

// Analyze extracts text page by page. Offsets are counted in runes,
// matching how the splitter counts text.
func (e *Extractor) Analyze(ctx context.Context, content []byte, _ string) (*driven.AnalysisResult, error) {
	reader, err := model.NewPdfReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}

	numPages, err := reader.GetNumPages()
	if err != nil {
		return nil, fmt.Errorf("counting pages: %w", err)
	}
	if numPages == 0 {
		return nil, fmt.Errorf("%w: PDF has no pages", domain.ErrEmptyDocument)
	}

	var sb strings.Builder
	var spans []driven.PageSpan
	offset := 0

	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := reader.GetPage(i)
		if err != nil {
			return nil, fmt.Errorf("loading page %d: %w", i, err)
		}
		ex, err := extractor.New(page)
		if err != nil {
			return nil, fmt.Errorf("preparing page %d: %w", i, err)
		}
		text, err := ex.ExtractText()
		if err != nil {
			return nil, fmt.Errorf("extracting page %d: %w", i, err)
		}

		if i > 1 {
			sb.WriteString(pageSeparator)
			offset += utf8.RuneCountInString(pageSeparator)
		}
		sb.WriteString(text)

		length := utf8.RuneCountInString(text)
		spans = append(spans, driven.PageSpan{Number: i, Offset: offset, Length: length})
		offset += length
	}

	return &driven.AnalysisResult{Content: sb.String(), Pages: spans}, nil
}
