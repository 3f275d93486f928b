package driven

import "context"

// PageSpan locates one page of a document within its extracted text.
type PageSpan struct {
	// Number is the 1-based page number.
	Number int

	// Offset is the character offset of the page's first character
	// in the extracted text.
	Offset int

	// Length is the character length of the page's text.
	Length int
}

// AnalysisResult is the output of document analysis: the flattened
// text of the document plus optional page layout metadata.
type AnalysisResult struct {
	// Content is the full extracted text. May be empty when the
	// document contains no recognisable text.
	Content string

	// Pages maps regions of Content back to source pages. Optional;
	// adapters that cannot attribute pages return nil.
	Pages []PageSpan
}

// PageFor returns the 1-based page containing the given character
// offset, or 0 when page metadata is unavailable.
func (r *AnalysisResult) PageFor(offset int) int {
	for _, p := range r.Pages {
		if offset >= p.Offset && offset < p.Offset+p.Length {
			return p.Number
		}
	}
	if n := len(r.Pages); n > 0 && offset >= r.Pages[n-1].Offset {
		return r.Pages[n-1].Number
	}
	return 0
}

// DocumentAnalyzer turns a binary document into plain text.
// Implementations may be slow or asynchronous internally (the remote
// service polls to completion) but are consumed synchronously.
type DocumentAnalyzer interface {
	Analyze(ctx context.Context, content []byte, contentType string) (*AnalysisResult, error)
}
