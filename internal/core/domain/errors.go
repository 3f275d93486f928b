package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested object does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyDocument indicates the analysis service extracted no
	// text from a document. This is a skip, not a failure: the
	// document is omitted from output and the batch continues.
	ErrEmptyDocument = errors.New("no text content extracted")

	// ErrMalformedRecord indicates a published record could not be
	// parsed or has no chunks. The indexer skips such artifacts.
	ErrMalformedRecord = errors.New("malformed processed record")

	// ErrAnalyzerUnavailable indicates no document analysis backend
	// is configured.
	ErrAnalyzerUnavailable = errors.New("document analyzer unavailable")

	// ErrSearchUnavailable indicates no search index backend is
	// configured.
	ErrSearchUnavailable = errors.New("search index unavailable")

	// ErrRateLimited indicates an external service rejected a call
	// for quota reasons.
	ErrRateLimited = errors.New("rate limited")
)
