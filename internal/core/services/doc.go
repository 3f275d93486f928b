// Package services implements the document-to-record pipeline: the
// per-chunk annotator, the per-document processor, the batch runner
// that drives a whole source container, and the indexer that loads
// published records into the search index. All collaborators are
// injected at construction; nothing here talks to a concrete backend.
package services
