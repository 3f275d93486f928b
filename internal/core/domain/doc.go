// Package domain contains the core types of the document pipeline:
// source documents, chunks, annotated chunks, processed records and
// search index entries. Types here are pure data with no knowledge of
// storage backends or external services.
package domain
