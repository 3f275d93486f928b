// Package driven defines the interfaces implemented by infrastructure
// adapters: object stores, the document analysis service, the language
// annotation service, the search index, the redactor and the text
// splitter. Core services depend only on these interfaces, which keeps
// failure-path behaviour testable without live services.
package driven
