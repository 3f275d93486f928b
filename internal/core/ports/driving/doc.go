// Package driving defines the use-case interfaces exposed to entry
// points (the CLI): running a processing batch over the source
// container and reindexing published records into the search index.
package driving
