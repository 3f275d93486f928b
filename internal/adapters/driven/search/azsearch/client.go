// Package azsearch upserts index entries through the search service
// documents REST API. Uploads use the mergeOrUpload action so
// re-running the indexer replaces entries in place.
package azsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Ogechifaith-analytics/chunckingagent/internal/core/domain"
	"github.com/Ogechifaith-analytics/chunckingagent/internal/core/ports/driven"
)

const (
	apiVersion     = "2023-11-01"
	defaultTimeout = 60 * time.Second
)

// Ensure Client implements the interface.
var _ driven.SearchIndex = (*Client)(nil)

// Client uploads documents into one search index.
type Client struct {
	endpoint  string
	apiKey    string
	indexName string
	client    *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// NewClient creates a client for the given search endpoint, admin key
// and index name.
func NewClient(endpoint, apiKey, indexName string, opts ...Option) *Client {
	c := &Client{
		endpoint:  strings.TrimSuffix(endpoint, "/"),
		apiKey:    apiKey,
		indexName: indexName,
		client:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// indexAction is one document in the upload batch.
type indexAction struct {
	Action string `json:"@search.action"`
	domain.IndexEntry
}

// indexBatchResponse mirrors the per-document upload results.
type indexBatchResponse struct {
	Value []struct {
		Key          string `json:"key"`
		Status       bool   `json:"status"`
		ErrorMessage string `json:"errorMessage"`
		StatusCode   int    `json:"statusCode"`
	} `json:"value"`
}

// Upsert uploads all entries in one batch. HTTP 207 means some
// documents were rejected; those come back as failed results rather
// than an error.
func (c *Client) Upsert(ctx context.Context, entries []domain.IndexEntry) ([]driven.UpsertResult, error) {
	batch := struct {
		Value []indexAction `json:"value"`
	}{Value: make([]indexAction, len(entries))}
	for i, entry := range entries {
		batch.Value[i] = indexAction{Action: "mergeOrUpload", IndexEntry: entry}
	}
	payload, err := json.Marshal(batch)
	if err != nil {
		return nil, fmt.Errorf("encoding index batch: %w", err)
	}

	uploadURL := fmt.Sprintf("%s/indexes/%s/docs/index?api-version=%s", c.endpoint, c.indexName, apiVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building index request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("x-ms-client-request-id", uuid.NewString())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading index response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusMultiStatus {
		return nil, fmt.Errorf("index upload returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed indexBatchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parsing index response: %w", err)
	}

	results := make([]driven.UpsertResult, len(parsed.Value))
	for i, item := range parsed.Value {
		results[i] = driven.UpsertResult{
			Key:          item.Key,
			Succeeded:    item.Status,
			ErrorMessage: item.ErrorMessage,
		}
	}
	return results, nil
}
