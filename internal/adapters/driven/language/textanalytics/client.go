// Package textanalytics calls the language service analyze-text REST
// API for key phrase extraction, entity recognition and PII
// detection. One client serves all three kinds.
package textanalytics

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
	apiVersion     = "2023-04-01"
	defaultTimeout = 30 * time.Second

	// language is the analysis language hint for submitted text.
	language = "en"
)

// Ensure Client implements the interfaces.
var (
	_ driven.LanguageService = (*Client)(nil)
	_ driven.PIIDetector     = (*Client)(nil)
)

// Client calls the language service.
type Client struct {
	endpoint string
	key      string
	client   *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// NewClient creates a client for the given service endpoint and key.
func NewClient(endpoint, key string, opts ...Option) *Client {
	c := &Client{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		key:      key,
		client:   &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// analyzeRequest is the analyze-text request envelope.
type analyzeRequest struct {
	Kind          string `json:"kind"`
	AnalysisInput struct {
		Documents []analyzeDocument `json:"documents"`
	} `json:"analysisInput"`
	Parameters map[string]string `json:"parameters"`
}

type analyzeDocument struct {
	ID       string `json:"id"`
	Language string `json:"language"`
	Text     string `json:"text"`
}

// analyzeResponse is the analyze-text response envelope, shared by
// all kinds; unused fields stay empty.
type analyzeResponse struct {
	Kind    string `json:"kind"`
	Results struct {
		Documents []struct {
			ID         string   `json:"id"`
			KeyPhrases []string `json:"keyPhrases"`
			Entities   []struct {
				Text     string `json:"text"`
				Category string `json:"category"`
			} `json:"entities"`
		} `json:"documents"`
		Errors []struct {
			ID    string `json:"id"`
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		} `json:"errors"`
	} `json:"results"`
}

// ExtractKeyPhrases returns the key phrases of the text.
func (c *Client) ExtractKeyPhrases(ctx context.Context, text string) ([]string, error) {
	resp, err := c.analyze(ctx, "KeyPhraseExtraction", text)
	if err != nil {
		return nil, err
	}
	return resp.Results.Documents[0].KeyPhrases, nil
}

// RecognizeEntities returns the named entities of the text.
func (c *Client) RecognizeEntities(ctx context.Context, text string) ([]domain.Entity, error) {
	resp, err := c.analyze(ctx, "EntityRecognition", text)
	if err != nil {
		return nil, err
	}

	raw := resp.Results.Documents[0].Entities
	entities := make([]domain.Entity, 0, len(raw))
	for _, e := range raw {
		entities = append(entities, domain.Entity{Text: e.Text, Category: e.Category})
	}
	return entities, nil
}

// DetectPII returns PII spans found in the text.
func (c *Client) DetectPII(ctx context.Context, text string) ([]driven.PIIEntity, error) {
	resp, err := c.analyze(ctx, "PiiEntityRecognition", text)
	if err != nil {
		return nil, err
	}

	raw := resp.Results.Documents[0].Entities
	entities := make([]driven.PIIEntity, 0, len(raw))
	for _, e := range raw {
		entities = append(entities, driven.PIIEntity{Text: e.Text, Category: e.Category})
	}
	return entities, nil
}

// analyze submits one document under the given kind and returns the
// parsed response with exactly one result document.
func (c *Client) analyze(ctx context.Context, kind, text string) (*analyzeResponse, error) {
	reqBody := analyzeRequest{
		Kind:       kind,
		Parameters: map[string]string{"modelVersion": "latest"},
	}
	reqBody.AnalysisInput.Documents = []analyzeDocument{
		{ID: "1", Language: language, Text: text},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encoding %s request: %w", kind, err)
	}

	analyzeURL := fmt.Sprintf("%s/language/:analyze-text?api-version=%s", c.endpoint, apiVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, analyzeURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", kind, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.key)
	req.Header.Set("x-ms-client-request-id", uuid.NewString())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", kind, err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w: %s", domain.ErrRateLimited, strings.TrimSpace(string(body)))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned %d: %s", kind, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed analyzeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", kind, err)
	}
	if len(parsed.Results.Errors) > 0 {
		e := parsed.Results.Errors[0].Error
		return nil, fmt.Errorf("%s rejected document: %s: %s", kind, e.Code, e.Message)
	}
	if len(parsed.Results.Documents) == 0 {
		return nil, fmt.Errorf("%s response has no result document", kind)
	}
	return &parsed, nil
}
