// Package docintel extracts document text through the document
// intelligence REST API. Analysis is asynchronous on the service
// side: the submit call returns an operation URL which is polled
// until the operation reaches a terminal state.
package docintel

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
	"github.com/Ogechifaith-analytics/chunckingagent/internal/logger"
)

const (
	apiVersion = "2024-11-30"
	modelID    = "prebuilt-layout"

	defaultPollInterval = 2 * time.Second
	defaultTimeout      = 60 * time.Second
)

// Ensure Client implements the interface.
var _ driven.DocumentAnalyzer = (*Client)(nil)

// Client calls the document intelligence analyze endpoint.
type Client struct {
	endpoint     string
	key          string
	client       *http.Client
	pollInterval time.Duration
}

// Option configures the client.
type Option func(*Client)

// WithPollInterval overrides how often the operation is polled.
func WithPollInterval(interval time.Duration) Option {
	return func(c *Client) {
		c.pollInterval = interval
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// NewClient creates a client for the given service endpoint and key.
func NewClient(endpoint, key string, opts ...Option) *Client {
	c := &Client{
		endpoint:     strings.TrimSuffix(endpoint, "/"),
		key:          key,
		client:       &http.Client{Timeout: defaultTimeout},
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// operationStatus mirrors the polling response.
type operationStatus struct {
	Status        string `json:"status"`
	AnalyzeResult *struct {
		Content string `json:"content"`
		Pages   []struct {
			PageNumber int `json:"pageNumber"`
			Spans      []struct {
				Offset int `json:"offset"`
				Length int `json:"length"`
			} `json:"spans"`
		} `json:"pages"`
	} `json:"analyzeResult"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Analyze submits the document and polls the returned operation until
// it succeeds or fails. Offsets in the result are unicode code points,
// matching how the splitter counts text.
func (c *Client) Analyze(ctx context.Context, content []byte, contentType string) (*driven.AnalysisResult, error) {
	opURL, err := c.submit(ctx, content, contentType)
	if err != nil {
		return nil, err
	}

	for {
		status, err := c.poll(ctx, opURL)
		if err != nil {
			return nil, err
		}

		switch status.Status {
		case "succeeded":
			return toAnalysisResult(status), nil
		case "failed":
			if status.Error != nil {
				return nil, fmt.Errorf("document analysis failed: %s: %s", status.Error.Code, status.Error.Message)
			}
			return nil, fmt.Errorf("document analysis failed")
		default:
			logger.Debug("analysis operation %s", status.Status)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

// submit starts the analysis and returns the operation URL.
func (c *Client) submit(ctx context.Context, content []byte, contentType string) (string, error) {
	submitURL := fmt.Sprintf("%s/documentintelligence/documentModels/%s:analyze?api-version=%s&stringIndexType=unicodeCodePoint",
		c.endpoint, modelID, apiVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, submitURL, bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("building analyze request: %w", err)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	c.setCommonHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrAnalyzerUnavailable, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusAccepted {
		return "", fmt.Errorf("analyze submit returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	opURL := resp.Header.Get("Operation-Location")
	if opURL == "" {
		return "", fmt.Errorf("analyze submit response missing Operation-Location")
	}
	return opURL, nil
}

// poll fetches the operation state once.
func (c *Client) poll(ctx context.Context, opURL string) (*operationStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building poll request: %w", err)
	}
	c.setCommonHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAnalyzerUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading poll response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("operation poll returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var status operationStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("parsing poll response: %w", err)
	}
	return &status, nil
}

func (c *Client) setCommonHeaders(req *http.Request) {
	req.Header.Set("Ocp-Apim-Subscription-Key", c.key)
	req.Header.Set("x-ms-client-request-id", uuid.NewString())
}

// toAnalysisResult maps the service payload to the port type. A page
// may carry several spans; the region from the first span's offset to
// the last span's end covers the page's text.
func toAnalysisResult(status *operationStatus) *driven.AnalysisResult {
	result := &driven.AnalysisResult{}
	if status.AnalyzeResult == nil {
		return result
	}
	result.Content = status.AnalyzeResult.Content

	for _, page := range status.AnalyzeResult.Pages {
		if len(page.Spans) == 0 {
			continue
		}
		first := page.Spans[0]
		end := first.Offset + first.Length
		for _, span := range page.Spans[1:] {
			if span.Offset+span.Length > end {
				end = span.Offset + span.Length
			}
		}
		result.Pages = append(result.Pages, driven.PageSpan{
			Number: page.PageNumber,
			Offset: first.Offset,
			Length: end - first.Offset,
		})
	}
	return result
}
