// Package azureblob provides an object store over the blob service
// REST API, authenticated with shared-key signing. Each store handle
// is bound to one container.
package azureblob

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Ogechifaith-analytics/chunckingagent/internal/core/domain"
	"github.com/Ogechifaith-analytics/chunckingagent/internal/core/ports/driven"
)

const (
	apiVersion     = "2021-08-06"
	defaultTimeout = 60 * time.Second
)

// Ensure Store implements the interface.
var _ driven.ObjectStore = (*Store)(nil)

// Store accesses one blob container.
type Store struct {
	creds     *credentials
	container string
	client    *http.Client
}

// NewStore creates a store for the given container from a storage
// connection string.
func NewStore(connString, container string) (*Store, error) {
	creds, err := parseConnectionString(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}
	return &Store{
		creds:     creds,
		container: container,
		client:    &http.Client{Timeout: defaultTimeout},
	}, nil
}

// listResponse mirrors the container listing XML.
type listResponse struct {
	Blobs []struct {
		Name       string `xml:"Name"`
		Properties struct {
			ContentLength int64 `xml:"Content-Length"`
		} `xml:"Properties"`
	} `xml:"Blobs>Blob"`
	NextMarker string `xml:"NextMarker"`
}

// List enumerates the container, following continuation markers.
func (s *Store) List(ctx context.Context) ([]domain.SourceDocument, error) {
	var docs []domain.SourceDocument
	marker := ""
	for {
		query := url.Values{"restype": {"container"}, "comp": {"list"}}
		if marker != "" {
			query.Set("marker", marker)
		}

		body, _, err := s.do(ctx, http.MethodGet, "", query, nil)
		if err != nil {
			return nil, err
		}

		var page listResponse
		if err := xml.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("parsing container listing: %w", err)
		}
		for _, blob := range page.Blobs {
			docs = append(docs, domain.SourceDocument{
				Name: blob.Name,
				Size: blob.Properties.ContentLength,
			})
		}

		if page.NextMarker == "" {
			return docs, nil
		}
		marker = page.NextMarker
	}
}

// Read downloads a blob.
func (s *Store) Read(ctx context.Context, name string) ([]byte, error) {
	body, status, err := s.do(ctx, http.MethodGet, name, nil, nil)
	if status == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return body, nil
}

// Write uploads a block blob, replacing any existing blob of that name.
func (s *Store) Write(ctx context.Context, name string, data []byte) error {
	_, _, err := s.do(ctx, http.MethodPut, name, nil, data)
	return err
}

// do issues one signed request against the container. blobName may be
// empty for container-level operations.
func (s *Store) do(ctx context.Context, method, blobName string, query url.Values, body []byte) ([]byte, int, error) {
	endpoint := s.creds.endpoint + "/" + s.container
	if blobName != "" {
		endpoint += "/" + url.PathEscape(blobName)
	}
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("building request: %w", err)
	}

	req.Header.Set("x-ms-date", time.Now().UTC().Format(http.TimeFormat))
	req.Header.Set("x-ms-version", apiVersion)
	req.Header.Set("x-ms-client-request-id", uuid.NewString())
	if method == http.MethodPut {
		req.Header.Set("x-ms-blob-type", "BlockBlob")
	}
	s.sign(req, int64(len(body)))

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%s %s: %w", method, blobName, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, fmt.Errorf("%s %s: blob service returned %d: %s",
			method, blobName, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return respBody, resp.StatusCode, nil
}

// sign adds the SharedKey authorization header.
func (s *Store) sign(req *http.Request, contentLength int64) {
	lengthField := ""
	if contentLength > 0 {
		lengthField = strconv.FormatInt(contentLength, 10)
	}

	stringToSign := strings.Join([]string{
		req.Method,
		req.Header.Get("Content-Encoding"),
		req.Header.Get("Content-Language"),
		lengthField,
		req.Header.Get("Content-MD5"),
		req.Header.Get("Content-Type"),
		"", // Date is carried in x-ms-date instead
		req.Header.Get("If-Modified-Since"),
		req.Header.Get("If-Match"),
		req.Header.Get("If-None-Match"),
		req.Header.Get("If-Unmodified-Since"),
		req.Header.Get("Range"),
		canonicalizedHeaders(req) + canonicalizedResource(s.creds.accountName, req.URL),
	}, "\n")

	mac := hmac.New(sha256.New, s.creds.accountKey)
	mac.Write([]byte(stringToSign))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	req.Header.Set("Authorization", fmt.Sprintf("SharedKey %s:%s", s.creds.accountName, signature))
}

// canonicalizedHeaders renders the sorted x-ms-* headers.
func canonicalizedHeaders(req *http.Request) string {
	var names []string
	for name := range req.Header {
		lower := strings.ToLower(name)
		if strings.HasPrefix(lower, "x-ms-") {
			names = append(names, lower)
		}
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteString(":")
		b.WriteString(strings.TrimSpace(req.Header.Get(name)))
		b.WriteString("\n")
	}
	return b.String()
}

// canonicalizedResource renders the account-qualified path plus the
// sorted query parameters.
func canonicalizedResource(accountName string, u *url.URL) string {
	var b strings.Builder
	b.WriteString("/")
	b.WriteString(accountName)
	b.WriteString(u.EscapedPath())

	query := u.Query()
	var names []string
	for name := range query {
		names = append(names, strings.ToLower(name))
	}
	sort.Strings(names)
	for _, name := range names {
		values := query[name]
		sort.Strings(values)
		b.WriteString("\n")
		b.WriteString(name)
		b.WriteString(":")
		b.WriteString(strings.Join(values, ","))
	}
	return b.String()
}
