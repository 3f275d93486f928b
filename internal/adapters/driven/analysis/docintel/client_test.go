package docintel

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_PollsToCompletion(t *testing.T) {
	var polls atomic.Int32
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("POST /documentintelligence/documentModels/prebuilt-layout:analyze", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2024-11-30", r.URL.Query().Get("api-version"))
		assert.Equal(t, "unicodeCodePoint", r.URL.Query().Get("stringIndexType"))
		assert.Equal(t, "secret", r.Header.Get("Ocp-Apim-Subscription-Key"))
		assert.Equal(t, "application/pdf", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("x-ms-client-request-id"))

		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, []byte("%PDF-1.7 fake"), body)

		w.Header().Set("Operation-Location", server.URL+"/operations/op-1")
		w.WriteHeader(http.StatusAccepted)
	})

	mux.HandleFunc("GET /operations/op-1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("Ocp-Apim-Subscription-Key"))
		if polls.Add(1) < 3 {
			fmt.Fprint(w, `{"status":"running"}`)
			return
		}
		fmt.Fprint(w, `{
			"status": "succeeded",
			"analyzeResult": {
				"content": "page one text\npage two text",
				"pages": [
					{"pageNumber": 1, "spans": [{"offset": 0, "length": 14}]},
					{"pageNumber": 2, "spans": [{"offset": 14, "length": 13}]}
				]
			}
		}`)
	})

	client := NewClient(server.URL, "secret", WithPollInterval(time.Millisecond))
	result, err := client.Analyze(context.Background(), []byte("%PDF-1.7 fake"), "application/pdf")
	require.NoError(t, err)

	assert.Equal(t, int32(3), polls.Load())
	assert.Equal(t, "page one text\npage two text", result.Content)
	require.Len(t, result.Pages, 2)
	assert.Equal(t, 1, result.Pages[0].Number)
	assert.Equal(t, 0, result.Pages[0].Offset)
	assert.Equal(t, 14, result.Pages[0].Length)
	assert.Equal(t, 2, result.PageFor(20))
}

func TestAnalyze_OperationFailure(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("POST /documentintelligence/documentModels/prebuilt-layout:analyze", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Operation-Location", server.URL+"/operations/op-2")
		w.WriteHeader(http.StatusAccepted)
	})
	mux.HandleFunc("GET /operations/op-2", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"status":"failed","error":{"code":"InvalidContent","message":"corrupt PDF"}}`)
	})

	client := NewClient(server.URL, "secret", WithPollInterval(time.Millisecond))
	_, err := client.Analyze(context.Background(), []byte("junk"), "application/pdf")
	require.Error(t, err)
	assert.ErrorContains(t, err, "InvalidContent")
	assert.ErrorContains(t, err, "corrupt PDF")
}

func TestAnalyze_SubmitRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "invalid subscription key", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, "wrong")
	_, err := client.Analyze(context.Background(), []byte("x"), "application/pdf")
	require.Error(t, err)
	assert.ErrorContains(t, err, "401")
}

func TestAnalyze_MissingOperationLocation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret")
	_, err := client.Analyze(context.Background(), []byte("x"), "application/pdf")
	assert.ErrorContains(t, err, "Operation-Location")
}

func TestAnalyze_ContextCancelledDuringPolling(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("POST /documentintelligence/documentModels/prebuilt-layout:analyze", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Operation-Location", server.URL+"/operations/op-3")
		w.WriteHeader(http.StatusAccepted)
	})
	mux.HandleFunc("GET /operations/op-3", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"status":"running"}`)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := NewClient(server.URL, "secret", WithPollInterval(time.Hour))
	_, err := client.Analyze(ctx, []byte("x"), "application/pdf")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
