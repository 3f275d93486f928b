package azureblob

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ogechifaith-analytics/chunckingagent/internal/core/domain"
)

const testKey = "dGhpcyBpcyBhIHRlc3Qgc3RvcmFnZSBhY2NvdW50IGtleQ=="

func testConnString(endpoint string) string {
	return fmt.Sprintf("AccountName=testacct;AccountKey=%s;BlobEndpoint=%s", testKey, endpoint)
}

func TestParseConnectionString(t *testing.T) {
	creds, err := parseConnectionString(
		"DefaultEndpointsProtocol=https;AccountName=medstore;AccountKey=" + testKey + ";EndpointSuffix=core.windows.net")
	require.NoError(t, err)
	assert.Equal(t, "medstore", creds.accountName)
	assert.Equal(t, "https://medstore.blob.core.windows.net", creds.endpoint)

	wantKey, _ := base64.StdEncoding.DecodeString(testKey)
	assert.Equal(t, wantKey, creds.accountKey)
}

func TestParseConnectionString_ExplicitEndpointWins(t *testing.T) {
	creds, err := parseConnectionString(
		"AccountName=devstoreaccount1;AccountKey=" + testKey + ";BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1/;")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:10000/devstoreaccount1", creds.endpoint)
}

func TestParseConnectionString_MissingPieces(t *testing.T) {
	_, err := parseConnectionString("AccountKey=" + testKey)
	assert.ErrorContains(t, err, "AccountName")

	_, err = parseConnectionString("AccountName=acct")
	assert.ErrorContains(t, err, "AccountKey")

	_, err = parseConnectionString("AccountName=acct;AccountKey=not-base64!!!")
	assert.ErrorContains(t, err, "decoding AccountKey")
}

func TestList_ParsesBlobsAndFollowsMarker(t *testing.T) {
	pages := map[string]string{
		"": `<?xml version="1.0"?>
			<EnumerationResults>
				<Blobs>
					<Blob><Name>a.pdf</Name><Properties><Content-Length>100</Content-Length></Properties></Blob>
					<Blob><Name>b.pdf</Name><Properties><Content-Length>200</Content-Length></Properties></Blob>
				</Blobs>
				<NextMarker>page2</NextMarker>
			</EnumerationResults>`,
		"page2": `<?xml version="1.0"?>
			<EnumerationResults>
				<Blobs>
					<Blob><Name>c.pdf</Name><Properties><Content-Length>300</Content-Length></Properties></Blob>
				</Blobs>
				<NextMarker/>
			</EnumerationResults>`,
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "container", r.URL.Query().Get("restype"))
		assert.Equal(t, "list", r.URL.Query().Get("comp"))
		assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "SharedKey testacct:"))
		assert.NotEmpty(t, r.Header.Get("x-ms-date"))
		assert.NotEmpty(t, r.Header.Get("x-ms-client-request-id"))
		fmt.Fprint(w, pages[r.URL.Query().Get("marker")])
	}))
	defer server.Close()

	store, err := NewStore(testConnString(server.URL), "rawdocument")
	require.NoError(t, err)

	docs, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, domain.SourceDocument{Name: "a.pdf", Size: 100}, docs[0])
	assert.Equal(t, domain.SourceDocument{Name: "c.pdf", Size: 300}, docs[2])
}

func TestRead_DownloadsBlob(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rawdocument/report.pdf", r.URL.Path)
		fmt.Fprint(w, "pdf bytes")
	}))
	defer server.Close()

	store, err := NewStore(testConnString(server.URL), "rawdocument")
	require.NoError(t, err)

	data, err := store.Read(context.Background(), "report.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf bytes"), data)
}

func TestRead_MissingBlob(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "BlobNotFound", http.StatusNotFound)
	}))
	defer server.Close()

	store, err := NewStore(testConnString(server.URL), "rawdocument")
	require.NoError(t, err)

	_, err = store.Read(context.Background(), "absent.pdf")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWrite_UploadsBlockBlob(t *testing.T) {
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/processed-text-metadata/doc_chunks.json", r.URL.Path)
		assert.Equal(t, "BlockBlob", r.Header.Get("x-ms-blob-type"))
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	store, err := NewStore(testConnString(server.URL), "processed-text-metadata")
	require.NoError(t, err)

	require.NoError(t, store.Write(context.Background(), "doc_chunks.json", []byte(`{"chunks":[]}`)))
	assert.Equal(t, []byte(`{"chunks":[]}`), gotBody)
}

func TestDo_ServerErrorIncludesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "AuthenticationFailed", http.StatusForbidden)
	}))
	defer server.Close()

	store, err := NewStore(testConnString(server.URL), "rawdocument")
	require.NoError(t, err)

	_, err = store.Read(context.Background(), "doc.pdf")
	require.Error(t, err)
	assert.ErrorContains(t, err, "403")
	assert.ErrorContains(t, err, "AuthenticationFailed")
}

func TestCanonicalizedResource_SortsQueryParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<EnumerationResults/>")
	}))
	defer server.Close()

	store, err := NewStore(testConnString(server.URL), "rawdocument")
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/rawdocument?restype=container&comp=list", nil)
	require.NoError(t, err)

	got := canonicalizedResource(store.creds.accountName, req.URL)
	assert.Equal(t, "/testacct/rawdocument\ncomp:list\nrestype:container", got)
}
