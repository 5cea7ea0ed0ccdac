package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html><body><h1>Test</h1></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Contains(t, result.HTML, "<h1>Test</h1>")
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.False(t, result.Rendered)
}

func TestURL_InvalidURL(t *testing.T) {
	_, err := URL(context.Background(), "not-a-valid-url", nil)
	require.Error(t, err)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "invalid URL")
}

func TestURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "404")
}

func TestURL_CustomHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "en-US", r.Header.Get("Accept-Language"))
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	opts := DefaultOptions()
	opts.Headers = map[string]string{"Accept-Language": "en-US"}
	_, err := URL(context.Background(), server.URL, opts)
	require.NoError(t, err)
}

func TestPage_StaticContentLongEnough(t *testing.T) {
	body := "<html><body><h1>Title</h1><p>" + strings.Repeat("word ", 200) + "</p></body></html>"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	doc, result, err := Page(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.False(t, result.Rendered)
	assert.Equal(t, "Title", doc.Find("h1").Text())
}

func TestPage_ShortContentWithoutFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div id="app"></div></body></html>`))
	}))
	defer server.Close()

	opts := DefaultOptions()
	opts.NoBrowserFallback = true
	doc, result, err := Page(context.Background(), server.URL, opts)
	require.NoError(t, err)
	assert.False(t, result.Rendered)
	assert.Equal(t, 1, doc.Find("#app").Length())
}

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument(`<html><head><title>Job | Upwork</title></head><body></body></html>`)
	require.NoError(t, err)
	assert.Equal(t, "Job | Upwork", doc.Find("title").Text())
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "job.html")
	require.NoError(t, os.WriteFile(path, []byte(`<html><body><h4>Saved job</h4></body></html>`), 0o600))

	doc, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Saved job", doc.Find("h4").Text())
}

func TestFromFile_Missing(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "missing.html"))
	require.Error(t, err)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "failed to open file")
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser("   short   "))
	assert.False(t, ShouldUseBrowser(strings.Repeat("x", MinContentLength)))
}
