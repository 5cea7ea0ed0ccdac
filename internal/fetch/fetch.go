// Package fetch retrieves job pages over HTTP, from disk, or through a headless
// browser, and turns them into parsed documents for extraction.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; JobfitAgent/1.0)"

// Result holds the raw content from a URL fetch.
type Result struct {
	URL         string
	HTML        string
	ContentType string
	StatusCode  int
	Rendered    bool // true when the HTML came from the headless browser
}

// Error represents an error during page fetching.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the fetch behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string

	// Browser forces headless rendering. When false, rendering is still used
	// if the static HTML carries too little visible text.
	Browser bool
	// NoBrowserFallback disables the automatic fallback to rendering.
	NoBrowserFallback bool
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// URL retrieves HTML content from a URL.
func URL(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	if err := validateURL(urlStr); err != nil {
		return nil, err
	}

	client := &http.Client{
		Timeout: opts.Timeout,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "failed to create request",
			Cause:   err,
		}
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "HTTP request failed",
			Cause:   err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "failed to read response body",
			Cause:   err,
		}
	}

	result := &Result{
		URL:         urlStr,
		HTML:        string(bodyBytes),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}

	if resp.StatusCode != http.StatusOK {
		return result, &Error{
			URL:     urlStr,
			Message: fmt.Sprintf("HTTP status %d", resp.StatusCode),
		}
	}

	return result, nil
}

// Page fetches a URL and returns it as a parsed document. Static HTML is tried
// first; the headless browser is used when forced or when the static page looks
// like an unrendered single-page app.
func Page(ctx context.Context, urlStr string, opts *Options) (*goquery.Document, *Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	if opts.Browser {
		return renderPage(ctx, urlStr, opts)
	}

	result, err := URL(ctx, urlStr, opts)
	if err != nil {
		return nil, result, err
	}

	doc, err := ParseDocument(result.HTML)
	if err != nil {
		return nil, result, &Error{URL: urlStr, Message: "failed to parse HTML", Cause: err}
	}

	if !opts.NoBrowserFallback && ShouldUseBrowser(doc.Find("body").Text()) {
		if rDoc, rResult, rErr := renderPage(ctx, urlStr, opts); rErr == nil {
			return rDoc, rResult, nil
		}
	}

	return doc, result, nil
}

func renderPage(ctx context.Context, urlStr string, opts *Options) (*goquery.Document, *Result, error) {
	if err := validateURL(urlStr); err != nil {
		return nil, nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	html, err := WithBrowser(ctx, urlStr, timeout)
	if err != nil {
		return nil, nil, &Error{URL: urlStr, Message: "browser rendering failed", Cause: err}
	}
	doc, err := ParseDocument(html)
	if err != nil {
		return nil, nil, &Error{URL: urlStr, Message: "failed to parse rendered HTML", Cause: err}
	}
	return doc, &Result{URL: urlStr, HTML: html, StatusCode: http.StatusOK, Rendered: true}, nil
}

// ParseDocument parses an HTML string into a goquery document.
func ParseDocument(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// FromFile loads a saved HTML page from disk.
func FromFile(path string) (*goquery.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{URL: path, Message: "failed to open file", Cause: err}
	}
	defer func() { _ = f.Close() }()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, &Error{URL: path, Message: "failed to parse HTML", Cause: err}
	}
	return doc, nil
}

func validateURL(urlStr string) error {
	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return &Error{
			URL:     urlStr,
			Message: "invalid URL",
			Cause:   err,
		}
	}
	return nil
}
