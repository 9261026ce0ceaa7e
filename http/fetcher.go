// Package http provides net/http implementations of the sitecrawl fetching
// services: page fetching, robots.txt loading, and sitemap discovery.
package http

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/sitecrawl"
	"golang.org/x/net/html/charset"
)

const (
	// DefaultFetchTimeout is the default timeout for HTTP requests.
	DefaultFetchTimeout = sitecrawl.DefaultRequestTimeout

	// DefaultMaxBodySize caps how much of a response body is read.
	DefaultMaxBodySize = 10 << 20
)

// Ensure Fetcher implements sitecrawl.Fetcher at compile time.
var _ sitecrawl.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML pages with plain HTTP GET requests.
// It makes exactly one attempt per call and never executes JavaScript.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	maxBodySize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize limits the number of body bytes read per response.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		userAgent:   sitecrawl.DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the page at url.
//
// Any HTTP status is returned as a Page; the caller decides what it means.
// Responses whose Content-Type is not HTML return ENOTHTML, and transport
// or body read failures return EFETCH. The body is decoded to UTF-8 using
// the declared or sniffed charset.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*sitecrawl.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, sitecrawl.Errorf(sitecrawl.EFETCH, "building request for %s: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.1")

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, sitecrawl.Errorf(sitecrawl.EFETCH, "fetching %s: %v", url, err)
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if !IsHTML(contentType) {
		return nil, sitecrawl.Errorf(sitecrawl.ENOTHTML, "%s has content type %q", url, contentType)
	}

	body := io.LimitReader(resp.Body, f.maxBodySize)
	decoded, err := charset.NewReader(body, contentType)
	if err != nil {
		// Unknown charset label; read the bytes as they are.
		decoded = body
	}
	data, err := io.ReadAll(decoded)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, sitecrawl.Errorf(sitecrawl.EFETCH, "reading %s: %v", url, err)
	}

	return &sitecrawl.Page{
		URL:         url,
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		HTML:        strings.ToValidUTF8(string(data), ""),
	}, nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

// IsHTML reports whether a Content-Type header value contains text/html,
// ignoring case.
func IsHTML(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "text/html")
}
