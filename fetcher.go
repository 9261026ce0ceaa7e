package sitecrawl

import "context"

// Page is an HTML response retrieved by a Fetcher.
type Page struct {
	URL         string
	StatusCode  int
	ContentType string

	// HTML is the decoded body. Malformed byte sequences have been dropped.
	HTML string
}

// Fetcher retrieves HTML pages over HTTP.
type Fetcher interface {
	// Fetch performs a single GET for the URL. Any status code is returned
	// as a Page as long as the response declares an HTML content type.
	// Returns ENOTHTML for other content types and EFETCH for transport
	// failures and timeouts. Implementations never retry.
	Fetch(ctx context.Context, url string) (*Page, error)

	// Close releases resources held by the fetcher.
	Close() error
}
