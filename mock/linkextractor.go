package mock

import "github.com/fwojciec/sitecrawl"

var _ sitecrawl.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of sitecrawl.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string) ([]string, error)
}

func (e *LinkExtractor) ExtractLinks(html string) ([]string, error) {
	return e.ExtractLinksFn(html)
}
