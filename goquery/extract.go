// Package goquery implements sitecrawl.LinkExtractor using goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sitecrawl"
)

// DefaultSelector matches every anchor that carries an href.
const DefaultSelector = "a[href]"

// Ensure LinkExtractor implements sitecrawl.LinkExtractor at compile time.
var _ sitecrawl.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor returns the raw href values of anchors in a page.
// Resolution and filtering are left to sitecrawl.Normalizer.
type LinkExtractor struct {
	selector string
}

// NewLinkExtractor creates a LinkExtractor using DefaultSelector.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{selector: DefaultSelector}
}

// NewLinkExtractorWithSelector creates a LinkExtractor with a custom CSS selector.
// Matched elements without an href are skipped.
func NewLinkExtractorWithSelector(selector string) *LinkExtractor {
	return &LinkExtractor{selector: selector}
}

// ExtractLinks parses html leniently and returns href values in document
// order. Empty and exactly repeated hrefs are dropped.
func (e *LinkExtractor) ExtractLinks(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, sitecrawl.Errorf(sitecrawl.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]bool)
	var hrefs []string
	doc.Find(e.selector).Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists {
			return
		}
		href = strings.TrimSpace(href)
		if href == "" || seen[href] {
			return
		}
		seen[href] = true
		hrefs = append(hrefs, href)
	})

	return hrefs, nil
}
