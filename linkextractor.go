package sitecrawl

// LinkExtractor finds candidate links in HTML.
type LinkExtractor interface {
	// ExtractLinks returns the href attribute of every anchor element in
	// document order, without resolution or filtering.
	// Malformed markup is tolerated; implementations return whatever links
	// they could find.
	ExtractLinks(html string) ([]string, error)
}
