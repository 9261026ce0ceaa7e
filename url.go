package sitecrawl

import (
	"net/url"
	"strings"
)

// rejectedPrefixes are href prefixes that never name a crawlable page.
var rejectedPrefixes = []string{"javascript:", "mailto:", "tel:", "#"}

// Normalizer turns discovered hrefs into canonical absolute URLs.
type Normalizer struct {
	// StripQuery removes the query string from normalized URLs.
	StripQuery bool
}

// Normalize resolves href against base and strips the fragment.
// It returns false for empty hrefs, same-page anchors, non-navigational
// schemes (javascript:, mailto:, tel:), and anything that fails to parse.
func (n Normalizer) Normalize(base, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}
	lower := strings.ToLower(href)
	for _, prefix := range rejectedPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return "", false
		}
	}

	b, err := url.Parse(base)
	if err != nil {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}

	resolved := b.ResolveReference(ref)
	resolved.Fragment = ""
	resolved.RawFragment = ""
	if n.StripQuery {
		resolved.RawQuery = ""
		resolved.ForceQuery = false
	}
	return resolved.String(), true
}

// NormalizeLink normalizes href against base, preserving query strings.
func NormalizeLink(base, href string) (string, bool) {
	return Normalizer{}.Normalize(base, href)
}

// Canonicalize validates a seed URL and returns it without its fragment.
// The URL must be absolute with an http or https scheme and a host.
func Canonicalize(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", Errorf(EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", Errorf(EINVALID, "URL %q must use http or https", rawURL)
	}
	if u.Host == "" {
		return "", Errorf(EINVALID, "URL %q has no host", rawURL)
	}
	u.Fragment = ""
	u.RawFragment = ""
	return u.String(), nil
}

// Hostname returns the host of rawURL without port, or "" if it does not parse.
func Hostname(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// SameHost reports whether two URLs share a byte-equal host.
// Scheme and port are ignored; subdomains and www. are distinct hosts.
func SameHost(a, b string) bool {
	ha, hb := Hostname(a), Hostname(b)
	return ha != "" && ha == hb
}
