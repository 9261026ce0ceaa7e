package sitecrawl

import (
	"strconv"
)

// Outcome is the terminal classification of a visited URL.
// Positive values are HTTP status codes; negative values are sentinels.
type Outcome int

// Sentinel outcomes for URLs that were not fetched or whose fetch failed.
const (
	OutcomeDisallowed  Outcome = -1
	OutcomeOutOfDomain Outcome = -2
	OutcomeError       Outcome = -3
)

// Sentinel names as rendered in reports.
const (
	DisallowedByRobots = "DISALLOWED_BY_ROBOTS"
	OutOfDomain        = "OUT_OF_DOMAIN"
	FetchError         = "ERROR"
)

// StatusOutcome returns the outcome for an HTTP status code.
func StatusOutcome(code int) Outcome {
	return Outcome(code)
}

// StatusCode returns the HTTP status code and true if the outcome is a status.
func (o Outcome) StatusCode() (int, bool) {
	if o > 0 {
		return int(o), true
	}
	return 0, false
}

// Fetched reports whether a fetch was attempted for the URL.
// Both status outcomes and OutcomeError count as fetched.
func (o Outcome) Fetched() bool {
	return o > 0 || o == OutcomeError
}

// String returns the status number or the sentinel name.
func (o Outcome) String() string {
	switch o {
	case OutcomeDisallowed:
		return DisallowedByRobots
	case OutcomeOutOfDomain:
		return OutOfDomain
	case OutcomeError:
		return FetchError
	}
	return strconv.Itoa(int(o))
}

// ParseOutcome parses the output of Outcome.String.
func ParseOutcome(s string) (Outcome, error) {
	switch s {
	case DisallowedByRobots:
		return OutcomeDisallowed, nil
	case OutOfDomain:
		return OutcomeOutOfDomain, nil
	case FetchError:
		return OutcomeError, nil
	}
	code, err := strconv.Atoi(s)
	if err != nil || code <= 0 {
		return 0, Errorf(EINVALID, "invalid outcome %q", s)
	}
	return StatusOutcome(code), nil
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Outcome) UnmarshalText(text []byte) error {
	v, err := ParseOutcome(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// Result is the recorded outcome for one canonical URL.
type Result struct {
	URL     string  `json:"url"`
	Outcome Outcome `json:"outcome"`

	// ContentHash and Bytes describe the HTML body for status outcomes.
	// They are empty for sentinel outcomes.
	ContentHash string `json:"contentHash,omitempty"`
	Bytes       int    `json:"bytes,omitempty"`
}

// Results maps canonical URLs to results, preserving insertion order.
// It is not safe for concurrent use; the crawl frontier guards it.
type Results struct {
	order []string
	byURL map[string]Result
}

// NewResults returns an empty Results.
func NewResults() *Results {
	return &Results{byURL: make(map[string]Result)}
}

// Add records a result. It returns false if the URL already has one;
// results are written once and never overwritten.
func (r *Results) Add(res Result) bool {
	if _, ok := r.byURL[res.URL]; ok {
		return false
	}
	r.byURL[res.URL] = res
	r.order = append(r.order, res.URL)
	return true
}

// Get returns the result for a URL.
func (r *Results) Get(url string) (Result, bool) {
	res, ok := r.byURL[url]
	return res, ok
}

// Len returns the number of results.
func (r *Results) Len() int {
	return len(r.order)
}

// All returns every result in insertion order.
func (r *Results) All() []Result {
	all := make([]Result, 0, len(r.order))
	for _, u := range r.order {
		all = append(all, r.byURL[u])
	}
	return all
}

// Outcomes returns the plain URL to outcome mapping.
func (r *Results) Outcomes() map[string]Outcome {
	m := make(map[string]Outcome, len(r.byURL))
	for u, res := range r.byURL {
		m[u] = res.Outcome
	}
	return m
}

// Summary counts results by rendered outcome (e.g. "200", "ERROR").
func (r *Results) Summary() map[string]int {
	m := make(map[string]int)
	for _, res := range r.byURL {
		m[res.Outcome.String()]++
	}
	return m
}

// Duplicates groups fetched URLs whose bodies hashed identically.
// Only groups with more than one URL are returned, keyed by content hash,
// with URLs in insertion order.
func (r *Results) Duplicates() map[string][]string {
	groups := make(map[string][]string)
	for _, u := range r.order {
		res := r.byURL[u]
		if res.ContentHash == "" {
			continue
		}
		groups[res.ContentHash] = append(groups[res.ContentHash], u)
	}
	for hash, urls := range groups {
		if len(urls) < 2 {
			delete(groups, hash)
		}
	}
	return groups
}
