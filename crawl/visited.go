package crawl

import "github.com/fwojciec/sitecrawl/bloom"

// Bloom filter sizing for the visited set.
const (
	visitedFalsePositiveRate = 0.01
	minVisitedExpected       = 1024
)

// visitedSet is an exact set of canonical URLs fronted by a Bloom filter.
// A negative filter answer skips the map lookup; a positive one is
// confirmed against the map, so false positives never drop a URL.
// It is not safe for concurrent use.
type visitedSet struct {
	filter *bloom.Filter
	urls   map[string]struct{}
}

func newVisitedSet(expected int) *visitedSet {
	n := max(expected, minVisitedExpected)
	return &visitedSet{
		filter: bloom.NewFilter(uint(n), visitedFalsePositiveRate),
		urls:   make(map[string]struct{}, expected),
	}
}

// Contains reports whether url has been added.
func (s *visitedSet) Contains(url string) bool {
	if !s.filter.Test(url) {
		return false
	}
	_, ok := s.urls[url]
	return ok
}

// Add inserts url and returns false if it was already present.
func (s *visitedSet) Add(url string) bool {
	if s.filter.TestAndAdd(url) {
		if _, ok := s.urls[url]; ok {
			return false
		}
	}
	s.urls[url] = struct{}{}
	return true
}

// Len returns the number of URLs in the set.
func (s *visitedSet) Len() int {
	return len(s.urls)
}
