package crawl

import (
	"context"
	"sync"

	"github.com/fwojciec/sitecrawl"
)

// Frontier is the shared state of one crawl: a FIFO work queue, the visited
// set, and the results. It is safe for concurrent use by multiple goroutines.
//
// The queue may hold duplicates. Next collapses them: popping an item and
// checking-then-inserting it into the visited set happen under one lock, so
// each URL is handed to at most one worker.
//
// Every accepted Push counts as one pending item that must be finished,
// either by Next discarding it or by the worker calling Done. When nothing is
// pending the frontier is drained and all blocked Next calls return.
type Frontier struct {
	mu       sync.Mutex
	queue    []string
	visited  *visitedSet
	results  *sitecrawl.Results
	maxPages int
	pending  int
	fetches  int

	// changed is closed and replaced whenever the queue grows.
	changed chan struct{}
	// drained is closed once pending reaches zero.
	drained   chan struct{}
	isDrained bool
}

// NewFrontier creates an empty frontier that claims at most maxPages URLs.
func NewFrontier(maxPages int) *Frontier {
	return &Frontier{
		visited:  newVisitedSet(maxPages),
		results:  sitecrawl.NewResults(),
		maxPages: maxPages,
		changed:  make(chan struct{}),
		drained:  make(chan struct{}),
	}
}

// Push appends url to the queue.
// Returns false if the URL was already visited, the page cap has been
// reached, or the frontier has drained.
func (f *Frontier) Push(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.isDrained || f.cappedLocked() || f.visited.Contains(url) {
		return false
	}
	f.queue = append(f.queue, url)
	f.pending++
	close(f.changed)
	f.changed = make(chan struct{})
	return true
}

// Next blocks until it can claim a URL for processing.
// A claimed URL is in the visited set before Next returns, and the caller
// must call Done once it has recorded the URL's outcome.
// Queued duplicates and items past the page cap are discarded.
// Returns false when the frontier drains or ctx is canceled.
func (f *Frontier) Next(ctx context.Context) (string, bool) {
	for {
		f.mu.Lock()
		for len(f.queue) > 0 {
			url := f.queue[0]
			f.queue[0] = ""
			f.queue = f.queue[1:]

			if f.cappedLocked() || !f.visited.Add(url) {
				f.doneLocked()
				continue
			}
			f.mu.Unlock()
			return url, true
		}
		if f.isDrained {
			f.mu.Unlock()
			return "", false
		}
		changed, drained := f.changed, f.drained
		f.mu.Unlock()

		select {
		case <-changed:
		case <-drained:
		case <-ctx.Done():
			return "", false
		}
	}
}

// Done marks one claimed URL as finished.
func (f *Frontier) Done() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.doneLocked()
}

func (f *Frontier) doneLocked() {
	f.pending--
	if f.pending == 0 && !f.isDrained {
		f.isDrained = true
		close(f.drained)
	}
}

// Drained returns a channel that is closed once all work has finished.
func (f *Frontier) Drained() <-chan struct{} {
	return f.drained
}

// Record stores the result for a claimed URL.
// Returns false if the URL already has a result.
func (f *Frontier) Record(res sitecrawl.Result) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.results.Add(res)
}

// CountFetch notes that a fetch attempt is about to start.
func (f *Frontier) CountFetch() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
}

// Fetches returns the number of fetch attempts started.
func (f *Frontier) Fetches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

// Seen returns true if the URL has been claimed by a worker.
func (f *Frontier) Seen(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visited.Contains(url)
}

// Capped reports whether the page cap has been reached.
func (f *Frontier) Capped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cappedLocked()
}

func (f *Frontier) cappedLocked() bool {
	return f.visited.Len() >= f.maxPages
}

// Len returns the number of URLs waiting in the queue, duplicates included.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Completed returns the number of recorded results.
func (f *Frontier) Completed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.results.Len()
}

// Results returns the recorded results.
// It must only be called once no worker is still recording.
func (f *Frontier) Results() *sitecrawl.Results {
	return f.results
}
