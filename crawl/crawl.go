// Package crawl provides same-host crawling orchestration.
// It coordinates robots evaluation, fetching, link extraction, and the
// bookkeeping that maps every discovered URL to exactly one outcome.
package crawl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/fwojciec/sitecrawl"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Crawler crawls a single host starting from a seed URL.
type Crawler struct {
	Fetcher  sitecrawl.Fetcher
	Links    sitecrawl.LinkExtractor
	Robots   sitecrawl.RobotsLoader
	Sitemaps sitecrawl.SitemapService

	// RateLimiter spaces fetches per host. When nil and
	// Config.RespectCrawlDelay is set, one is built from the robots
	// Crawl-delay.
	RateLimiter sitecrawl.DomainLimiter

	Config   sitecrawl.Config
	Progress ProgressFunc
	Logger   *slog.Logger
}

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type      ProgressType
	URL       string
	Outcome   sitecrawl.Outcome
	Completed int
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressRecorded
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
// Calls are serialized.
type ProgressFunc func(event ProgressEvent)

// run holds the per-crawl state shared by workers.
type run struct {
	*Crawler
	cfg        sitecrawl.Config
	logger     *slog.Logger
	frontier   *Frontier
	gate       *Gate
	normalizer sitecrawl.Normalizer
	permits    *semaphore.Weighted
	limiter    sitecrawl.DomainLimiter

	progressMu sync.Mutex
}

// Crawl visits every reachable same-host page from startURL, bounded by
// Config.MaxPages, and returns the outcome of every URL it dequeued.
//
// Per-URL failures are recorded as outcomes and never returned. The error
// is non-nil only for invalid input, or when ctx (or Config.CrawlTimeout)
// ends the crawl early, in which case the partial results are returned
// alongside ctx.Err().
func (c *Crawler) Crawl(ctx context.Context, startURL string) (*sitecrawl.Results, error) {
	cfg := c.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	start, err := sitecrawl.Canonicalize(startURL)
	if err != nil {
		return nil, err
	}
	if c.Fetcher == nil || c.Links == nil {
		return nil, sitecrawl.Errorf(sitecrawl.EINVALID, "crawler requires a fetcher and a link extractor")
	}

	if cfg.CrawlTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.CrawlTimeout)
		defer cancel()
	}

	begin := time.Now()
	r := &run{
		Crawler:    c,
		cfg:        cfg,
		logger:     c.logger(),
		frontier:   NewFrontier(cfg.MaxPages),
		normalizer: sitecrawl.Normalizer{StripQuery: cfg.StripQuery},
		permits:    semaphore.NewWeighted(int64(cfg.Concurrency)),
	}

	robots := r.loadRobots(ctx, start)
	r.gate = NewGate(start, robots)
	r.limiter = r.domainLimiter(robots)

	r.frontier.Push(start)
	if cfg.UseSitemaps && c.Sitemaps != nil {
		r.seedSitemaps(ctx, start)
	}

	r.notify(ProgressEvent{Type: ProgressStarted, URL: start})

	g, gctx := errgroup.WithContext(ctx)
	for range cfg.Concurrency {
		g.Go(func() error {
			for {
				url, ok := r.frontier.Next(gctx)
				if !ok {
					return nil
				}
				r.process(gctx, url)
				r.frontier.Done()
			}
		})
	}
	_ = g.Wait()

	results := r.frontier.Results()
	r.notify(ProgressEvent{Type: ProgressFinished, URL: start, Completed: results.Len()})
	r.logger.Info("crawl",
		"url", start,
		"results", results.Len(),
		"fetches", r.frontier.Fetches(),
		"duration", time.Since(begin),
		"err", ctx.Err(),
	)
	return results, ctx.Err()
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// loadRobots fetches the robots policy for the start URL's origin.
// Loading never fails the crawl: on error the crawl proceeds allow-all.
func (r *run) loadRobots(ctx context.Context, start string) sitecrawl.RobotsPolicy {
	if r.Robots == nil {
		return sitecrawl.AllowAllRobots
	}
	policy, err := r.Robots.LoadRobots(ctx, start)
	if err != nil {
		r.logger.Warn("robots unavailable, allowing all", "url", start, "err", err)
	}
	if policy == nil {
		return sitecrawl.AllowAllRobots
	}
	return policy
}

func (r *run) domainLimiter(robots sitecrawl.RobotsPolicy) sitecrawl.DomainLimiter {
	if r.RateLimiter != nil {
		return r.RateLimiter
	}
	if !r.cfg.RespectCrawlDelay {
		return nil
	}
	if d := robots.CrawlDelay(wildcardAgent); d > 0 {
		r.logger.Info("honoring crawl-delay", "delay", d)
		return NewDomainLimiter(d)
	}
	return nil
}

// seedSitemaps queues sitemap URLs after the start URL.
// They pass through the same gate and cap as discovered links.
func (r *run) seedSitemaps(ctx context.Context, start string) {
	urls, err := r.Sitemaps.DiscoverURLs(ctx, start)
	if err != nil {
		r.logger.Warn("sitemap discovery failed", "url", start, "err", err)
		return
	}
	var queued int
	for _, u := range urls {
		if canonical, ok := r.normalizer.Normalize(start, u); ok && r.frontier.Push(canonical) {
			queued++
		}
	}
	r.logger.Info("sitemap seeded", "url", start, "found", len(urls), "queued", queued)
}

// process assigns exactly one outcome to a claimed URL, unless the crawl is
// canceled mid-fetch, in which case the URL is abandoned unrecorded.
func (r *run) process(ctx context.Context, url string) {
	if outcome, ok := r.gate.Classify(url); !ok {
		r.record(sitecrawl.Result{URL: url, Outcome: outcome})
		return
	}

	page, err := r.fetch(ctx, url)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		r.logger.Debug("fetch failed", "url", url, "err", err)
		r.record(sitecrawl.Result{URL: url, Outcome: sitecrawl.OutcomeError})
		return
	}

	r.record(sitecrawl.Result{
		URL:         url,
		Outcome:     sitecrawl.StatusOutcome(page.StatusCode),
		ContentHash: ComputeHash(page.HTML),
		Bytes:       len(page.HTML),
	})

	if page.HTML == "" || r.frontier.Capped() {
		return
	}
	hrefs, err := r.Links.ExtractLinks(page.HTML)
	if err != nil {
		r.logger.Debug("link extraction failed", "url", url, "err", err)
	}
	for _, href := range hrefs {
		if link, ok := r.normalizer.Normalize(url, href); ok {
			r.frontier.Push(link)
		}
	}
}

// fetch performs one attempt while holding a fetch permit.
// The politeness delay runs before the permit is released.
func (r *run) fetch(ctx context.Context, url string) (*sitecrawl.Page, error) {
	if err := r.permits.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer r.permits.Release(1)

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx, sitecrawl.Hostname(url)); err != nil {
			return nil, err
		}
	}

	r.frontier.CountFetch()
	page, err := r.Fetcher.Fetch(ctx, url)
	sleep(ctx, r.cfg.PolitenessDelay)
	return page, err
}

func (r *run) record(res sitecrawl.Result) {
	if !r.frontier.Record(res) {
		r.logger.Error("result already recorded", "url", res.URL)
		return
	}
	r.notify(ProgressEvent{
		Type:      ProgressRecorded,
		URL:       res.URL,
		Outcome:   res.Outcome,
		Completed: r.frontier.Completed(),
	})
}

func (r *run) notify(event ProgressEvent) {
	if r.Progress == nil {
		return
	}
	r.progressMu.Lock()
	defer r.progressMu.Unlock()
	r.Progress(event)
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
