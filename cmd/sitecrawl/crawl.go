package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fwojciec/sitecrawl"
	"github.com/fwojciec/sitecrawl/crawl"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	if c.Progress {
		deps.Crawler.Progress = func(e crawl.ProgressEvent) {
			if e.Type == crawl.ProgressRecorded {
				fmt.Fprintf(deps.Stderr, "[%d] %s %s\n", e.Completed, e.Outcome, crawl.TruncateURL(e.URL, 100))
			}
		}
	}

	startedAt := time.Now().UTC()
	results, err := deps.Crawler.Crawl(deps.Ctx, c.URL)
	finishedAt := time.Now().UTC()
	if results == nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitecrawl.ErrorMessage(err))
		return err
	}

	interrupted := errors.Is(err, context.Canceled)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "warning: crawl stopped early: %v\n", err)
	}

	all := results.All()
	printResults(deps, all, finishedAt.Sub(startedAt), c.Sample)
	fmt.Fprintf(deps.Stdout, "Summary: %s\n", crawl.FormatSummary(results.Summary()))
	if dups := results.Duplicates(); len(dups) > 0 {
		var n int
		for _, urls := range dups {
			n += len(urls)
		}
		fmt.Fprintf(deps.Stdout, "Duplicate content: %d groups across %d URLs\n", len(dups), n)
	}

	session := &sitecrawl.Session{
		StartURL:   c.URL,
		Config:     deps.Config,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
	}

	// The crawl context may already be canceled; archiving still runs.
	ctx := context.WithoutCancel(deps.Ctx)

	if c.Save {
		if err := deps.Sessions.CreateSession(ctx, session, all); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", sitecrawl.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Saved session %s\n", session.ID)
	}

	if deps.Reports != nil {
		session.Total = len(all)
		if err := deps.Reports.WriteReport(ctx, session, all); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", sitecrawl.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Wrote %d results to %s\n", len(all), c.Out)
	}

	if interrupted {
		return err
	}
	return nil
}

// printResults prints the result count, elapsed time and the first sample
// results in recorded order.
func printResults(deps *Dependencies, results []sitecrawl.Result, elapsed time.Duration, sample int) {
	fmt.Fprintf(deps.Stdout, "Crawled %d pages in %.1fs\n", len(results), elapsed.Seconds())
	fmt.Fprintln(deps.Stdout, "Sample results:")
	for i, r := range results {
		if i >= sample {
			break
		}
		fmt.Fprintf(deps.Stdout, "%d %s %s\n", i+1, r.Outcome, r.URL)
	}
}
