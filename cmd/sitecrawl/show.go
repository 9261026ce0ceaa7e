package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/sitecrawl"
	"github.com/fwojciec/sitecrawl/crawl"
	"github.com/fwojciec/sitecrawl/fs"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	session, err := deps.Sessions.FindSessionByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitecrawl.ErrorMessage(err))
		return err
	}

	results, err := deps.Sessions.FindResults(deps.Ctx, session.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitecrawl.ErrorMessage(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(fs.NewReport(session, results))
	}

	fmt.Fprintf(deps.Stdout, "Session %s\n", session.ID)
	fmt.Fprintf(deps.Stdout, "Start URL: %s\n", session.StartURL)
	fmt.Fprintf(deps.Stdout, "Started: %s (%.1fs)\n", session.StartedAt.Format("2006-01-02 15:04:05"), session.Duration().Seconds())

	summary := make(map[string]int)
	for i, r := range results {
		summary[r.Outcome.String()]++
		if r.Bytes > 0 {
			fmt.Fprintf(deps.Stdout, "%d %s %s (%s)\n", i+1, r.Outcome, r.URL, crawl.FormatBytes(r.Bytes))
			continue
		}
		fmt.Fprintf(deps.Stdout, "%d %s %s\n", i+1, r.Outcome, r.URL)
	}
	fmt.Fprintf(deps.Stdout, "Summary: %s\n", crawl.FormatSummary(summary))

	return nil
}
