package main

import (
	"fmt"

	"github.com/fwojciec/sitecrawl"
)

// Run executes the sessions command.
func (c *SessionsCmd) Run(deps *Dependencies) error {
	filter := sitecrawl.SessionFilter{Limit: c.Limit}
	if c.URL != "" {
		filter.StartURL = &c.URL
	}

	sessions, err := deps.Sessions.FindSessions(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitecrawl.ErrorMessage(err))
		return err
	}

	if len(sessions) == 0 {
		fmt.Fprintln(deps.Stdout, "No sessions found. Use 'sitecrawl crawl --save' to create one.")
		return nil
	}

	for _, s := range sessions {
		fmt.Fprintf(deps.Stdout, "%s  %s  %d  %s\n", s.ID, s.StartedAt.Format("2006-01-02 15:04:05"), s.Total, s.StartURL)
	}

	return nil
}
