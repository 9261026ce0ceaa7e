package sitecrawl

import (
	"context"
	"time"
)

// RobotsPolicy answers allow/deny questions for one site's robots.txt.
type RobotsPolicy interface {
	// CanFetch reports whether userAgent may fetch rawURL.
	CanFetch(userAgent, rawURL string) bool

	// CrawlDelay returns the Crawl-delay for userAgent, or 0 if none is set.
	CrawlDelay(userAgent string) time.Duration
}

// RobotsLoader fetches and parses a site's robots.txt once per crawl.
type RobotsLoader interface {
	// LoadRobots loads the policy for the site that siteURL belongs to.
	// On failure it returns AllowAllRobots together with the error, so
	// callers can log the error and fail open.
	LoadRobots(ctx context.Context, siteURL string) (RobotsPolicy, error)
}

// AllowAllRobots is the fail-open policy used when robots.txt is unavailable.
var AllowAllRobots RobotsPolicy = allowAll{}

type allowAll struct{}

func (allowAll) CanFetch(string, string) bool { return true }
func (allowAll) CrawlDelay(string) time.Duration { return 0 }
