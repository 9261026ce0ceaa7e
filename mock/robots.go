package mock

import (
	"context"
	"time"

	"github.com/fwojciec/sitecrawl"
)

var (
	_ sitecrawl.RobotsPolicy = (*RobotsPolicy)(nil)
	_ sitecrawl.RobotsLoader = (*RobotsLoader)(nil)
)

// RobotsPolicy is a mock implementation of sitecrawl.RobotsPolicy.
type RobotsPolicy struct {
	CanFetchFn   func(userAgent, rawURL string) bool
	CrawlDelayFn func(userAgent string) time.Duration
}

func (p *RobotsPolicy) CanFetch(userAgent, rawURL string) bool {
	return p.CanFetchFn(userAgent, rawURL)
}

func (p *RobotsPolicy) CrawlDelay(userAgent string) time.Duration {
	return p.CrawlDelayFn(userAgent)
}

// RobotsLoader is a mock implementation of sitecrawl.RobotsLoader.
type RobotsLoader struct {
	LoadRobotsFn func(ctx context.Context, siteURL string) (sitecrawl.RobotsPolicy, error)
}

func (l *RobotsLoader) LoadRobots(ctx context.Context, siteURL string) (sitecrawl.RobotsPolicy, error) {
	return l.LoadRobotsFn(ctx, siteURL)
}
