package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitecrawl"
)

// Ensure LoggingRobotsLoader implements sitecrawl.RobotsLoader.
var _ sitecrawl.RobotsLoader = (*LoggingRobotsLoader)(nil)

// LoggingRobotsLoader wraps a RobotsLoader with logging.
type LoggingRobotsLoader struct {
	next   sitecrawl.RobotsLoader
	logger *slog.Logger
}

// NewLoggingRobotsLoader creates a new LoggingRobotsLoader.
func NewLoggingRobotsLoader(next sitecrawl.RobotsLoader, logger *slog.Logger) *LoggingRobotsLoader {
	return &LoggingRobotsLoader{next: next, logger: logger}
}

// LoadRobots delegates to the wrapped loader and logs the operation.
func (l *LoggingRobotsLoader) LoadRobots(ctx context.Context, siteURL string) (policy sitecrawl.RobotsPolicy, err error) {
	defer func(begin time.Time) {
		var delay time.Duration
		if policy != nil {
			delay = policy.CrawlDelay("*")
		}
		l.logger.Info("robots",
			"url", siteURL,
			"crawlDelay", delay,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.LoadRobots(ctx, siteURL)
}
