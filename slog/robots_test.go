package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/fwojciec/sitecrawl"
	"github.com/fwojciec/sitecrawl/mock"
	crawlslog "github.com/fwojciec/sitecrawl/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingRobotsLoader_LoadRobots(t *testing.T) {
	t.Parallel()

	t.Run("logs crawl delay and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		policy := &mock.RobotsPolicy{
			CrawlDelayFn: func(string) time.Duration { return 2 * time.Second },
		}
		inner := &mock.RobotsLoader{
			LoadRobotsFn: func(ctx context.Context, siteURL string) (sitecrawl.RobotsPolicy, error) {
				return policy, nil
			},
		}

		loader := crawlslog.NewLoggingRobotsLoader(inner, logger)
		got, err := loader.LoadRobots(context.Background(), "https://example.com/")

		require.NoError(t, err)
		assert.Same(t, policy, got)
		output := buf.String()
		assert.Contains(t, output, "robots")
		assert.Contains(t, output, "url=https://example.com/")
		assert.Contains(t, output, "crawlDelay=2s")
	})

	t.Run("logs error and passes fallback policy through", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.RobotsLoader{
			LoadRobotsFn: func(ctx context.Context, siteURL string) (sitecrawl.RobotsPolicy, error) {
				return sitecrawl.AllowAllRobots, errors.New("HTTP 503")
			},
		}

		policy, err := crawlslog.NewLoggingRobotsLoader(inner, logger).LoadRobots(context.Background(), "https://example.com/")

		require.Error(t, err)
		assert.Equal(t, sitecrawl.AllowAllRobots, policy)
		assert.Contains(t, buf.String(), "err=\"HTTP 503\"")
	})
}
