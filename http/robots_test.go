package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/sitecrawl"
	sitecrawlhttp "github.com/fwojciec/sitecrawl/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRobotsLoader_LoadRobots(t *testing.T) {
	t.Parallel()

	t.Run("applies disallow rules for wildcard agent", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/robots.txt": "User-agent: *\nDisallow: /private/\n",
		})
		defer srv.Close()

		loader := sitecrawlhttp.NewRobotsLoader(srv.Client(), "TestBot/1.0")
		robots, err := loader.LoadRobots(context.Background(), srv.URL+"/some/page")

		require.NoError(t, err)
		assert.True(t, robots.CanFetch("*", srv.URL+"/"))
		assert.True(t, robots.CanFetch("*", srv.URL+"/public"))
		assert.False(t, robots.CanFetch("*", srv.URL+"/private/secret"))
	})

	t.Run("allows everything when robots.txt is missing", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{})
		defer srv.Close()

		loader := sitecrawlhttp.NewRobotsLoader(srv.Client(), "TestBot/1.0")
		robots, err := loader.LoadRobots(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.True(t, robots.CanFetch("*", srv.URL+"/anything"))
	})

	t.Run("allows everything when robots.txt is forbidden", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		loader := sitecrawlhttp.NewRobotsLoader(srv.Client(), "TestBot/1.0")
		robots, err := loader.LoadRobots(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.True(t, robots.CanFetch("*", srv.URL+"/anything"))
	})

	t.Run("fails open on server error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		loader := sitecrawlhttp.NewRobotsLoader(srv.Client(), "TestBot/1.0")
		robots, err := loader.LoadRobots(context.Background(), srv.URL)

		assert.Equal(t, sitecrawl.EFETCH, sitecrawl.ErrorCode(err))
		require.NotNil(t, robots)
		assert.True(t, robots.CanFetch("*", srv.URL+"/anything"))
	})

	t.Run("fails open on transport error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		loader := sitecrawlhttp.NewRobotsLoader(nil, "TestBot/1.0")
		robots, err := loader.LoadRobots(context.Background(), url)

		require.Error(t, err)
		assert.True(t, robots.CanFetch("*", url+"/anything"))
	})

	t.Run("reads crawl delay", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/robots.txt": "User-agent: *\nCrawl-delay: 2\n",
		})
		defer srv.Close()

		loader := sitecrawlhttp.NewRobotsLoader(srv.Client(), "TestBot/1.0")
		robots, err := loader.LoadRobots(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Equal(t, 2*time.Second, robots.CrawlDelay("*"))
	})

	t.Run("rejects invalid site URL", func(t *testing.T) {
		t.Parallel()

		loader := sitecrawlhttp.NewRobotsLoader(nil, "TestBot/1.0")
		robots, err := loader.LoadRobots(context.Background(), "relative/path")

		assert.Equal(t, sitecrawl.EINVALID, sitecrawl.ErrorCode(err))
		assert.Equal(t, sitecrawl.AllowAllRobots, robots)
	})
}

func TestRobots_CanFetch(t *testing.T) {
	t.Parallel()

	robots, err := sitecrawlhttp.ParseRobots(`User-agent: *
Disallow: /search
Allow: /search/help

User-agent: OtherBot
Disallow: /
`)
	require.NoError(t, err)

	for url, want := range map[string]bool{
		"https://ex.com/":               true,
		"https://ex.com":                true,
		"https://ex.com/search":         false,
		"https://ex.com/search/results": false,
		"https://ex.com/search/help":    true,
		"https://ex.com/list?page=2":    true,
		"https://ex.com/about#team":     true,
	} {
		assert.Equal(t, want, robots.CanFetch("*", url), url)
	}

	assert.False(t, robots.CanFetch("OtherBot", "https://ex.com/"))
}

func TestRobots_Sitemaps(t *testing.T) {
	t.Parallel()

	robots, err := sitecrawlhttp.ParseRobots("Sitemap: https://ex.com/sitemap.xml\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://ex.com/sitemap.xml"}, robots.Sitemaps())
}

func TestRobotsURL(t *testing.T) {
	t.Parallel()

	got, err := sitecrawlhttp.RobotsURL("https://ex.com:8443/docs/page?q=1")
	require.NoError(t, err)
	assert.Equal(t, "https://ex.com:8443/robots.txt", got)
}
