package http

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/fwojciec/sitecrawl"
	"github.com/temoto/robotstxt"
)

var (
	_ sitecrawl.RobotsLoader = (*RobotsLoader)(nil)
	_ sitecrawl.RobotsPolicy = (*Robots)(nil)
)

// RobotsLoader fetches and parses robots.txt for a site origin.
type RobotsLoader struct {
	client    *http.Client
	userAgent string
}

// NewRobotsLoader creates a new RobotsLoader with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewRobotsLoader(client *http.Client, userAgent string) *RobotsLoader {
	if client == nil {
		client = http.DefaultClient
	}
	return &RobotsLoader{client: client, userAgent: userAgent}
}

// LoadRobots fetches /robots.txt from the origin of siteURL.
//
// A missing robots.txt (any 4xx) allows everything. Transport failures and
// 5xx responses return an error together with sitecrawl.AllowAllRobots, so
// callers that ignore the error crawl without restrictions.
func (l *RobotsLoader) LoadRobots(ctx context.Context, siteURL string) (sitecrawl.RobotsPolicy, error) {
	robotsURL, err := RobotsURL(siteURL)
	if err != nil {
		return sitecrawl.AllowAllRobots, err
	}

	data, err := l.fetch(ctx, robotsURL)
	if err != nil {
		return sitecrawl.AllowAllRobots, err
	}
	return &Robots{data: data}, nil
}

func (l *RobotsLoader) fetch(ctx context.Context, robotsURL string) (*robotstxt.RobotsData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, sitecrawl.Errorf(sitecrawl.EFETCH, "building robots request: %v", err)
	}
	if l.userAgent != "" {
		req.Header.Set("User-Agent", l.userAgent)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, sitecrawl.Errorf(sitecrawl.EFETCH, "fetching %s: %v", robotsURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, sitecrawl.Errorf(sitecrawl.EFETCH, "HTTP %d for %s", resp.StatusCode, robotsURL)
	}

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, sitecrawl.Errorf(sitecrawl.EFETCH, "parsing %s: %v", robotsURL, err)
	}
	return data, nil
}

// RobotsURL returns the robots.txt URL for the origin of rawURL.
func RobotsURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "", sitecrawl.Errorf(sitecrawl.EINVALID, "invalid site URL %q", rawURL)
	}
	return (&url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/robots.txt"}).String(), nil
}

// Robots is a parsed robots.txt policy.
type Robots struct {
	data *robotstxt.RobotsData
}

// ParseRobots parses robots.txt content.
func ParseRobots(body string) (*Robots, error) {
	data, err := robotstxt.FromString(body)
	if err != nil {
		return nil, sitecrawl.Errorf(sitecrawl.EINVALID, "parsing robots.txt: %v", err)
	}
	return &Robots{data: data}, nil
}

// CanFetch reports whether rules for userAgent permit fetching rawURL.
// Path and query are matched; unparseable URLs are refused.
func (r *Robots) CanFetch(userAgent, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return r.data.TestAgent(path, userAgent)
}

// CrawlDelay returns the Crawl-delay of the group matching userAgent.
func (r *Robots) CrawlDelay(userAgent string) time.Duration {
	group := r.data.FindGroup(userAgent)
	if group == nil {
		return 0
	}
	return group.CrawlDelay
}

// Sitemaps returns the Sitemap directives in the file.
func (r *Robots) Sitemaps() []string {
	return r.data.Sitemaps
}
