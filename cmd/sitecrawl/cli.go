package main

import (
	"context"
	"io"
	"time"

	"github.com/fwojciec/sitecrawl"
	"github.com/fwojciec/sitecrawl/crawl"
	"github.com/fwojciec/sitecrawl/yaml"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Sessions sitecrawl.SessionService
	Reports  sitecrawl.ReportWriter
	Crawler  *crawl.Crawler
	Config   sitecrawl.Config
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Crawl    CrawlCmd    `cmd:"" help:"Crawl a website starting from a URL"`
	Sessions SessionsCmd `cmd:"" help:"List saved crawl sessions"`
	Show     ShowCmd     `cmd:"" help:"Show the results of a saved session"`
	Delete   DeleteCmd   `cmd:"" help:"Delete a saved session"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URL          string        `arg:"" help:"Start URL"`
	Config       string        `short:"C" type:"path" help:"YAML config file"`
	MaxPages     int           `short:"n" help:"Maximum number of URLs to record (default 500)"`
	Concurrency  int           `short:"c" help:"Concurrent fetch limit (default 8)"`
	Timeout      time.Duration `help:"Per-request timeout (default 15s)"`
	Delay        time.Duration `help:"Politeness delay after each fetch (default 500ms)"`
	NoDelay      bool          `help:"Disable the politeness delay"`
	UserAgent    string        `name:"user-agent" help:"User-Agent header"`
	StripQuery   bool          `help:"Treat URLs differing only by query string as one"`
	Sitemaps     bool          `help:"Seed the crawl from the site's sitemaps"`
	CrawlDelay   bool          `help:"Respect the robots.txt Crawl-delay"`
	CrawlTimeout time.Duration `help:"Stop the crawl after this long"`
	Sample       int           `default:"50" help:"Number of results to print"`
	Save         bool          `help:"Save the session to the database"`
	Out          string        `short:"o" type:"path" help:"Write all results to a JSON file"`
	Progress     bool          `help:"Print each recorded URL to stderr"`
	Verbose      bool          `short:"v" help:"Log collaborator calls to stderr"`
}

// ResolveConfig builds the crawl configuration from defaults, the optional
// config file and the flags that were set, in that order.
func (c *CrawlCmd) ResolveConfig() (sitecrawl.Config, error) {
	cfg := sitecrawl.DefaultConfig()

	if c.Config != "" {
		var err error
		if cfg, err = yaml.LoadConfig(c.Config, cfg); err != nil {
			return sitecrawl.Config{}, err
		}
	}

	if c.MaxPages > 0 {
		cfg.MaxPages = c.MaxPages
	}
	if c.Concurrency > 0 {
		cfg.Concurrency = c.Concurrency
	}
	if c.Timeout > 0 {
		cfg.RequestTimeout = c.Timeout
	}
	if c.Delay > 0 {
		cfg.PolitenessDelay = c.Delay
	}
	if c.NoDelay {
		cfg.PolitenessDelay = 0
	}
	if c.UserAgent != "" {
		cfg.UserAgent = c.UserAgent
	}
	if c.StripQuery {
		cfg.StripQuery = true
	}
	if c.Sitemaps {
		cfg.UseSitemaps = true
	}
	if c.CrawlDelay {
		cfg.RespectCrawlDelay = true
	}
	if c.CrawlTimeout > 0 {
		cfg.CrawlTimeout = c.CrawlTimeout
	}

	if err := cfg.Validate(); err != nil {
		return sitecrawl.Config{}, err
	}
	return cfg, nil
}

// SessionsCmd is the "sessions" subcommand.
type SessionsCmd struct {
	URL   string `help:"Only list sessions for this start URL"`
	Limit int    `default:"20" help:"Maximum number of sessions to list"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID   string `arg:"" help:"Session ID"`
	JSON bool   `name:"json" help:"Print the session as JSON"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	ID    string `arg:"" help:"Session ID"`
	Force bool   `help:"Confirm deletion"`
}
