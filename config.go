package sitecrawl

import "time"

// Default crawl settings.
const (
	DefaultMaxPages        = 500
	DefaultConcurrency     = 8
	DefaultRequestTimeout  = 15 * time.Second
	DefaultPolitenessDelay = 500 * time.Millisecond
	DefaultUserAgent       = "SimpleCrawler/1.0"
)

// Config controls a single crawl. It is resolved once by the caller and
// passed to the crawler; nothing below the entry point reads the environment.
type Config struct {
	// MaxPages caps the number of URLs given a terminal outcome.
	MaxPages int `yaml:"max_pages" json:"maxPages"`

	// Concurrency bounds both the worker count and simultaneous fetches.
	Concurrency int `yaml:"concurrency" json:"concurrency"`

	// RequestTimeout bounds each fetch.
	RequestTimeout time.Duration `yaml:"request_timeout" json:"requestTimeout"`

	// PolitenessDelay is slept after each fetch while still holding the fetch permit.
	PolitenessDelay time.Duration `yaml:"politeness_delay" json:"politenessDelay"`

	// UserAgent is sent on every request, including the robots.txt fetch.
	UserAgent string `yaml:"user_agent" json:"userAgent"`

	// StripQuery drops query strings during normalization so that
	// query variants of a path collapse into one URL.
	StripQuery bool `yaml:"strip_query" json:"stripQuery"`

	// UseSitemaps seeds the frontier with URLs from the site's sitemaps.
	UseSitemaps bool `yaml:"use_sitemaps" json:"useSitemaps"`

	// RespectCrawlDelay enforces the robots.txt Crawl-delay between fetches.
	RespectCrawlDelay bool `yaml:"respect_crawl_delay" json:"respectCrawlDelay"`

	// CrawlTimeout bounds the whole crawl. Zero means no limit.
	CrawlTimeout time.Duration `yaml:"crawl_timeout" json:"crawlTimeout"`
}

// DefaultConfig returns the default crawl configuration.
func DefaultConfig() Config {
	return Config{
		MaxPages:        DefaultMaxPages,
		Concurrency:     DefaultConcurrency,
		RequestTimeout:  DefaultRequestTimeout,
		PolitenessDelay: DefaultPolitenessDelay,
		UserAgent:       DefaultUserAgent,
	}
}

// Validate returns an error if the configuration contains invalid fields.
func (c *Config) Validate() error {
	if c.MaxPages <= 0 {
		return Errorf(EINVALID, "max pages must be positive")
	}
	if c.Concurrency <= 0 {
		return Errorf(EINVALID, "concurrency must be positive")
	}
	if c.RequestTimeout <= 0 {
		return Errorf(EINVALID, "request timeout must be positive")
	}
	if c.PolitenessDelay < 0 {
		return Errorf(EINVALID, "politeness delay must not be negative")
	}
	if c.CrawlTimeout < 0 {
		return Errorf(EINVALID, "crawl timeout must not be negative")
	}
	if c.UserAgent == "" {
		return Errorf(EINVALID, "user agent required")
	}
	return nil
}
