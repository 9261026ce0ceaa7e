package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/sitecrawl"
	"github.com/fwojciec/sitecrawl/crawl"
	"github.com/fwojciec/sitecrawl/fs"
	"github.com/fwojciec/sitecrawl/goquery"
	crawlhttp "github.com/fwojciec/sitecrawl/http"
	crawlslog "github.com/fwojciec/sitecrawl/slog"
	"github.com/fwojciec/sitecrawl/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	SessionService sitecrawl.SessionService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB == nil {
		return nil
	}
	err := m.DB.Close()
	m.DB = nil
	m.SessionService = nil
	return err
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sitecrawl"),
		kong.Description("Crawl a single website and report the outcome of every discovered URL"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'sitecrawl --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	isCrawl := strings.HasPrefix(kongCtx.Command(), "crawl")

	// Open database only for commands that use the session archive
	if !isCrawl || cli.Crawl.Save {
		if err := m.openSessions(stderr); err != nil {
			return err
		}
		defer m.Close()
		deps.Sessions = m.SessionService
	}

	if isCrawl {
		cfg, err := cli.Crawl.ResolveConfig()
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", sitecrawl.ErrorMessage(err))
			return err
		}
		deps.Config = cfg
		deps.Crawler = newCrawler(cfg, cli.Crawl.Verbose, stderr)
		defer deps.Crawler.Fetcher.Close()

		if cli.Crawl.Out != "" {
			deps.Reports = fs.NewReportWriter(cli.Crawl.Out)
		}
	}

	return kongCtx.Run(deps)
}

func (m *Main) openSessions(stderr io.Writer) error {
	if m.SessionService != nil {
		return nil
	}
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set SITECRAWL_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	m.SessionService = sqlite.NewSessionService(m.DB)
	return nil
}

// newCrawler wires the HTTP, goquery and logging implementations for cfg.
func newCrawler(cfg sitecrawl.Config, verbose bool, stderr io.Writer) *crawl.Crawler {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	client := &http.Client{Timeout: cfg.RequestTimeout}

	var (
		fetcher  sitecrawl.Fetcher        = crawlhttp.NewFetcher(crawlhttp.WithTimeout(cfg.RequestTimeout), crawlhttp.WithUserAgent(cfg.UserAgent))
		links    sitecrawl.LinkExtractor  = goquery.NewLinkExtractor()
		robots   sitecrawl.RobotsLoader   = crawlhttp.NewRobotsLoader(client, cfg.UserAgent)
		sitemaps sitecrawl.SitemapService = crawlhttp.NewSitemapService(client, cfg.UserAgent)
	)
	if verbose {
		fetcher = crawlslog.NewLoggingFetcher(fetcher, logger)
		links = crawlslog.NewLoggingLinkExtractor(links, logger)
		robots = crawlslog.NewLoggingRobotsLoader(robots, logger)
		sitemaps = crawlslog.NewLoggingSitemapService(sitemaps, logger)
	}

	return &crawl.Crawler{
		Fetcher:  fetcher,
		Links:    links,
		Robots:   robots,
		Sitemaps: sitemaps,
		Config:   cfg,
		Logger:   logger,
	}
}

func defaultDBPath() string {
	if path := os.Getenv("SITECRAWL_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "sitecrawl.db"
	}
	dir := filepath.Join(home, ".sitecrawl")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "sitecrawl.db")
}
