package main_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/sitecrawl"
	main "github.com/fwojciec/sitecrawl/cmd/sitecrawl"
	"github.com/fwojciec/sitecrawl/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	helpOutput := stdout.String()
	for _, cmd := range []string{"crawl", "sessions", "show", "delete"} {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}
}

func TestCLI_ParsesCrawlFlags(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	parser, err := kong.New(cli, kong.Exit(func(int) {}))
	require.NoError(t, err)

	_, err = parser.Parse([]string{
		"crawl", "https://ex.com/",
		"--max-pages", "20",
		"--concurrency", "3",
		"--delay", "100ms",
		"--crawl-timeout", "1m",
		"--strip-query",
	})

	require.NoError(t, err)
	assert.Equal(t, "https://ex.com/", cli.Crawl.URL)
	assert.Equal(t, 20, cli.Crawl.MaxPages)
	assert.Equal(t, 3, cli.Crawl.Concurrency)
	assert.Equal(t, 100*time.Millisecond, cli.Crawl.Delay)
	assert.Equal(t, time.Minute, cli.Crawl.CrawlTimeout)
	assert.True(t, cli.Crawl.StripQuery)
	assert.Equal(t, 50, cli.Crawl.Sample)
}

func TestCrawlCmd_ResolveConfig(t *testing.T) {
	t.Parallel()

	t.Run("uses defaults without flags", func(t *testing.T) {
		t.Parallel()

		cfg, err := (&main.CrawlCmd{}).ResolveConfig()

		require.NoError(t, err)
		assert.Equal(t, sitecrawl.DefaultConfig(), cfg)
	})

	t.Run("flags override config file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "sitecrawl.yaml")
		require.NoError(t, os.WriteFile(path, []byte("max_pages: 50\nconcurrency: 2\nuser_agent: FileBot/1.0\n"), 0644))

		cmd := &main.CrawlCmd{Config: path, MaxPages: 10, Sitemaps: true}
		cfg, err := cmd.ResolveConfig()

		require.NoError(t, err)
		assert.Equal(t, 10, cfg.MaxPages)
		assert.Equal(t, 2, cfg.Concurrency)
		assert.Equal(t, "FileBot/1.0", cfg.UserAgent)
		assert.True(t, cfg.UseSitemaps)
	})

	t.Run("no-delay disables politeness delay", func(t *testing.T) {
		t.Parallel()

		cmd := &main.CrawlCmd{Delay: time.Second, NoDelay: true}
		cfg, err := cmd.ResolveConfig()

		require.NoError(t, err)
		assert.Zero(t, cfg.PolitenessDelay)
	})

	t.Run("returns error for missing config file", func(t *testing.T) {
		t.Parallel()

		cmd := &main.CrawlCmd{Config: filepath.Join(t.TempDir(), "missing.yaml")}
		_, err := cmd.ResolveConfig()

		assert.Equal(t, sitecrawl.ENOTFOUND, sitecrawl.ErrorCode(err))
	})
}

func TestMain_Run_HelpShowsKongOutput(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "test.db")

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"--help"}, stdout, stderr)
	require.NoError(t, err)

	helpOutput := stdout.String()
	assert.Contains(t, helpOutput, "Usage:")
	assert.Contains(t, helpOutput, "crawl")
}

func TestMain_Run_NoArgs(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "test.db")

	err := m.Run(context.Background(), nil, &bytes.Buffer{}, &bytes.Buffer{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
}

func newTestSite(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/{$}", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<html><body>
<a href="/about">About</a>
<a href="https://other.example/">Elsewhere</a>
<a href="/about#team">Team</a>
</body></html>`)
	})
	mux.HandleFunc("/about", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><body><a href="/">Home</a></body></html>`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestMain_Run_CrawlSaveShowDelete(t *testing.T) {
	t.Parallel()

	srv := newTestSite(t)
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	outPath := filepath.Join(dir, "report.json")

	run := func(args ...string) (string, string, error) {
		m := main.NewMain()
		m.DBPath = dbPath
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		err := m.Run(context.Background(), args, stdout, stderr)
		return stdout.String(), stderr.String(), err
	}

	// Crawl and archive.
	stdout, stderr, err := run("crawl", srv.URL+"/", "--no-delay", "--save", "--out", outPath)
	require.NoError(t, err, stderr)
	assert.Regexp(t, `^Crawled 3 pages in \d+\.\ds\nSample results:\n`, stdout)
	assert.Contains(t, stdout, "1 200 "+srv.URL+"/\n")
	assert.Contains(t, stdout, "200 "+srv.URL+"/about\n")
	assert.Contains(t, stdout, "OUT_OF_DOMAIN https://other.example/\n")

	m := regexp.MustCompile(`Saved session (\S+)`).FindStringSubmatch(stdout)
	require.Len(t, m, 2)
	id := m[1]

	report, err := fs.ReadReport(outPath)
	require.NoError(t, err)
	assert.Len(t, report.Results, 3)
	assert.Equal(t, 2, report.Summary["200"])

	// List.
	stdout, _, err = run("sessions")
	require.NoError(t, err)
	assert.Contains(t, stdout, id)
	assert.Contains(t, stdout, srv.URL+"/")

	// Show.
	stdout, _, err = run("show", id)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Session "+id)
	assert.Contains(t, stdout, "1 200 "+srv.URL+"/ (")

	// Delete.
	stdout, _, err = run("delete", id, "--force")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Deleted session "+id)

	_, stderr, err = run("show", id)
	require.Error(t, err)
	assert.Contains(t, stderr, "error:")
}

func TestMain_Run_CrawlWithoutSaveSkipsDatabase(t *testing.T) {
	t.Parallel()

	srv := newTestSite(t)
	dbPath := filepath.Join(t.TempDir(), "nested", "missing", "test.db")

	m := main.NewMain()
	m.DBPath = dbPath

	stdout := &bytes.Buffer{}
	err := m.Run(context.Background(), []string{"crawl", srv.URL + "/", "--no-delay"}, stdout, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Crawled 3 pages")
	_, statErr := os.Stat(dbPath)
	assert.True(t, os.IsNotExist(statErr))
}
