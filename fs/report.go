// Package fs provides file-based export of crawl reports.
package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/fwojciec/sitecrawl"
)

// Ensure ReportWriter implements sitecrawl.ReportWriter at compile time.
var _ sitecrawl.ReportWriter = (*ReportWriter)(nil)

// Report is the JSON document written for a finished crawl.
type Report struct {
	Session    *sitecrawl.Session  `json:"session"`
	Summary    map[string]int      `json:"summary"`
	Duplicates map[string][]string `json:"duplicates,omitempty"`
	Results    []sitecrawl.Result  `json:"results"`
}

// NewReport builds a Report from a session and its results.
func NewReport(session *sitecrawl.Session, results []sitecrawl.Result) *Report {
	rs := sitecrawl.NewResults()
	for _, res := range results {
		rs.Add(res)
	}
	all := rs.All()
	if all == nil {
		all = []sitecrawl.Result{}
	}
	return &Report{
		Session:    session,
		Summary:    rs.Summary(),
		Duplicates: rs.Duplicates(),
		Results:    all,
	}
}

// ReportWriter writes reports as indented JSON with atomic replace semantics.
// The report is written to a temporary file next to the target and renamed
// into place, so readers never observe a partial file.
type ReportWriter struct {
	path string
}

// NewReportWriter creates a ReportWriter targeting path.
func NewReportWriter(path string) *ReportWriter {
	return &ReportWriter{path: path}
}

// Path returns the target file path.
func (w *ReportWriter) Path() string {
	return w.path
}

// WriteReport encodes the report and moves it into place.
func (w *ReportWriter) WriteReport(ctx context.Context, session *sitecrawl.Session, results []sitecrawl.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if session == nil {
		return sitecrawl.Errorf(sitecrawl.EINVALID, "session required")
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(w.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if err := encodeReport(tmp, NewReport(session, results)); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, w.path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func encodeReport(f *os.File, report *Report) error {
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return err
	}
	return f.Sync()
}

// ReadReport reads a report written by ReportWriter.
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, sitecrawl.Errorf(sitecrawl.ENOTFOUND, "report %s not found", path)
	}
	if err != nil {
		return nil, err
	}
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, sitecrawl.Errorf(sitecrawl.EINVALID, "decoding report %s: %v", path, err)
	}
	return &report, nil
}
