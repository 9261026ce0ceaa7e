package mock

import (
	"context"

	"github.com/fwojciec/sitecrawl"
)

var _ sitecrawl.ReportWriter = (*ReportWriter)(nil)

// ReportWriter is a mock implementation of sitecrawl.ReportWriter.
type ReportWriter struct {
	WriteReportFn func(ctx context.Context, session *sitecrawl.Session, results []sitecrawl.Result) error
}

func (w *ReportWriter) WriteReport(ctx context.Context, session *sitecrawl.Session, results []sitecrawl.Result) error {
	return w.WriteReportFn(ctx, session, results)
}
