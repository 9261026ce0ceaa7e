package sitecrawl

import (
	"context"
	"time"
)

// Session is the archived report of one finished crawl.
// Sessions are written after a crawl completes and are never used to
// resume or seed another crawl.
type Session struct {
	ID         string    `json:"id"`
	StartURL   string    `json:"startUrl"`
	Config     Config    `json:"config"`
	Total      int       `json:"total"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Validate returns an error if the session contains invalid fields.
func (s *Session) Validate() error {
	if s.StartURL == "" {
		return Errorf(EINVALID, "session start URL required")
	}
	if s.FinishedAt.Before(s.StartedAt) {
		return Errorf(EINVALID, "session cannot finish before it starts")
	}
	return nil
}

// Duration returns how long the crawl ran.
func (s *Session) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

// SessionService represents a service for archiving crawl reports.
type SessionService interface {
	// CreateSession stores a session and its results.
	// The session ID is generated and Total is set from results.
	CreateSession(ctx context.Context, session *Session, results []Result) error

	// FindSessionByID retrieves a session by ID.
	// Returns ENOTFOUND if session does not exist.
	FindSessionByID(ctx context.Context, id string) (*Session, error)

	// FindSessions retrieves sessions matching the filter, newest first.
	FindSessions(ctx context.Context, filter SessionFilter) ([]*Session, error)

	// FindResults retrieves a session's results in recorded order.
	// Returns ENOTFOUND if session does not exist.
	FindResults(ctx context.Context, sessionID string) ([]Result, error)

	// DeleteSession permanently removes a session and its results.
	// Returns ENOTFOUND if session does not exist.
	DeleteSession(ctx context.Context, id string) error
}

// SessionFilter represents a filter for FindSessions.
type SessionFilter struct {
	ID       *string `json:"id"`
	StartURL *string `json:"startUrl"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ReportWriter represents a destination for exporting a finished crawl.
type ReportWriter interface {
	// WriteReport writes the session and all of its results.
	// A failed write leaves no partial report behind.
	WriteReport(ctx context.Context, session *Session, results []Result) error
}
