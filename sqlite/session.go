package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/sitecrawl"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ sitecrawl.SessionService = (*SessionService)(nil)

// SessionService implements sitecrawl.SessionService using SQLite.
type SessionService struct {
	db *DB
}

// NewSessionService creates a new SessionService.
func NewSessionService(db *DB) *SessionService {
	return &SessionService{db: db}
}

// CreateSession stores a session and its results in one transaction.
func (s *SessionService) CreateSession(ctx context.Context, session *sitecrawl.Session, results []sitecrawl.Result) error {
	if err := session.Validate(); err != nil {
		return err
	}

	config, err := json.Marshal(session.Config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	id := uuid.New().String()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO sessions (id, start_url, config, total, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, session.StartURL, string(config), len(results),
		session.StartedAt.UTC().Format(time.RFC3339), session.FinishedAt.UTC().Format(time.RFC3339)); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO results (session_id, position, url, outcome, content_hash, bytes)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, res := range results {
		if _, err := stmt.ExecContext(ctx, id, i, res.URL, res.Outcome.String(), res.ContentHash, res.Bytes); err != nil {
			return fmt.Errorf("failed to insert result %s: %w", res.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	session.ID = id
	session.Total = len(results)
	return nil
}

// FindSessionByID retrieves a session by ID.
func (s *SessionService) FindSessionByID(ctx context.Context, id string) (*sitecrawl.Session, error) {
	sessions, err := s.FindSessions(ctx, sitecrawl.SessionFilter{ID: &id, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, sitecrawl.Errorf(sitecrawl.ENOTFOUND, "session not found")
	}
	return sessions[0], nil
}

// FindSessions retrieves sessions matching the filter, newest first.
func (s *SessionService) FindSessions(ctx context.Context, filter sitecrawl.SessionFilter) ([]*sitecrawl.Session, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, start_url, config, total, started_at, finished_at FROM sessions WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.StartURL != nil {
		query.WriteString(" AND start_url = ?")
		args = append(args, *filter.StartURL)
	}

	query.WriteString(" ORDER BY started_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*sitecrawl.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

func scanSession(rows *sql.Rows) (*sitecrawl.Session, error) {
	var session sitecrawl.Session
	var config, startedAt, finishedAt string

	if err := rows.Scan(&session.ID, &session.StartURL, &config, &session.Total, &startedAt, &finishedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(config), &session.Config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	var err error
	if session.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if session.FinishedAt, err = parseRFC3339(finishedAt, "finished_at"); err != nil {
		return nil, err
	}
	return &session, nil
}

// FindResults retrieves a session's results in recorded order.
func (s *SessionService) FindResults(ctx context.Context, sessionID string) ([]sitecrawl.Result, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM sessions WHERE id = ?", sessionID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sitecrawl.Errorf(sitecrawl.ENOTFOUND, "session not found")
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT url, outcome, content_hash, bytes
		FROM results
		WHERE session_id = ?
		ORDER BY position
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []sitecrawl.Result
	for rows.Next() {
		var res sitecrawl.Result
		var outcome string
		if err := rows.Scan(&res.URL, &outcome, &res.ContentHash, &res.Bytes); err != nil {
			return nil, err
		}
		if res.Outcome, err = sitecrawl.ParseOutcome(outcome); err != nil {
			return nil, fmt.Errorf("failed to parse outcome for %s: %w", res.URL, err)
		}
		results = append(results, res)
	}

	return results, rows.Err()
}

// DeleteSession permanently removes a session and its results.
func (s *SessionService) DeleteSession(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return sitecrawl.Errorf(sitecrawl.ENOTFOUND, "session not found")
	}

	return nil
}
