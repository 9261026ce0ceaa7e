package mock

import (
	"context"

	"github.com/fwojciec/sitecrawl"
)

var _ sitecrawl.SessionService = (*SessionService)(nil)

// SessionService is a mock implementation of sitecrawl.SessionService.
type SessionService struct {
	CreateSessionFn   func(ctx context.Context, session *sitecrawl.Session, results []sitecrawl.Result) error
	FindSessionByIDFn func(ctx context.Context, id string) (*sitecrawl.Session, error)
	FindSessionsFn    func(ctx context.Context, filter sitecrawl.SessionFilter) ([]*sitecrawl.Session, error)
	FindResultsFn     func(ctx context.Context, sessionID string) ([]sitecrawl.Result, error)
	DeleteSessionFn   func(ctx context.Context, id string) error
}

func (s *SessionService) CreateSession(ctx context.Context, session *sitecrawl.Session, results []sitecrawl.Result) error {
	return s.CreateSessionFn(ctx, session, results)
}

func (s *SessionService) FindSessionByID(ctx context.Context, id string) (*sitecrawl.Session, error) {
	return s.FindSessionByIDFn(ctx, id)
}

func (s *SessionService) FindSessions(ctx context.Context, filter sitecrawl.SessionFilter) ([]*sitecrawl.Session, error) {
	return s.FindSessionsFn(ctx, filter)
}

func (s *SessionService) FindResults(ctx context.Context, sessionID string) ([]sitecrawl.Result, error) {
	return s.FindResultsFn(ctx, sessionID)
}

func (s *SessionService) DeleteSession(ctx context.Context, id string) error {
	return s.DeleteSessionFn(ctx, id)
}
