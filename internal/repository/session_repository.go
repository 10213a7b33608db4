package repository

import (
	"context"
	"errors"
	"time"

	"ctchen222/tictactoe/internal/game"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("repository.session")

// ErrSessionNotFound is returned when a session id is unknown or has expired.
var ErrSessionNotFound = errors.New("session not found")

// Session is one board and its bookkeeping. The engine state is a snapshot;
// changes go through SessionRepository.Update.
type Session struct {
	ID        string
	State     game.State
	CreatedAt time.Time
	UpdatedAt time.Time
}

//go:generate mockgen -source=session_repository.go -destination=mocks/mock_session_repository.go -package=mocks

// SessionRepository stores game sessions. Update serializes concurrent
// changes to the same session.
type SessionRepository interface {
	Create(ctx context.Context) (*Session, error)
	FindByID(ctx context.Context, id string) (*Session, error)
	// Update restores the session's engine, runs fn on it and stores the
	// result. If fn returns an error nothing is stored and the error is
	// returned unchanged.
	Update(ctx context.Context, id string, fn func(*game.Engine) error) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// Option configures a repository.
type Option func(*options)

type options struct {
	ttl time.Duration
	now func() time.Time
}

func newOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithTTL expires sessions that have not been touched for d. Zero keeps
// sessions until they are deleted.
func WithTTL(d time.Duration) Option {
	return func(o *options) { o.ttl = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}
