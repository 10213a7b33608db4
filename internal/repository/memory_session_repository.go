package repository

import (
	"context"
	"sync"

	"ctchen222/tictactoe/internal/game"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type memorySessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*Session
	opts     options
}

// NewMemorySessionRepository creates a SessionRepository that keeps sessions
// in process memory.
func NewMemorySessionRepository(opts ...Option) SessionRepository {
	return &memorySessionRepository{
		sessions: make(map[string]*Session),
		opts:     newOptions(opts),
	}
}

func (r *memorySessionRepository) Create(ctx context.Context) (*Session, error) {
	_, span := tracer.Start(ctx, "SessionRepository.Create")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sweep()

	now := r.opts.now()
	s := &Session{
		ID:        uuid.New().String(),
		State:     game.New().State(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.sessions[s.ID] = s
	span.SetAttributes(attribute.String("session.id", s.ID))

	cp := *s
	return &cp, nil
}

func (r *memorySessionRepository) FindByID(ctx context.Context, id string) (*Session, error) {
	_, span := tracer.Start(ctx, "SessionRepository.FindByID", trace.WithAttributes(
		attribute.String("session.id", id),
	))
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.lookup(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *memorySessionRepository) Update(ctx context.Context, id string, fn func(*game.Engine) error) (*Session, error) {
	_, span := tracer.Start(ctx, "SessionRepository.Update", trace.WithAttributes(
		attribute.String("session.id", id),
	))
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.lookup(id)
	if !ok {
		return nil, ErrSessionNotFound
	}

	e, err := game.Restore(s.State)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Stored state is corrupt")
		return nil, err
	}
	if err := fn(e); err != nil {
		return nil, err
	}

	s.State = e.State()
	s.UpdatedAt = r.opts.now()
	cp := *s
	return &cp, nil
}

func (r *memorySessionRepository) Delete(ctx context.Context, id string) error {
	_, span := tracer.Start(ctx, "SessionRepository.Delete", trace.WithAttributes(
		attribute.String("session.id", id),
	))
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.lookup(id); !ok {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

// lookup returns a live session, dropping it if it has expired. Callers hold mu.
func (r *memorySessionRepository) lookup(id string) (*Session, bool) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	if r.expired(s) {
		delete(r.sessions, id)
		return nil, false
	}
	return s, true
}

func (r *memorySessionRepository) expired(s *Session) bool {
	return r.opts.ttl > 0 && r.opts.now().Sub(s.UpdatedAt) >= r.opts.ttl
}

func (r *memorySessionRepository) sweep() {
	for id, s := range r.sessions {
		if r.expired(s) {
			delete(r.sessions, id)
		}
	}
}
