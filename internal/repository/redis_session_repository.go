package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ctchen222/tictactoe/internal/game"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Hash fields of a stored session.
const (
	FieldBoard         = "board"
	FieldCurrentPlayer = "current_player"
	FieldStatus        = "status"
	FieldCreatedAt     = "created_at"
	FieldUpdatedAt     = "updated_at"
)

const maxUpdateRetries = 10

type redisSessionRepository struct {
	rdb  *redis.Client
	opts options
}

// NewRedisSessionRepository creates a Redis-based SessionRepository. Each
// session is a hash under session:<id>.
func NewRedisSessionRepository(rdb *redis.Client, opts ...Option) SessionRepository {
	return &redisSessionRepository{rdb: rdb, opts: newOptions(opts)}
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

func (r *redisSessionRepository) Create(ctx context.Context) (*Session, error) {
	ctx, span := tracer.Start(ctx, "SessionRepository.Create")
	defer span.End()

	now := r.opts.now()
	s := &Session{
		ID:        uuid.New().String(),
		State:     game.New().State(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	span.SetAttributes(attribute.String("session.id", s.ID))

	fields, err := encodeSession(s)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to encode session")
		return nil, err
	}

	key := sessionKey(s.ID)
	_, err = r.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fields)
		if r.opts.ttl > 0 {
			pipe.Expire(ctx, key, r.opts.ttl)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create session in redis")
		return nil, fmt.Errorf("failed to create session in redis: %w", err)
	}
	return s, nil
}

func (r *redisSessionRepository) FindByID(ctx context.Context, id string) (*Session, error) {
	ctx, span := tracer.Start(ctx, "SessionRepository.FindByID", trace.WithAttributes(
		attribute.String("session.id", id),
	))
	defer span.End()

	data, err := r.rdb.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get session from redis")
		return nil, fmt.Errorf("failed to get session from redis: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrSessionNotFound
	}
	s, err := decodeSession(id, data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to decode session")
		return nil, err
	}
	return s, nil
}

func (r *redisSessionRepository) Update(ctx context.Context, id string, fn func(*game.Engine) error) (*Session, error) {
	ctx, span := tracer.Start(ctx, "SessionRepository.Update", trace.WithAttributes(
		attribute.String("session.id", id),
	))
	defer span.End()

	key := sessionKey(id)
	var updated *Session

	txf := func(tx *redis.Tx) error {
		data, err := tx.HGetAll(ctx, key).Result()
		if err != nil {
			return err
		}
		if len(data) == 0 {
			return ErrSessionNotFound
		}
		s, err := decodeSession(id, data)
		if err != nil {
			return err
		}

		e, err := game.Restore(s.State)
		if err != nil {
			return err
		}
		if err := fn(e); err != nil {
			return err
		}

		s.State = e.State()
		s.UpdatedAt = r.opts.now()
		fields, err := encodeSession(s)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, fields)
			if r.opts.ttl > 0 {
				pipe.Expire(ctx, key, r.opts.ttl)
			}
			return nil
		})
		if err == nil {
			updated = s
		}
		return err
	}

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		err := r.rdb.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			span.AddEvent("transaction conflict, retrying")
			continue
		}
		if !errors.Is(err, ErrSessionNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to update session")
		}
		return nil, err
	}

	err := fmt.Errorf("session %s: too many concurrent updates: %w", id, redis.TxFailedErr)
	span.RecordError(err)
	span.SetStatus(codes.Error, "Update retries exhausted")
	return nil, err
}

func (r *redisSessionRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "SessionRepository.Delete", trace.WithAttributes(
		attribute.String("session.id", id),
	))
	defer span.End()

	n, err := r.rdb.Del(ctx, sessionKey(id)).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete session from redis")
		return fmt.Errorf("failed to delete session from redis: %w", err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func encodeSession(s *Session) (map[string]interface{}, error) {
	boardJSON, err := json.Marshal(s.State.Board)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal board: %w", err)
	}
	return map[string]interface{}{
		FieldBoard:         boardJSON,
		FieldCurrentPlayer: string(s.State.CurrentPlayer),
		FieldStatus:        string(s.State.Status),
		FieldCreatedAt:     s.CreatedAt.UTC().Format(time.RFC3339Nano),
		FieldUpdatedAt:     s.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}, nil
}

func decodeSession(id string, data map[string]string) (*Session, error) {
	var board game.Board
	if err := json.Unmarshal([]byte(data[FieldBoard]), &board); err != nil {
		return nil, fmt.Errorf("failed to unmarshal board: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, data[FieldCreatedAt])
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FieldCreatedAt, err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, data[FieldUpdatedAt])
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FieldUpdatedAt, err)
	}

	state := game.State{
		Board:         board,
		CurrentPlayer: game.PlayerMark(data[FieldCurrentPlayer]),
		Status:        game.Status(data[FieldStatus]),
	}
	if _, err := game.Restore(state); err != nil {
		return nil, err
	}

	return &Session{
		ID:        id,
		State:     state,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}
