package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/internal/presenter"
	"ctchen222/tictactoe/internal/repository"
	"ctchen222/tictactoe/pkg/proto"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "ctchen222/tictactoe/internal/api/service"

// ErrUnknownMessage is returned for client messages the service cannot act on.
var ErrUnknownMessage = errors.New("unknown message type")

//go:generate mockgen -source=game_service.go -destination=mocks/mock_game_service.go -package=mocks

// Notifier pushes server messages to the clients watching a session.
type Notifier interface {
	Publish(ctx context.Context, sessionID string, msg *proto.ServerMessage) error
}

// MoveResult is a stored session together with the outcome of the move
// that was attempted on it.
type MoveResult struct {
	Session *repository.Session
	Outcome game.MoveOutcome
}

// GameService defines the operations on game sessions.
type GameService interface {
	CreateSession(ctx context.Context) (*repository.Session, error)
	GetSession(ctx context.Context, id string) (*repository.Session, error)
	// Move attempts a move. A rejected move is not an error; it is reported
	// in the outcome and leaves the board unchanged.
	Move(ctx context.Context, id string, index int) (*MoveResult, error)
	Reset(ctx context.Context, id string) (*repository.Session, error)
	EndSession(ctx context.Context, id string) error
	Snapshot(ctx context.Context, id string) (*proto.ServerMessage, error)
	HandleMessage(ctx context.Context, id string, msg *proto.ClientMessage) error
}

type gameService struct {
	repo     repository.SessionRepository
	notifier Notifier
	tracer   trace.Tracer

	sessionsCreated metric.Int64Counter
	moves           metric.Int64Counter
	gamesFinished   metric.Int64Counter
	resets          metric.Int64Counter
}

// Option configures the game service.
type Option func(*serviceOptions)

type serviceOptions struct {
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
}

// WithMeterProvider records metrics with mp instead of the global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *serviceOptions) { o.meterProvider = mp }
}

// WithTracerProvider records spans with tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *serviceOptions) { o.tracerProvider = tp }
}

// NewGameService creates a new GameService. notifier may be nil.
func NewGameService(repo repository.SessionRepository, notifier Notifier, opts ...Option) (GameService, error) {
	o := serviceOptions{
		meterProvider:  otel.GetMeterProvider(),
		tracerProvider: otel.GetTracerProvider(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	meter := o.meterProvider.Meter(instrumentationName)
	s := &gameService{
		repo:     repo,
		notifier: notifier,
		tracer:   o.tracerProvider.Tracer(instrumentationName),
	}

	var err error
	if s.sessionsCreated, err = meter.Int64Counter("tictactoe.sessions.created",
		metric.WithDescription("Sessions created")); err != nil {
		return nil, fmt.Errorf("failed to create sessions counter: %w", err)
	}
	if s.moves, err = meter.Int64Counter("tictactoe.moves",
		metric.WithDescription("Moves attempted, by outcome")); err != nil {
		return nil, fmt.Errorf("failed to create moves counter: %w", err)
	}
	if s.gamesFinished, err = meter.Int64Counter("tictactoe.games.finished",
		metric.WithDescription("Games that reached a terminal status")); err != nil {
		return nil, fmt.Errorf("failed to create games counter: %w", err)
	}
	if s.resets, err = meter.Int64Counter("tictactoe.resets",
		metric.WithDescription("Boards reset")); err != nil {
		return nil, fmt.Errorf("failed to create resets counter: %w", err)
	}
	return s, nil
}

func (s *gameService) CreateSession(ctx context.Context) (*repository.Session, error) {
	ctx, span := s.tracer.Start(ctx, "GameService.CreateSession")
	defer span.End()

	sess, err := s.repo.Create(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create session")
		return nil, err
	}
	span.SetAttributes(attribute.String("session.id", sess.ID))
	s.sessionsCreated.Add(ctx, 1)
	slog.InfoContext(ctx, "Session created", "session.id", sess.ID)
	return sess, nil
}

func (s *gameService) GetSession(ctx context.Context, id string) (*repository.Session, error) {
	ctx, span := s.tracer.Start(ctx, "GameService.GetSession", trace.WithAttributes(
		attribute.String("session.id", id),
	))
	defer span.End()

	sess, err := s.repo.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get session")
		return nil, err
	}
	return sess, nil
}

func (s *gameService) Move(ctx context.Context, id string, index int) (*MoveResult, error) {
	ctx, span := s.tracer.Start(ctx, "GameService.Move", trace.WithAttributes(
		attribute.String("session.id", id),
		attribute.Int("move.index", index),
	))
	defer span.End()

	var outcome game.MoveOutcome
	sess, err := s.repo.Update(ctx, id, func(e *game.Engine) error {
		outcome = e.ApplyMove(index)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to apply move")
		return nil, err
	}

	reason := game.RejectionCode(outcome.Reason)
	span.SetAttributes(attribute.Bool("move.accepted", outcome.Accepted))
	s.moves.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("accepted", outcome.Accepted),
		attribute.String("reason", reason),
	))

	if !outcome.Accepted {
		slog.DebugContext(ctx, "Move rejected", "session.id", id, "move.index", index, "reason", reason)
		return &MoveResult{Session: sess, Outcome: outcome}, nil
	}

	slog.InfoContext(ctx, "Move applied", "session.id", id, "move.index", index, "move.mark", outcome.Mark, "game.status", outcome.Status)
	if outcome.Finished {
		s.gamesFinished.Add(ctx, 1, metric.WithAttributes(attribute.String("status", string(outcome.Status))))
		slog.InfoContext(ctx, "Game finished", "session.id", id, "game.status", outcome.Status)
	}

	s.notify(ctx, id, &proto.ServerMessage{
		Type:      proto.ServerUpdate,
		SessionID: id,
		View:      viewOf(sess),
		Move: &proto.MoveResult{
			Index:    outcome.Index,
			Mark:     outcome.Mark,
			Finished: outcome.Finished,
		},
	})
	return &MoveResult{Session: sess, Outcome: outcome}, nil
}

func (s *gameService) Reset(ctx context.Context, id string) (*repository.Session, error) {
	ctx, span := s.tracer.Start(ctx, "GameService.Reset", trace.WithAttributes(
		attribute.String("session.id", id),
	))
	defer span.End()

	sess, err := s.repo.Update(ctx, id, func(e *game.Engine) error {
		e.Reset()
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to reset session")
		return nil, err
	}

	s.resets.Add(ctx, 1)
	slog.InfoContext(ctx, "Board reset", "session.id", id)
	s.notify(ctx, id, &proto.ServerMessage{Type: proto.ServerUpdate, SessionID: id, View: viewOf(sess)})
	return sess, nil
}

func (s *gameService) EndSession(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "GameService.EndSession", trace.WithAttributes(
		attribute.String("session.id", id),
	))
	defer span.End()

	if err := s.repo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to end session")
		return err
	}

	slog.InfoContext(ctx, "Session ended", "session.id", id)
	s.notify(ctx, id, &proto.ServerMessage{Type: proto.ServerEnded, SessionID: id})
	return nil
}

func (s *gameService) Snapshot(ctx context.Context, id string) (*proto.ServerMessage, error) {
	sess, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	return &proto.ServerMessage{Type: proto.ServerState, SessionID: id, View: viewOf(sess)}, nil
}

func (s *gameService) HandleMessage(ctx context.Context, id string, msg *proto.ClientMessage) error {
	switch msg.Type {
	case proto.ClientMove:
		if msg.Index == nil {
			return fmt.Errorf("%w: move without index", ErrUnknownMessage)
		}
		_, err := s.Move(ctx, id, *msg.Index)
		return err
	case proto.ClientReset:
		_, err := s.Reset(ctx, id)
		return err
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
	}
}

// notify publishes msg. Failures only affect live clients, so they are
// logged and not returned.
func (s *gameService) notify(ctx context.Context, id string, msg *proto.ServerMessage) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, id, msg); err != nil {
		trace.SpanFromContext(ctx).RecordError(err)
		slog.WarnContext(ctx, "Failed to publish session message", "session.id", id, "message.type", msg.Type, "error", err)
	}
}

func viewOf(sess *repository.Session) *presenter.View {
	v := presenter.Render(sess.State)
	return &v
}
