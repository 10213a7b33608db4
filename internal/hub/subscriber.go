package hub

import (
	"context"
	"encoding/json"
	"log/slog"

	"ctchen222/tictactoe/internal/events"
	"ctchen222/tictactoe/pkg/proto"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// runSubscriber turns events from other instances (and this one) into
// local deliveries.
func (h *Hub) runSubscriber(ctx context.Context, pubsub *redis.PubSub) {
	defer pubsub.Close()
	slog.InfoContext(ctx, "Starting event subscriber", "channel", events.EventsChannel)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping event subscriber")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.handleEvent(ctx, msg.Payload)
		}
	}
}

func (h *Hub) handleEvent(ctx context.Context, raw string) {
	ctx, span := tracer.Start(ctx, "hub.handleEvent", trace.WithAttributes(
		attribute.String("redis.payload", raw),
	))
	defer span.End()

	var event events.Event
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		slog.ErrorContext(ctx, "Failed to unmarshal event", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to unmarshal event")
		return
	}
	span.SetAttributes(attribute.String("event.type", event.Type))

	var d delivery
	switch event.Type {
	case events.TypeSessionMessage:
		var p events.SessionMessagePayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			slog.ErrorContext(ctx, "Failed to unmarshal session_message payload", "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to unmarshal payload")
			return
		}
		d = delivery{sessionID: p.SessionID, data: p.Message}

	case events.TypeSessionEnded:
		var p events.SessionEndedPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			slog.ErrorContext(ctx, "Failed to unmarshal session_ended payload", "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to unmarshal payload")
			return
		}
		data, err := json.Marshal(proto.ServerMessage{Type: proto.ServerEnded, SessionID: p.SessionID})
		if err != nil {
			span.RecordError(err)
			return
		}
		d = delivery{sessionID: p.SessionID, data: data, closeAfter: true}

	default:
		slog.WarnContext(ctx, "Ignoring unknown event", "event.type", event.Type)
		return
	}

	span.SetAttributes(attribute.String("session.id", d.sessionID))
	if err := h.enqueue(ctx, d); err != nil {
		slog.WarnContext(ctx, "Dropping event", "session.id", d.sessionID, "error", err)
	}
}
