package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"ctchen222/tictactoe/internal/events"
	"ctchen222/tictactoe/pkg/proto"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("hub")

// SessionHandler serves the sessions the hub's clients are watching.
type SessionHandler interface {
	// Snapshot returns the message sent to a client when it connects.
	Snapshot(ctx context.Context, sessionID string) (*proto.ServerMessage, error)
	// HandleMessage applies a client message. Resulting updates reach the
	// clients through Publish.
	HandleMessage(ctx context.Context, sessionID string, msg *proto.ClientMessage) error
}

type delivery struct {
	sessionID string
	// client restricts the delivery to one client.
	client *Client
	data   []byte
	// closeAfter disconnects the session's clients once data is queued.
	closeAfter bool
}

// Hub tracks the websocket clients of every session and fans messages out
// to them. With a Redis client, messages travel through Pub/Sub so that
// every instance sharing the store sees them.
type Hub struct {
	rdb      *redis.Client
	sessions map[string]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	deliver    chan delivery
	done       chan struct{}

	clients metric.Int64UpDownCounter
}

// NewHub creates a new hub. rdb may be nil for a single instance.
func NewHub(rdb *redis.Client) *Hub {
	clients, err := otel.Meter("hub").Int64UpDownCounter(
		"tictactoe.ws.clients",
		metric.WithDescription("Connected websocket clients"),
	)
	if err != nil {
		otel.Handle(err)
		clients = noop.Int64UpDownCounter{}
	}
	return &Hub{
		rdb:        rdb,
		sessions:   make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliver:    make(chan delivery, 64),
		done:       make(chan struct{}),
		clients:    clients,
	}
}

// Start runs the hub until ctx is cancelled. The Pub/Sub subscription is
// established before Start returns.
func (h *Hub) Start(ctx context.Context) error {
	var pubsub *redis.PubSub
	if h.rdb != nil {
		pubsub = h.rdb.Subscribe(ctx, events.EventsChannel)
		if _, err := pubsub.Receive(ctx); err != nil {
			_ = pubsub.Close()
			return fmt.Errorf("failed to subscribe to %s: %w", events.EventsChannel, err)
		}
		go h.runSubscriber(ctx, pubsub)
	}
	go h.run(ctx)
	return nil
}

func (h *Hub) run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for id := range h.sessions {
				h.closeSession(id)
			}
			slog.InfoContext(ctx, "Hub stopped")
			return

		case c := <-h.register:
			if h.sessions[c.sessionID] == nil {
				h.sessions[c.sessionID] = make(map[*Client]struct{})
			}
			h.sessions[c.sessionID][c] = struct{}{}
			h.clients.Add(ctx, 1)
			slog.DebugContext(ctx, "Client registered", "session.id", c.sessionID, "session.clients", len(h.sessions[c.sessionID]))

		case c := <-h.unregister:
			h.remove(c)

		case d := <-h.deliver:
			h.dispatch(d)
		}
	}
}

func (h *Hub) dispatch(d delivery) {
	clients := h.sessions[d.sessionID]
	for c := range clients {
		if d.client != nil && c != d.client {
			continue
		}
		select {
		case c.send <- d.data:
		default:
			slog.Warn("Client send buffer full, disconnecting", "session.id", c.sessionID)
			h.remove(c)
		}
	}
	if d.closeAfter {
		h.closeSession(d.sessionID)
	}
}

func (h *Hub) remove(c *Client) {
	clients, ok := h.sessions[c.sessionID]
	if !ok {
		return
	}
	if _, ok := clients[c]; !ok {
		return
	}
	delete(clients, c)
	close(c.send)
	h.clients.Add(context.Background(), -1)
	if len(clients) == 0 {
		delete(h.sessions, c.sessionID)
	}
}

func (h *Hub) closeSession(sessionID string) {
	for c := range h.sessions[sessionID] {
		h.remove(c)
	}
}

// Publish sends msg to every client watching the session. An "ended"
// message also disconnects them.
func (h *Hub) Publish(ctx context.Context, sessionID string, msg *proto.ServerMessage) error {
	ctx, span := tracer.Start(ctx, "hub.Publish", trace.WithAttributes(
		attribute.String("session.id", sessionID),
		attribute.String("message.type", msg.Type),
	))
	defer span.End()

	data, err := json.Marshal(msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error marshalling message")
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if h.rdb == nil {
		return h.enqueue(ctx, delivery{sessionID: sessionID, data: data, closeAfter: msg.Type == proto.ServerEnded})
	}

	var event events.Event
	if msg.Type == proto.ServerEnded {
		event, err = events.New(events.TypeSessionEnded, events.SessionEndedPayload{SessionID: sessionID})
	} else {
		event, err = events.New(events.TypeSessionMessage, events.SessionMessagePayload{SessionID: sessionID, Message: data})
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to build event")
		return err
	}
	payload, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to marshal event")
		return err
	}
	if err := h.rdb.Publish(ctx, events.EventsChannel, payload).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to publish event")
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}
	return nil
}

func (h *Hub) enqueue(ctx context.Context, d delivery) error {
	select {
	case <-h.done:
		return errHubStopped
	default:
	}
	select {
	case h.deliver <- d:
		return nil
	case <-h.done:
		return errHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}
