package hub

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"ctchen222/tictactoe/internal/validator"
	"ctchen222/tictactoe/pkg/proto"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	pingPeriod = 50 * time.Second
	sendBuffer = 16
)

var errHubStopped = errors.New("hub stopped")

// Connection is an interface that abstracts the websocket connection.
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (int, []byte, error)
	Close() error
}

// Client is one websocket connection watching a session.
type Client struct {
	sessionID string
	conn      Connection
	send      chan []byte
}

// Attach serves conn as a client of the session until the connection
// closes, the session ends or the hub stops. It sends the current snapshot
// first.
func (h *Hub) Attach(ctx context.Context, sessionID string, conn Connection, handler SessionHandler) error {
	ctx, span := tracer.Start(ctx, "hub.Attach", trace.WithAttributes(
		attribute.String("session.id", sessionID),
	))
	defer span.End()

	snapshot, err := handler.Snapshot(ctx, sessionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load snapshot")
		if data, mErr := json.Marshal(proto.ServerMessage{Type: proto.ServerError, SessionID: sessionID, Reason: err.Error()}); mErr == nil {
			_ = conn.WriteMessage(websocket.TextMessage, data)
		}
		_ = conn.Close()
		return err
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		_ = conn.Close()
		return err
	}

	c := &Client{
		sessionID: sessionID,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
	}
	c.send <- data

	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return errHubStopped
	}

	go c.writePump()
	h.readPump(ctx, c, handler)
	return nil
}

// readPump feeds client messages to the handler until the connection fails.
func (h *Hub) readPump(ctx context.Context, c *Client, handler SessionHandler) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
		slog.InfoContext(ctx, "Client disconnected", "session.id", c.sessionID)
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.WarnContext(ctx, "Client connection error", "session.id", c.sessionID, "error", err)
			}
			return
		}
		h.handleClientMessage(ctx, c, handler, data)
	}
}

func (h *Hub) handleClientMessage(ctx context.Context, c *Client, handler SessionHandler, data []byte) {
	ctx, span := tracer.Start(ctx, "hub.handleClientMessage", trace.WithAttributes(
		attribute.String("session.id", c.sessionID),
	))
	defer span.End()

	var msg proto.ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		slog.WarnContext(ctx, "Malformed client message", "session.id", c.sessionID, "error", err)
		h.reply(ctx, c, "malformed message")
		return
	}
	if err := validator.Struct(&msg); err != nil {
		slog.WarnContext(ctx, "Invalid client message", "session.id", c.sessionID, "error", err)
		h.reply(ctx, c, "invalid message")
		return
	}
	span.SetAttributes(attribute.String("message.type", msg.Type))

	if err := handler.HandleMessage(ctx, c.sessionID, &msg); err != nil {
		slog.ErrorContext(ctx, "Failed to handle client message", "session.id", c.sessionID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to handle client message")
		h.reply(ctx, c, err.Error())
	}
}

// reply sends an error to one client only.
func (h *Hub) reply(ctx context.Context, c *Client, reason string) {
	data, err := json.Marshal(proto.ServerMessage{Type: proto.ServerError, SessionID: c.sessionID, Reason: reason})
	if err != nil {
		return
	}
	_ = h.enqueue(ctx, delivery{sessionID: c.sessionID, client: c, data: data})
}

// writePump is the only writer of the connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				slog.Warn("Error writing message to client", "session.id", c.sessionID, "error", err)
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
