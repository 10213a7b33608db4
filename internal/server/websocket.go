package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"ctchen222/tictactoe/internal/api/response"
	"ctchen222/tictactoe/internal/repository"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// handleWebSocket upgrades the connection and hands it to the hub, which
// keeps it until the client leaves or the session ends.
func (s *Server) handleWebSocket(c *gin.Context) {
	sessionID := c.Param("id")
	ctx, span := tracer.Start(c.Request.Context(), "server.handleWebSocket", trace.WithAttributes(
		attribute.String("session.id", sessionID),
	))
	defer span.End()

	if _, err := s.games.GetSession(ctx, sessionID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Session lookup failed")
		if errors.Is(err, repository.ErrSessionNotFound) {
			response.ErrorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		response.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.WarnContext(ctx, "Failed to upgrade connection", "session.id", sessionID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upgrade connection")
		return
	}
	slog.InfoContext(ctx, "Client connected", "session.id", sessionID)

	// The request context ends with this handler; the connection outlives it.
	if err := s.hub.Attach(context.WithoutCancel(ctx), sessionID, conn, s.games); err != nil {
		slog.WarnContext(ctx, "Client session closed with error", "session.id", sessionID, "error", err)
	}
}
