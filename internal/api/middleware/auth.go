package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"ctchen222/tictactoe/internal/api/response"
	"ctchen222/tictactoe/internal/api/service"

	"github.com/gin-gonic/gin"
)

// SessionIDKey is the context key under which the verified session id is stored.
const SessionIDKey = "session.id"

// BearerToken returns the token from the Authorization header, falling back
// to the token query parameter used by browsers opening a websocket.
func BearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return c.Query("token")
}

// RequireSessionToken lets a request through only if it carries a token
// issued for the session named by the :id path parameter.
func RequireSessionToken(tokens service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			response.AbortWithError(c, http.StatusUnauthorized, "missing session token")
			return
		}

		sessionID, err := tokens.Verify(token)
		if err != nil {
			slog.WarnContext(c.Request.Context(), "Rejected session token", "error", err)
			response.AbortWithError(c, http.StatusUnauthorized, "invalid session token")
			return
		}
		if sessionID != c.Param("id") {
			response.AbortWithError(c, http.StatusForbidden, "token does not grant access to this session")
			return
		}

		c.Set(SessionIDKey, sessionID)
		c.Next()
	}
}
