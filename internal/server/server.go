package server

import (
	"log/slog"
	"net/http"
	"time"

	"ctchen222/tictactoe/internal/api/controller"
	"ctchen222/tictactoe/internal/api/middleware"
	"ctchen222/tictactoe/internal/api/response"
	"ctchen222/tictactoe/internal/api/service"
	"ctchen222/tictactoe/internal/hub"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("server")

type Server struct {
	hub      *hub.Hub
	games    service.GameService
	tokens   service.TokenService
	upgrader websocket.Upgrader
	engine   *gin.Engine
}

func NewServer(h *hub.Hub, games service.GameService, tokens service.TokenService) *Server {
	s := &Server{
		hub:    h,
		games:  games,
		tokens: tokens,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	s.engine = s.routes(controller.NewSessionController(games, tokens))
	return s
}

func (s *Server) routes(sessions *controller.SessionController) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		response.SuccessResponse(c, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.POST("/sessions", sessions.Create)

	session := api.Group("/sessions/:id", middleware.RequireSessionToken(s.tokens))
	session.GET("", sessions.Get)
	session.POST("/moves", sessions.Move)
	session.POST("/reset", sessions.Reset)
	session.DELETE("", sessions.End)

	r.GET("/ws/:id", middleware.RequireSessionToken(s.tokens), s.handleWebSocket)
	return r
}

// Handler returns the router wrapped in OpenTelemetry HTTP instrumentation.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.engine, "tictactoe.http",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.InfoContext(c.Request.Context(), "HTTP request",
			"http.method", c.Request.Method,
			"http.route", c.FullPath(),
			"http.status", c.Writer.Status(),
			"http.duration", time.Since(start),
		)
	}
}
