package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"ctchen222/tictactoe/internal/api/models"
	"ctchen222/tictactoe/internal/api/response"
	"ctchen222/tictactoe/internal/api/service"
	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/internal/presenter"
	"ctchen222/tictactoe/internal/repository"

	"github.com/gin-gonic/gin"
)

// SessionController handles session-related HTTP requests.
type SessionController struct {
	games  service.GameService
	tokens service.TokenService
}

// NewSessionController creates a new SessionController.
func NewSessionController(games service.GameService, tokens service.TokenService) *SessionController {
	return &SessionController{
		games:  games,
		tokens: tokens,
	}
}

// Create starts a new session and returns the token that grants access to it.
func (sc *SessionController) Create(c *gin.Context) {
	sess, err := sc.games.CreateSession(c.Request.Context())
	if err != nil {
		sc.handleError(c, err)
		return
	}

	token, err := sc.tokens.Issue(sess.ID)
	if err != nil {
		sc.handleError(c, err)
		return
	}

	response.CreatedResponse(c, models.SessionResponse{
		SessionID: sess.ID,
		Token:     token,
		View:      presenter.Render(sess.State),
	})
}

// Get returns the current board of a session.
func (sc *SessionController) Get(c *gin.Context) {
	sess, err := sc.games.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		sc.handleError(c, err)
		return
	}

	response.SuccessResponse(c, models.SessionResponse{
		SessionID: sess.ID,
		View:      presenter.Render(sess.State),
	})
}

// Move attempts a move. Rejected moves are reported, not treated as errors.
func (sc *SessionController) Move(c *gin.Context) {
	var req models.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	res, err := sc.games.Move(c.Request.Context(), c.Param("id"), *req.Index)
	if err != nil {
		sc.handleError(c, err)
		return
	}

	response.SuccessResponse(c, models.MoveResponse{
		Accepted:  res.Outcome.Accepted,
		Reason:    game.RejectionCode(res.Outcome.Reason),
		SessionID: res.Session.ID,
		View:      presenter.Render(res.Session.State),
	})
}

// Reset clears the board of a session.
func (sc *SessionController) Reset(c *gin.Context) {
	sess, err := sc.games.Reset(c.Request.Context(), c.Param("id"))
	if err != nil {
		sc.handleError(c, err)
		return
	}

	response.SuccessResponse(c, models.SessionResponse{
		SessionID: sess.ID,
		View:      presenter.Render(sess.State),
	})
}

// End removes a session.
func (sc *SessionController) End(c *gin.Context) {
	if err := sc.games.EndSession(c.Request.Context(), c.Param("id")); err != nil {
		sc.handleError(c, err)
		return
	}

	response.SuccessResponse(c, gin.H{"message": "Session ended"})
}

func (sc *SessionController) handleError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrSessionNotFound) {
		response.ErrorResponse(c, http.StatusNotFound, err.Error())
		return
	}
	slog.ErrorContext(c.Request.Context(), "Request failed", "http.route", c.FullPath(), "error", err)
	response.ErrorResponse(c, http.StatusInternalServerError, err.Error())
}
