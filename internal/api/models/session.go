package models

import "ctchen222/tictactoe/internal/presenter"

// MoveRequest defines the structure for a move request. Index is a pointer
// so that a missing index is told apart from cell 0.
type MoveRequest struct {
	Index *int `json:"index" binding:"required"`
}

// SessionResponse describes a session and its board.
type SessionResponse struct {
	SessionID string         `json:"session_id"`
	Token     string         `json:"token,omitempty"`
	View      presenter.View `json:"view"`
}

// MoveResponse is returned for every move request. A rejected move has
// Accepted false and an unchanged view.
type MoveResponse struct {
	Accepted  bool           `json:"accepted"`
	Reason    string         `json:"reason,omitempty"`
	SessionID string         `json:"session_id"`
	View      presenter.View `json:"view"`
}
