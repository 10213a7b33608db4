package proto

import (
	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/internal/presenter"
)

// Client message types
const (
	ClientMove  = "move"
	ClientReset = "reset"
)

// Server message types
const (
	ServerState  = "state"
	ServerUpdate = "update"
	ServerEnded  = "ended"
	ServerError  = "error"
)

// ClientMessage represents a message from the client to the server.
type ClientMessage struct {
	Type  string `json:"type" validate:"required,oneof=move reset"`
	Index *int   `json:"index,omitempty" validate:"required_if=Type move"`
}

// MoveResult describes an accepted move.
type MoveResult struct {
	Index    int             `json:"index"`
	Mark     game.PlayerMark `json:"mark"`
	Finished bool            `json:"finished"`
}

// ServerMessage represents a message from the server to the client.
type ServerMessage struct {
	Type      string          `json:"type" validate:"required"`
	SessionID string          `json:"session_id,omitempty"`
	View      *presenter.View `json:"view,omitempty"`
	Move      *MoveResult     `json:"move,omitempty"`
	Reason    string          `json:"reason,omitempty"`
}
