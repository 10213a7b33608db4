package game

import "fmt"

// State is a serializable snapshot of an engine.
type State struct {
	Board         Board      `json:"board"`
	CurrentPlayer PlayerMark `json:"current_player"`
	Status        Status     `json:"status"`
}

// State returns a snapshot of the engine.
func (e *Engine) State() State {
	return State{
		Board:         e.board,
		CurrentPlayer: e.current,
		Status:        e.status,
	}
}

func (b Board) hasLine(m PlayerMark) bool {
	for _, l := range WinningLines {
		if b[l[0]] == m && b[l[1]] == m && b[l[2]] == m {
			return true
		}
	}
	return false
}

// Restore rebuilds an engine from a snapshot. Snapshots the state machine
// could not have produced are rejected with ErrCorruptState.
func Restore(s State) (*Engine, error) {
	for i, cell := range s.Board {
		if !cell.Valid() {
			return nil, fmt.Errorf("%w: cell %d holds %q", ErrCorruptState, i, cell)
		}
	}

	nx, no := s.Board.Count(PlayerX), s.Board.Count(PlayerO)
	if nx != no && nx != no+1 {
		return nil, fmt.Errorf("%w: %d X marks against %d O marks", ErrCorruptState, nx, no)
	}

	if s.Board.hasLine(PlayerX) && s.Board.hasLine(PlayerO) {
		return nil, fmt.Errorf("%w: both players hold a line", ErrCorruptState)
	}

	status, _, _ := Evaluate(s.Board)
	if s.Status != status {
		return nil, fmt.Errorf("%w: status %q, board evaluates to %q", ErrCorruptState, s.Status, status)
	}

	// While active the current player is the next to move; once finished it
	// is the player who made the last move.
	next := PlayerX
	if nx > no {
		next = PlayerO
	}
	want := next
	if status.IsTerminal() {
		want = next.Opponent()
	}
	if winner := status.Winner(); winner != None && winner != want {
		return nil, fmt.Errorf("%w: %s won but %s moved last", ErrCorruptState, winner, want)
	}
	if s.CurrentPlayer != want {
		return nil, fmt.Errorf("%w: current player %q, expected %q", ErrCorruptState, s.CurrentPlayer, want)
	}

	return &Engine{
		board:   s.Board,
		current: s.CurrentPlayer,
		status:  s.Status,
	}, nil
}
