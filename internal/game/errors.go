package game

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfRange   = errors.New("cell index out of range")
	ErrCellOccupied = errors.New("cell already occupied")
	ErrGameFinished = errors.New("game already finished")

	ErrCorruptState = errors.New("corrupt game state")
)

// InvalidMoveError reports why a move was rejected.
type InvalidMoveError struct {
	Index int
	Err   error
}

func (e *InvalidMoveError) Error() string {
	return fmt.Sprintf("invalid move at cell %d: %v", e.Index, e.Err)
}

func (e *InvalidMoveError) Unwrap() error {
	return e.Err
}

// RejectionCode maps a rejection to a short code used in logs and metrics.
func RejectionCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrOutOfRange):
		return "out_of_range"
	case errors.Is(err, ErrCellOccupied):
		return "cell_occupied"
	case errors.Is(err, ErrGameFinished):
		return "game_finished"
	default:
		return "unknown"
	}
}
