package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestore(t *testing.T) {
	t.Run("Round trips a game in progress", func(t *testing.T) {
		// Given: a game with three moves played
		e := New()
		playMoves(t, e, 0, 4, 8)

		// When: restoring from its snapshot
		restored, err := Restore(e.State())

		// Then: the restored engine continues with O
		require.NoError(t, err)
		assert.Equal(t, e.State(), restored.State())
		out := restored.ApplyMove(2)
		assert.Equal(t, PlayerO, out.Mark)
	})

	t.Run("Round trips a finished game", func(t *testing.T) {
		e := New()
		playMoves(t, e, 0, 1, 3, 4, 8, 7)

		restored, err := Restore(e.State())

		require.NoError(t, err)
		assert.Equal(t, StatusWonByO, restored.Status())
		assert.Equal(t, PlayerO, restored.CurrentPlayer())
		line, ok := restored.WinningLine()
		assert.True(t, ok)
		assert.Equal(t, WinningLine{1, 4, 7}, line)
	})

	t.Run("Survives JSON encoding", func(t *testing.T) {
		e := New()
		playMoves(t, e, 4, 0)

		data, err := json.Marshal(e.State())
		require.NoError(t, err)
		var s State
		require.NoError(t, json.Unmarshal(data, &s))

		restored, err := Restore(s)
		require.NoError(t, err)
		assert.Equal(t, e.State(), restored.State())
	})
}

func TestRestore_RejectsImpossibleStates(t *testing.T) {
	tests := []struct {
		name  string
		state State
	}{
		{
			name:  "unknown cell value",
			state: State{Board: Board{"Z"}, CurrentPlayer: PlayerX, Status: StatusActive},
		},
		{
			name:  "O moved first",
			state: State{Board: Board{PlayerO}, CurrentPlayer: PlayerX, Status: StatusActive},
		},
		{
			name:  "X moved twice in a row",
			state: State{Board: Board{PlayerX, PlayerX}, CurrentPlayer: PlayerO, Status: StatusActive},
		},
		{
			name:  "wrong player to move",
			state: State{Board: Board{PlayerX}, CurrentPlayer: PlayerX, Status: StatusActive},
		},
		{
			name:  "status disagrees with board",
			state: State{Board: Board{}, CurrentPlayer: PlayerX, Status: StatusTie},
		},
		{
			name: "active status on a won board",
			state: State{
				Board:         Board{PlayerX, PlayerX, PlayerX, PlayerO, PlayerO},
				CurrentPlayer: PlayerO,
				Status:        StatusActive,
			},
		},
		{
			name: "X won but O moved last",
			state: State{
				Board:         Board{PlayerX, PlayerX, PlayerX, PlayerO, PlayerO, PlayerO},
				CurrentPlayer: PlayerX,
				Status:        StatusWonByX,
			},
		},
		{
			name: "both players hold a line",
			state: State{
				Board:         Board{None, None, None, PlayerO, PlayerO, PlayerO, PlayerX, PlayerX, PlayerX},
				CurrentPlayer: PlayerO,
				Status:        StatusWonByO,
			},
		},
		{
			name:  "unknown status",
			state: State{Board: Board{}, CurrentPlayer: PlayerX, Status: "paused"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Restore(tt.state)
			assert.ErrorIs(t, err, ErrCorruptState)
		})
	}
}
