package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		board    Board
		want     Status
		wantLine WinningLine
		wantOK   bool
	}{
		{
			name:  "No winner - empty board",
			board: Board{},
			want:  StatusActive,
		},
		{
			name: "No winner - partial board",
			board: Board{
				PlayerX, None, None,
				None, PlayerO, None,
				None, None, None,
			},
			want: StatusActive,
		},
		{
			name: "X wins - first row",
			board: Board{
				PlayerX, PlayerX, PlayerX,
				None, PlayerO, None,
				None, None, PlayerO,
			},
			want:     StatusWonByX,
			wantLine: WinningLine{0, 1, 2},
			wantOK:   true,
		},
		{
			name: "O wins - second column",
			board: Board{
				PlayerX, PlayerO, None,
				PlayerX, PlayerO, None,
				None, PlayerO, None,
			},
			want:     StatusWonByO,
			wantLine: WinningLine{1, 4, 7},
			wantOK:   true,
		},
		{
			name: "X wins - main diagonal",
			board: Board{
				PlayerX, None, None,
				None, PlayerX, None,
				None, None, PlayerX,
			},
			want:     StatusWonByX,
			wantLine: WinningLine{0, 4, 8},
			wantOK:   true,
		},
		{
			name: "O wins - anti-diagonal",
			board: Board{
				None, None, PlayerO,
				None, PlayerO, None,
				PlayerO, None, None,
			},
			want:     StatusWonByO,
			wantLine: WinningLine{2, 4, 6},
			wantOK:   true,
		},
		{
			name: "Full board without a line is a tie",
			board: Board{
				PlayerX, PlayerO, PlayerX,
				PlayerX, PlayerO, PlayerO,
				PlayerO, PlayerX, PlayerX,
			},
			want: StatusTie,
		},
		{
			name: "Full board with a line is a win",
			board: Board{
				PlayerX, PlayerX, PlayerX,
				PlayerO, PlayerO, PlayerX,
				PlayerO, PlayerX, PlayerO,
			},
			want:     StatusWonByX,
			wantLine: WinningLine{0, 1, 2},
			wantOK:   true,
		},
		{
			name: "First line in scan order is reported",
			board: Board{
				PlayerX, PlayerX, PlayerX,
				PlayerX, PlayerO, PlayerO,
				PlayerX, PlayerO, PlayerO,
			},
			want:     StatusWonByX,
			wantLine: WinningLine{0, 1, 2},
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, line, ok := Evaluate(tt.board)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantLine, line)
			}
		})
	}
}

func TestEvaluate_EveryLineForEveryMark(t *testing.T) {
	for _, line := range WinningLines {
		for _, mark := range []PlayerMark{PlayerX, PlayerO} {
			var b Board
			for _, i := range line {
				b[i] = mark
			}

			got, gotLine, ok := Evaluate(b)
			assert.Equal(t, wonBy(mark), got, "line %v mark %s", line, mark)
			assert.True(t, ok)
			assert.Equal(t, line, gotLine)
		}
	}
}

func TestWinningLinesAreDistinctTriples(t *testing.T) {
	seen := make(map[WinningLine]bool)
	for _, l := range WinningLines {
		assert.False(t, seen[l], "duplicate line %v", l)
		seen[l] = true
		for _, i := range l {
			assert.True(t, i >= 0 && i < BoardSize)
		}
	}
	assert.Len(t, seen, 8)
}

func TestBoard_IsFullAndCount(t *testing.T) {
	tests := []struct {
		name  string
		board Board
		full  bool
		xs    int
		os    int
	}{
		{name: "Empty board is not full", board: Board{}, full: false},
		{
			name:  "Partial board is not full",
			board: Board{PlayerX, None, None, None, PlayerO, None, None, None, None},
			full:  false, xs: 1, os: 1,
		},
		{
			name: "Full board is full",
			board: Board{
				PlayerX, PlayerO, PlayerX,
				PlayerX, PlayerO, PlayerO,
				PlayerO, PlayerX, PlayerX,
			},
			full: true, xs: 5, os: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.full, tt.board.IsFull())
			assert.Equal(t, tt.xs, tt.board.Count(PlayerX))
			assert.Equal(t, tt.os, tt.board.Count(PlayerO))
			assert.Equal(t, BoardSize-tt.xs-tt.os, tt.board.Count(None))
		})
	}
}

func TestStatusHelpers(t *testing.T) {
	assert.False(t, StatusActive.IsTerminal())
	assert.True(t, StatusWonByX.IsTerminal())
	assert.True(t, StatusWonByO.IsTerminal())
	assert.True(t, StatusTie.IsTerminal())
	assert.False(t, Status("paused").Valid())

	assert.Equal(t, PlayerX, StatusWonByX.Winner())
	assert.Equal(t, PlayerO, StatusWonByO.Winner())
	assert.Equal(t, None, StatusTie.Winner())
	assert.Equal(t, None, StatusActive.Winner())

	assert.Equal(t, PlayerO, PlayerX.Opponent())
	assert.Equal(t, PlayerX, PlayerO.Opponent())
	assert.False(t, PlayerMark("Z").Valid())
}
