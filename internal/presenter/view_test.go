package presenter

import (
	"bytes"
	"encoding/json"
	"testing"

	"ctchen222/tictactoe/internal/game"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnouncement(t *testing.T) {
	tests := []struct {
		status game.Status
		want   string
	}{
		{status: game.StatusActive, want: ""},
		{status: game.StatusWonByX, want: "Player X Won"},
		{status: game.StatusWonByO, want: "Player O Won"},
		{status: game.StatusTie, want: "Tie"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, Announcement(tt.status))
		})
	}
}

func TestRender_ActiveGame(t *testing.T) {
	e := game.New()
	e.ApplyMove(0)

	v := Render(e.State())

	assert.Equal(t, "O", v.DisplayPlayer)
	assert.Equal(t, "playerO", v.DisplayClass)
	assert.True(t, v.AnnouncerHidden)
	assert.Empty(t, v.Announcement)
	assert.Equal(t, game.StatusActive, v.Status)
	assert.Nil(t, v.WinningLine)

	assert.Equal(t, Tile{Index: 0, Text: "X", Class: "playerX"}, v.Tiles[0])
	for i := 1; i < game.BoardSize; i++ {
		assert.Equal(t, Tile{Index: i}, v.Tiles[i])
	}
}

func TestRender_FinishedGames(t *testing.T) {
	t.Run("Win shows the announcement and the line", func(t *testing.T) {
		e := game.New()
		for _, m := range []int{0, 1, 4, 2, 8} {
			e.ApplyMove(m)
		}

		v := Render(e.State())

		assert.False(t, v.AnnouncerHidden)
		assert.Equal(t, "Player X Won", v.Announcement)
		assert.Equal(t, []int{0, 4, 8}, v.WinningLine)
	})

	t.Run("Tie shows the announcement without a line", func(t *testing.T) {
		e := game.New()
		for _, m := range []int{0, 1, 2, 4, 3, 5, 7, 6, 8} {
			e.ApplyMove(m)
		}

		v := Render(e.State())

		assert.False(t, v.AnnouncerHidden)
		assert.Equal(t, "Tie", v.Announcement)
		assert.Nil(t, v.WinningLine)
	})
}

func TestView_JSONFieldNames(t *testing.T) {
	data, err := json.Marshal(Render(game.New().State()))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "tiles")
	assert.Contains(t, raw, "display_player")
	assert.Contains(t, raw, "announcer_hidden")
	assert.NotContains(t, raw, "announcement")
	assert.Equal(t, "active", raw["status"])
}

func TestTerminalRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := NewTerminalRenderer(&buf, termenv.WithProfile(termenv.Ascii))

	e := game.New()
	e.ApplyMove(4)
	require.NoError(t, r.Render(Render(e.State())))

	want := " 1 | 2 | 3 \n" +
		"---+---+---\n" +
		" 4 | X | 6 \n" +
		"---+---+---\n" +
		" 7 | 8 | 9 \n" +
		"Player O's turn\n"
	assert.Equal(t, want, buf.String())

	buf.Reset()
	for _, m := range []int{0, 8, 1, 2, 3, 6} {
		e.ApplyMove(m)
	}
	require.NoError(t, r.Render(Render(e.State())))
	assert.Contains(t, buf.String(), "Player X Won\n")
	assert.NotContains(t, buf.String(), "turn")
}
