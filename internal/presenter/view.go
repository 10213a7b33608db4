package presenter

import (
	"ctchen222/tictactoe/internal/game"
)

// Tile is the rendered form of one board cell.
type Tile struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	Class string `json:"class,omitempty"`
}

// View is everything a client needs to draw the board. It is derived from a
// game snapshot and never fed back into the engine.
type View struct {
	Tiles           [game.BoardSize]Tile `json:"tiles"`
	DisplayPlayer   string               `json:"display_player"`
	DisplayClass    string               `json:"display_class"`
	Announcement    string               `json:"announcement,omitempty"`
	AnnouncerHidden bool                 `json:"announcer_hidden"`
	Status          game.Status          `json:"status"`
	WinningLine     []int                `json:"winning_line,omitempty"`
}

// Announcement returns the text shown when a game ends, or "" while it is
// still being played.
func Announcement(status game.Status) string {
	switch status {
	case game.StatusWonByX:
		return "Player X Won"
	case game.StatusWonByO:
		return "Player O Won"
	case game.StatusTie:
		return "Tie"
	default:
		return ""
	}
}

// PlayerClass returns the CSS class used for a mark.
func PlayerClass(m game.PlayerMark) string {
	if m == game.None {
		return ""
	}
	return "player" + string(m)
}

// Render builds the view for a snapshot.
func Render(s game.State) View {
	v := View{
		DisplayPlayer: string(s.CurrentPlayer),
		DisplayClass:  PlayerClass(s.CurrentPlayer),
		Status:        s.Status,
	}

	for i, cell := range s.Board {
		v.Tiles[i] = Tile{Index: i, Text: string(cell), Class: PlayerClass(cell)}
	}

	v.Announcement = Announcement(s.Status)
	v.AnnouncerHidden = v.Announcement == ""

	if s.Status.Winner() != game.None {
		if _, line, ok := game.Evaluate(s.Board); ok {
			v.WinningLine = line[:]
		}
	}
	return v
}
