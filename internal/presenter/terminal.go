package presenter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
)

// TerminalRenderer draws a View as text. Colours are only emitted when the
// writer is a terminal that supports them.
type TerminalRenderer struct {
	out *termenv.Output
}

func NewTerminalRenderer(w io.Writer, opts ...termenv.OutputOption) *TerminalRenderer {
	return &TerminalRenderer{out: termenv.NewOutput(w, opts...)}
}

func (r *TerminalRenderer) mark(t Tile) string {
	if t.Text == "" {
		// empty tiles show the key that plays them
		return r.out.String(strconv.Itoa(t.Index + 1)).Faint().String()
	}
	color := "4"
	if t.Text == "O" {
		color = "1"
	}
	return r.out.String(t.Text).Foreground(r.out.Color(color)).Bold().String()
}

// Render writes the board followed by the turn indicator or announcement.
func (r *TerminalRenderer) Render(v View) error {
	var b strings.Builder
	for row := 0; row < 3; row++ {
		if row > 0 {
			b.WriteString("---+---+---\n")
		}
		cells := make([]string, 3)
		for col := 0; col < 3; col++ {
			cells[col] = " " + r.mark(v.Tiles[row*3+col]) + " "
		}
		b.WriteString(strings.Join(cells, "|"))
		b.WriteString("\n")
	}

	if v.AnnouncerHidden {
		fmt.Fprintf(&b, "Player %s's turn\n", v.DisplayPlayer)
	} else {
		fmt.Fprintf(&b, "%s\n", r.out.String(v.Announcement).Bold())
	}

	_, err := io.WriteString(r.out, b.String())
	return err
}
