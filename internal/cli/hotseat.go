package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/internal/presenter"

	"github.com/muesli/termenv"
)

const help = "Keys 1-9 play a tile, r restarts, q quits."

// HotSeat is a two-player game on one terminal.
type HotSeat struct {
	engine   *game.Engine
	renderer *presenter.TerminalRenderer
	out      io.Writer
}

// NewHotSeat creates a HotSeat drawing to out.
func NewHotSeat(out io.Writer, opts ...termenv.OutputOption) *HotSeat {
	return &HotSeat{
		engine:   game.New(),
		renderer: presenter.NewTerminalRenderer(out, opts...),
		out:      out,
	}
}

// Run reads one gesture per line from in until q, end of input or ctx is
// done. Lines that are not a gesture, and moves the engine rejects, change
// nothing and print nothing.
func (h *HotSeat) Run(ctx context.Context, in io.Reader) error {
	if _, err := fmt.Fprintln(h.out, help); err != nil {
		return err
	}
	if err := h.render(); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		changed, quit := h.handle(strings.TrimSpace(scanner.Text()))
		if quit {
			return nil
		}
		if changed {
			if err := h.render(); err != nil {
				return err
			}
		}
	}
	return scanner.Err()
}

func (h *HotSeat) handle(input string) (changed, quit bool) {
	switch strings.ToLower(input) {
	case "q":
		return false, true
	case "r":
		h.engine.Reset()
		return true, false
	}

	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > game.BoardSize {
		return false, false
	}
	return h.engine.ApplyMove(n - 1).Accepted, false
}

func (h *HotSeat) render() error {
	if _, err := fmt.Fprintln(h.out); err != nil {
		return err
	}
	return h.renderer.Render(presenter.Render(h.engine.State()))
}

// State returns the current game snapshot.
func (h *HotSeat) State() game.State {
	return h.engine.State()
}
