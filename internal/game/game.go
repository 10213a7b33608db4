package game

// PlayerMark represents the mark of a player (X, O) or an empty cell.
type PlayerMark string

// Status is the lifecycle state of a game.
type Status string

const (
	// Player marks
	None    PlayerMark = ""
	PlayerX PlayerMark = "X"
	PlayerO PlayerMark = "O"

	// Game statuses
	StatusActive Status = "active"
	StatusWonByX Status = "won_by_x"
	StatusWonByO Status = "won_by_o"
	StatusTie    Status = "tie"

	// BoardSize is the number of cells on the board.
	BoardSize = 9
)

// Valid reports whether m is one of the three cell values.
func (m PlayerMark) Valid() bool {
	return m == None || m == PlayerX || m == PlayerO
}

// Opponent returns the other player's mark.
func (m PlayerMark) Opponent() PlayerMark {
	if m == PlayerX {
		return PlayerO
	}
	return PlayerX
}

// IsTerminal reports whether no further moves are accepted in s.
func (s Status) IsTerminal() bool {
	return s == StatusWonByX || s == StatusWonByO || s == StatusTie
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusActive || s.IsTerminal()
}

// Winner returns the mark that won, or None.
func (s Status) Winner() PlayerMark {
	switch s {
	case StatusWonByX:
		return PlayerX
	case StatusWonByO:
		return PlayerO
	default:
		return None
	}
}

func wonBy(m PlayerMark) Status {
	if m == PlayerX {
		return StatusWonByX
	}
	return StatusWonByO
}

// Board is the 3x3 grid stored row-major:
//
//	[0] [1] [2]
//	[3] [4] [5]
//	[6] [7] [8]
type Board [BoardSize]PlayerMark

// IsFull reports whether no cell is empty.
func (b Board) IsFull() bool {
	for _, cell := range b {
		if cell == None {
			return false
		}
	}
	return true
}

// Count returns how many cells hold m.
func (b Board) Count(m PlayerMark) int {
	n := 0
	for _, cell := range b {
		if cell == m {
			n++
		}
	}
	return n
}

// WinningLine is a triple of board indices forming a row, column or diagonal.
type WinningLine [3]int

// WinningLines are scanned in this order; the first complete line wins.
var WinningLines = [8]WinningLine{
	{0, 1, 2},
	{0, 3, 6},
	{0, 4, 8},
	{1, 4, 7},
	{2, 5, 8},
	{2, 4, 6},
	{3, 4, 5},
	{6, 7, 8},
}

// Evaluate computes the status of a board. When the status is a win, the
// completed line is returned with ok set.
func Evaluate(b Board) (status Status, line WinningLine, ok bool) {
	for _, l := range WinningLines {
		a, c, d := b[l[0]], b[l[1]], b[l[2]]
		if a == None || c == None || d == None {
			continue
		}
		if a == c && c == d {
			return wonBy(a), l, true
		}
	}

	if b.IsFull() {
		return StatusTie, WinningLine{}, false
	}
	return StatusActive, WinningLine{}, false
}
