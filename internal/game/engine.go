package game

// MoveOutcome describes the effect of a single ApplyMove call.
type MoveOutcome struct {
	Accepted bool
	Index    int
	// Mark is the mark placed by this move, None when rejected.
	Mark   PlayerMark
	Status Status
	// Finished is set only on the move that took the game into a terminal status.
	Finished bool
	Next     PlayerMark
	// Reason is an *InvalidMoveError when the move was rejected.
	Reason error
}

// Engine owns the state of one game. It is not safe for concurrent use.
type Engine struct {
	board   Board
	current PlayerMark
	status  Status
}

// New returns an engine with an empty board and X to move.
func New() *Engine {
	return &Engine{
		current: PlayerX,
		status:  StatusActive,
	}
}

// Board returns a copy of the board.
func (e *Engine) Board() Board {
	return e.board
}

// CurrentPlayer returns the player to move, or the player who made the last
// move once the game is over.
func (e *Engine) CurrentPlayer() PlayerMark {
	return e.current
}

func (e *Engine) Status() Status {
	return e.status
}

// WinningLine returns the completed line when the game has been won.
func (e *Engine) WinningLine() (WinningLine, bool) {
	if e.status.Winner() == None {
		return WinningLine{}, false
	}
	_, line, ok := Evaluate(e.board)
	return line, ok
}

// ApplyMove places the current player's mark at index. Invalid moves leave the
// state untouched and come back with Accepted unset.
func (e *Engine) ApplyMove(index int) MoveOutcome {
	if err := e.check(index); err != nil {
		return MoveOutcome{
			Index:  index,
			Status: e.status,
			Next:   e.current,
			Reason: err,
		}
	}

	mark := e.current
	e.board[index] = mark

	outcome := MoveOutcome{
		Accepted: true,
		Index:    index,
		Mark:     mark,
	}

	if status, _, _ := Evaluate(e.board); status.IsTerminal() {
		e.status = status
		outcome.Finished = true
	} else {
		e.current = mark.Opponent()
	}

	outcome.Status = e.status
	outcome.Next = e.current
	return outcome
}

// Play is the strict form of ApplyMove: the state effects are identical but a
// rejected move is reported as an *InvalidMoveError.
func (e *Engine) Play(index int) (MoveOutcome, error) {
	outcome := e.ApplyMove(index)
	if !outcome.Accepted {
		return outcome, outcome.Reason
	}
	return outcome, nil
}

// Reset clears the board. Every game starts with X, whoever moved last.
func (e *Engine) Reset() {
	e.board = Board{}
	e.status = StatusActive
	if e.current == PlayerO {
		e.current = PlayerX
	}
}

func (e *Engine) check(index int) error {
	switch {
	case e.status != StatusActive:
		return &InvalidMoveError{Index: index, Err: ErrGameFinished}
	case index < 0 || index >= BoardSize:
		return &InvalidMoveError{Index: index, Err: ErrOutOfRange}
	case e.board[index] != None:
		return &InvalidMoveError{Index: index, Err: ErrCellOccupied}
	}
	return nil
}
