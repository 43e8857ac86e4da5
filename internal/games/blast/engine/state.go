package engine

import (
	"fmt"
	"math/rand"
)

// Options tune a game instance. Zero values select the defaults.
type Options struct {
	WeightCap    int // dispenser weight constant
	BagMin       int // dispenser refill threshold
	HistoryLimit int // max undo depth, 0 = unlimited
}

// State owns one game: board, tray, dispenser, score and history.
// It is not safe for concurrent use; serialize commands through a single owner.
type State struct {
	board   Board
	tray    Tray
	score   int
	best    int
	history History
	disp    *Dispenser
}

// View is a read-only copy of the state for rendering and transports.
type View struct {
	Board     Board             `json:"board"`
	Tray      [TraySize]ShapeID `json:"tray"`
	Used      [TraySize]bool    `json:"used"`
	Score     int               `json:"score"`
	Best      int               `json:"best"`
	GameOver  bool              `json:"gameOver"`
	UndoDepth int               `json:"undoDepth"`
}

// New creates a state and starts a fresh game.
func New(rng *rand.Rand, opts Options) *State {
	s := &State{
		history: NewHistory(opts.HistoryLimit),
		disp:    NewDispenser(rng, opts.WeightCap, opts.BagMin),
	}
	s.NewGame()
	return s
}

// NewGame clears the board, score, history and bag, then deals a full tray.
// The best score is kept.
func (s *State) NewGame() {
	s.board = Board{}
	s.score = 0
	s.history.Clear()
	s.disp.Reset()
	s.disp.RefillTray(&s.tray)
}

// View returns a snapshot of the state.
func (s *State) View() View {
	return View{
		Board:     s.board,
		Tray:      s.tray.Slots,
		Used:      s.tray.Used,
		Score:     s.score,
		Best:      s.best,
		GameOver:  s.IsGameOver(),
		UndoDepth: s.history.Len(),
	}
}

// Board returns a copy of the board.
func (s *State) Board() Board {
	return s.board
}

// Tray returns a copy of the tray.
func (s *State) Tray() Tray {
	return s.tray
}

// Score returns the current score.
func (s *State) Score() int {
	return s.score
}

// Best returns the best score seen.
func (s *State) Best() int {
	return s.best
}

// SeedBest raises the best score, e.g. from a stored leaderboard.
func (s *State) SeedBest(best int) {
	s.best = max(s.best, best)
}

// Dispenser exposes the piece source for inspection.
func (s *State) Dispenser() *Dispenser {
	return s.disp
}

// CanPlace reports whether shape id fits at (row, col) on the current board.
func (s *State) CanPlace(id ShapeID, row, col int) bool {
	shape, ok := ShapeByID(id)
	if !ok {
		return false
	}
	return CanPlace(&s.board, shape, row, col)
}

// Place puts the piece in slot at (row, col), clears completed lines, scores,
// and refills the tray once all three slots are used. An illegal request returns
// an error wrapping ErrInvalidPlacement and leaves the state untouched.
func (s *State) Place(slot, row, col int) (PlaceResult, error) {
	if !ValidSlot(slot) {
		return PlaceResult{}, fmt.Errorf("slot %d out of range: %w", slot, ErrInvalidPlacement)
	}
	if s.tray.Used[slot] {
		return PlaceResult{}, fmt.Errorf("slot %d already used: %w", slot, ErrInvalidPlacement)
	}
	shape, ok := ShapeByID(s.tray.Slots[slot])
	if !ok {
		return PlaceResult{}, fmt.Errorf("slot %d holds unknown shape %d: %w", slot, s.tray.Slots[slot], ErrInvalidPlacement)
	}
	if !CanPlace(&s.board, shape, row, col) {
		return PlaceResult{}, fmt.Errorf("%s does not fit at (%d,%d): %w", shape.Name, row, col, ErrInvalidPlacement)
	}

	s.history.Record(&s.board, s.score, slot)

	base, bonus, rows, cols := applyPlacement(&s.board, shape, row, col)
	gained := base + bonus
	s.score += gained
	s.best = max(s.best, s.score)

	s.tray.Used[slot] = true
	refilled := false
	if s.tray.AllUsed() {
		s.disp.RefillTray(&s.tray)
		refilled = true
	}

	return PlaceResult{
		Slot:     slot,
		Shape:    shape.ID,
		Row:      row,
		Col:      col,
		Base:     base,
		Bonus:    bonus,
		Gained:   gained,
		Rows:     rows,
		Cols:     cols,
		Refilled: refilled,
		GameOver: s.IsGameOver(),
	}, nil
}

// Undo reverts the last placement: board and score come back and the slot it used
// becomes available again. The slot keeps whatever shape it holds now.
// It returns false when there is nothing to undo.
func (s *State) Undo() bool {
	e, ok := s.history.Pop()
	if !ok {
		return false
	}
	s.board = e.Board
	s.score = e.Score
	if ValidSlot(e.Slot) {
		s.tray.Used[e.Slot] = false
	}
	return true
}

// UndoSlot returns the tray slot the next Undo would free, or false if there is
// nothing to undo.
func (s *State) UndoSlot() (int, bool) {
	e, ok := s.history.Peek()
	return e.Slot, ok
}

// CanUndo reports whether Undo would do anything.
func (s *State) CanUndo() bool {
	return s.history.Len() > 0
}

// Hint returns the first legal move in slot, row, column order.
func (s *State) Hint() (Move, bool) {
	return FindFirstValidMove(&s.board, &s.tray)
}

// IsGameOver reports whether no unused tray piece fits anywhere.
func (s *State) IsGameOver() bool {
	return !HasAnyValidMove(&s.board, &s.tray)
}
