package engine

// Scoring constants for line clears.
const (
	LinePoints  = 10 // per cleared row or column
	ComboPoints = 5  // per extra line beyond the first in one placement
)

// PlaceResult describes what a single placement did.
type PlaceResult struct {
	Slot     int     `json:"slot"`
	Shape    ShapeID `json:"shape"`
	Row      int     `json:"row"`
	Col      int     `json:"col"`
	Base     int     `json:"base"`     // cells placed
	Bonus    int     `json:"bonus"`    // line clear bonus
	Gained   int     `json:"gained"`   // Base + Bonus
	Rows     []int   `json:"rows"`     // cleared rows, ascending
	Cols     []int   `json:"cols"`     // cleared columns, ascending
	Refilled bool    `json:"refilled"` // the tray was refilled after this placement
	GameOver bool    `json:"gameOver"` // no tray piece fits after this placement
}

// Lines returns the number of rows and columns cleared.
func (r PlaceResult) Lines() int {
	return len(r.Rows) + len(r.Cols)
}

// CanPlace reports whether every cell of s anchored at (row, col) is on the board
// and empty. It never modifies the board.
func CanPlace(b *Board, s Shape, row, col int) bool {
	for _, p := range s.cells {
		r, c := row+p.Y, col+p.X
		if !InBounds(r, c) || b[r][c] != 0 {
			return false
		}
	}
	return true
}

// LineBonus is the score for clearing lines in one placement:
// 10 per line, plus 5 for each line beyond the first.
func LineBonus(lines int) int {
	if lines <= 0 {
		return 0
	}
	bonus := LinePoints * lines
	if lines > 1 {
		bonus += ComboPoints * (lines - 1)
	}
	return bonus
}

// stamp marks every cell of s occupied. The caller has checked CanPlace.
func stamp(b *Board, s Shape, row, col int) {
	for _, p := range s.cells {
		b[row+p.Y][col+p.X] = 1
	}
}

// fullLines scans the board once for full rows and full columns.
// Both sets come from the same board so clears never cascade.
func fullLines(b *Board) (rows, cols []int) {
	for r := range BoardSize {
		if b.rowFull(r) {
			rows = append(rows, r)
		}
	}
	for c := range BoardSize {
		if b.colFull(c) {
			cols = append(cols, c)
		}
	}
	return rows, cols
}

// clearLines empties the given rows and columns. Shared cells are cleared once.
func clearLines(b *Board, rows, cols []int) {
	for _, r := range rows {
		for c := range BoardSize {
			b[r][c] = 0
		}
	}
	for _, c := range cols {
		for r := range BoardSize {
			b[r][c] = 0
		}
	}
}

// applyPlacement stamps s, clears completed lines and returns the score breakdown.
func applyPlacement(b *Board, s Shape, row, col int) (base, bonus int, rows, cols []int) {
	stamp(b, s, row, col)
	base = s.Size()

	rows, cols = fullLines(b)
	if lines := len(rows) + len(cols); lines > 0 {
		clearLines(b, rows, cols)
		bonus = LineBonus(lines)
	}
	return base, bonus, rows, cols
}
