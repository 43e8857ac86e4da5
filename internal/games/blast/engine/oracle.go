package engine

// Move is a placement the oracle found to be legal.
type Move struct {
	Slot  int     `json:"slot"`
	Shape ShapeID `json:"shape"`
	Row   int     `json:"row"`
	Col   int     `json:"col"`
}

// HasAnyValidMove reports whether any unused tray piece fits anywhere on the board.
func HasAnyValidMove(b *Board, t *Tray) bool {
	_, ok := FindFirstValidMove(b, t)
	return ok
}

// FindFirstValidMove searches unused slots in order, then rows, then columns, and
// returns the first legal placement. The order is fixed so hints are deterministic.
func FindFirstValidMove(b *Board, t *Tray) (Move, bool) {
	for slot := range TraySize {
		if t.Used[slot] {
			continue
		}
		s, ok := ShapeByID(t.Slots[slot])
		if !ok {
			continue
		}
		for r := range BoardSize {
			for c := range BoardSize {
				if CanPlace(b, s, r, c) {
					return Move{Slot: slot, Shape: s.ID, Row: r, Col: c}, true
				}
			}
		}
	}
	return Move{}, false
}

// ValidAnchors returns every anchor where s fits, in row-major order.
func ValidAnchors(b *Board, s Shape) []Point {
	var out []Point
	for r := range BoardSize {
		for c := range BoardSize {
			if CanPlace(b, s, r, c) {
				out = append(out, Point{X: c, Y: r})
			}
		}
	}
	return out
}
