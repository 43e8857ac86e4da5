package engine

// BoardSize is the board dimension (rows and columns).
const BoardSize = 10

// Board is the play grid indexed as [row][col]. A cell is 0 when empty and 1 when
// occupied; no other values are ever stored.
type Board [BoardSize][BoardSize]uint8

// InBounds reports whether (row, col) lies on the board.
func InBounds(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

// Occupied reports whether the cell at (row, col) is filled.
// Out-of-bounds cells are reported as occupied so callers never place there.
func (b *Board) Occupied(row, col int) bool {
	if !InBounds(row, col) {
		return true
	}
	return b[row][col] != 0
}

// Filled returns the number of occupied cells.
func (b *Board) Filled() int {
	n := 0
	for r := range BoardSize {
		for c := range BoardSize {
			if b[r][c] != 0 {
				n++
			}
		}
	}
	return n
}

// rowFull reports whether every cell in row r is occupied.
func (b *Board) rowFull(r int) bool {
	for c := range BoardSize {
		if b[r][c] == 0 {
			return false
		}
	}
	return true
}

// colFull reports whether every cell in column c is occupied.
func (b *Board) colFull(c int) bool {
	for r := range BoardSize {
		if b[r][c] == 0 {
			return false
		}
	}
	return true
}
