package engine

import "strings"

// String draws the board with a column header and row labels, '#' for filled
// cells and '.' for empty ones.
func (b Board) String() string {
	var sb strings.Builder
	sb.WriteString("  ")
	for c := range BoardSize {
		sb.WriteByte(' ')
		sb.WriteByte(byte('0' + c))
	}
	for r := range BoardSize {
		sb.WriteByte('\n')
		sb.WriteByte(' ')
		sb.WriteByte(byte('0' + r))
		for c := range BoardSize {
			sb.WriteByte(' ')
			if b[r][c] != 0 {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}

// Art draws the shape's bounding box, one string per row.
func (s Shape) Art() []string {
	rows := make([]string, s.height)
	line := make([]byte, s.width)
	for y := range s.height {
		for x := range s.width {
			line[x] = '.'
			if s.Has(x, y) {
				line[x] = '#'
			}
		}
		rows[y] = string(line)
	}
	return rows
}
