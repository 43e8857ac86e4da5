package engine

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapesAreNormalized(t *testing.T) {
	for _, s := range Shapes() {
		t.Run(s.Name, func(t *testing.T) {
			cells := s.Cells()
			require.NotEmpty(t, cells)

			minX, minY := cells[0].X, cells[0].Y
			maxX, maxY := 0, 0
			seen := make(map[Point]bool)
			for _, p := range cells {
				assert.GreaterOrEqual(t, p.X, 0)
				assert.GreaterOrEqual(t, p.Y, 0)
				assert.False(t, seen[p], "duplicate cell %v", p)
				seen[p] = true
				minX, minY = min(minX, p.X), min(minY, p.Y)
				maxX, maxY = max(maxX, p.X), max(maxY, p.Y)
			}

			assert.Equal(t, 0, minX, "bounding box must touch x=0")
			assert.Equal(t, 0, minY, "bounding box must touch y=0")
			assert.Equal(t, maxX+1, s.Width())
			assert.Equal(t, maxY+1, s.Height())
			assert.Equal(t, len(cells), s.Size())
		})
	}
}

func TestCatalogIDsMatchIndex(t *testing.T) {
	shapes := Shapes()
	require.Len(t, shapes, ShapeCount())
	for i, s := range shapes {
		assert.Equal(t, ShapeID(i), s.ID)
	}
}

func TestCatalogHasNoDuplicateShapes(t *testing.T) {
	keys := make(map[string]string)
	for _, s := range Shapes() {
		cells := s.Cells()
		sort.Slice(cells, func(i, j int) bool {
			if cells[i].Y != cells[j].Y {
				return cells[i].Y < cells[j].Y
			}
			return cells[i].X < cells[j].X
		})
		key := fmt.Sprint(cells)
		if other, ok := keys[key]; ok {
			t.Errorf("%s duplicates %s", s.Name, other)
		}
		keys[key] = s.Name
	}
}

func TestCatalogContents(t *testing.T) {
	tests := []struct {
		id   ShapeID
		w, h int
		size int
	}{
		{ShapeDot, 1, 1, 1},
		{ShapeH2, 2, 1, 2},
		{ShapeH3, 3, 1, 3},
		{ShapeH4, 4, 1, 4},
		{ShapeH5, 5, 1, 5},
		{ShapeV2, 1, 2, 2},
		{ShapeV3, 1, 3, 3},
		{ShapeV4, 1, 4, 4},
		{ShapeV5, 1, 5, 5},
		{ShapeSquare2, 2, 2, 4},
		{ShapeRectWide, 3, 2, 6},
		{ShapeRectTall, 2, 3, 6},
		{ShapeSquare3, 3, 3, 9},
		{ShapePlus, 3, 3, 5},
		{ShapeStair, 3, 2, 4},
	}

	for _, tt := range tests {
		t.Run(tt.id.String(), func(t *testing.T) {
			s := MustShape(tt.id)
			assert.Equal(t, tt.w, s.Width())
			assert.Equal(t, tt.h, s.Height())
			assert.Equal(t, tt.size, s.Size())
		})
	}
}

func TestShapeCellsIsACopy(t *testing.T) {
	s := MustShape(ShapeH3)
	cells := s.Cells()
	cells[0] = Point{X: 9, Y: 9}

	assert.Equal(t, Point{X: 0, Y: 0}, MustShape(ShapeH3).Cells()[0])
	assert.False(t, MustShape(ShapeH3).Has(9, 9))
}

func TestShapeByIDBounds(t *testing.T) {
	_, ok := ShapeByID(-1)
	assert.False(t, ok)
	_, ok = ShapeByID(ShapeID(ShapeCount()))
	assert.False(t, ok)
	assert.Equal(t, "unknown", ShapeID(99).String())
	assert.Panics(t, func() { MustShape(99) })
}

func TestShapeArt(t *testing.T) {
	assert.Equal(t, []string{"#"}, MustShape(ShapeDot).Art())
	assert.Equal(t, []string{"###"}, MustShape(ShapeH3).Art())
	assert.Equal(t, []string{".#.", "###", ".#."}, MustShape(ShapePlus).Art())
	assert.Equal(t, []string{"#.", "#.", "##"}, MustShape(ShapeBigL).Art())
}

func TestBoardString(t *testing.T) {
	var b Board
	b[0][0] = 1
	b[9][9] = 1

	lines := strings.Split(b.String(), "\n")
	require.Len(t, lines, BoardSize+1)
	assert.Equal(t, "   0 1 2 3 4 5 6 7 8 9", lines[0])
	assert.Equal(t, " 0 # . . . . . . . . .", lines[1])
	assert.Equal(t, " 9 . . . . . . . . . #", lines[10])
}
