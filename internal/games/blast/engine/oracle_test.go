package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOracleFullBoard(t *testing.T) {
	b := fillAll()
	tray := Tray{Slots: [TraySize]ShapeID{ShapeDot, ShapeDot, ShapeDot}}

	assert.False(t, HasAnyValidMove(&b, &tray))
	_, ok := FindFirstValidMove(&b, &tray)
	assert.False(t, ok)
}

func TestOracleSingleHole(t *testing.T) {
	b := fillAll()
	b[7][3] = 0
	tray := Tray{Slots: [TraySize]ShapeID{ShapeH2, ShapeV2, ShapeDot}}

	mv, ok := FindFirstValidMove(&b, &tray)
	require.True(t, ok)
	assert.Equal(t, Move{Slot: 2, Shape: ShapeDot, Row: 7, Col: 3}, mv)
}

func TestOracleCheckerboard(t *testing.T) {
	var b Board
	for r := range BoardSize {
		for c := range BoardSize {
			if (r+c)%2 == 0 {
				b[r][c] = 1
			}
		}
	}

	bigger := Tray{Slots: [TraySize]ShapeID{ShapeH2, ShapeV2, ShapeSquare2}}
	assert.False(t, HasAnyValidMove(&b, &bigger), "no two empty cells touch")

	dots := Tray{Slots: [TraySize]ShapeID{ShapeH2, ShapeDot, ShapeV2}}
	mv, ok := FindFirstValidMove(&b, &dots)
	require.True(t, ok)
	assert.Equal(t, Move{Slot: 1, Shape: ShapeDot, Row: 0, Col: 1}, mv)
}

func TestOracleIgnoresUsedSlots(t *testing.T) {
	b := fillAll()
	b[0][0] = 0
	tray := Tray{
		Slots: [TraySize]ShapeID{ShapeDot, ShapeH2, ShapeV2},
		Used:  [TraySize]bool{true, false, false},
	}

	assert.False(t, HasAnyValidMove(&b, &tray))
}

func TestOracleOrder(t *testing.T) {
	var b Board
	for c := range BoardSize {
		b[0][c] = 1
	}
	tray := Tray{
		Slots: [TraySize]ShapeID{ShapeH5, ShapeSquare3, ShapeDot},
		Used:  [TraySize]bool{true, false, false},
	}

	mv, ok := FindFirstValidMove(&b, &tray)
	require.True(t, ok)
	assert.Equal(t, Move{Slot: 1, Shape: ShapeSquare3, Row: 1, Col: 0}, mv)
}

func TestOracleDoesNotMutate(t *testing.T) {
	s := newTestState(t, 11)
	before := s.View()

	_, _ = s.Hint()
	_ = s.IsGameOver()

	assert.Equal(t, before, s.View())
}

func TestValidAnchors(t *testing.T) {
	var b Board
	anchors := ValidAnchors(&b, MustShape(ShapeSquare3))
	assert.Len(t, anchors, 8*8)
	assert.Equal(t, Point{X: 0, Y: 0}, anchors[0])
	assert.Equal(t, Point{X: 7, Y: 7}, anchors[len(anchors)-1])

	full := fillAll()
	assert.Empty(t, ValidAnchors(&full, MustShape(ShapeDot)))
}

func TestGameOverAfterPlacement(t *testing.T) {
	s := newTestState(t, 1)
	s.board = fillAll()
	s.board[9][9] = 0
	s.board[0][0] = 0
	s.setTray(ShapeDot, ShapeSquare3, ShapeSquare3)

	res, err := s.Place(0, 9, 9)
	require.NoError(t, err)

	// Row 9 and column 9 clear, but a 3x3 still has nowhere to go.
	assert.Equal(t, []int{9}, res.Rows)
	assert.Equal(t, []int{9}, res.Cols)
	assert.Equal(t, 1+25, res.Gained)
	assert.True(t, res.GameOver)
	assert.True(t, s.IsGameOver())
	assert.True(t, s.View().GameOver)
}
