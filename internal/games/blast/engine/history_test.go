package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUndoOnFreshGame(t *testing.T) {
	s := newTestState(t, 1)
	before := s.View()

	assert.False(t, s.CanUndo())
	assert.False(t, s.Undo())
	assert.Equal(t, before, s.View())
}

func TestPlaceUndoRoundTrip(t *testing.T) {
	s := newTestState(t, 21)
	rng := rand.New(rand.NewSource(99))

	for step := range 300 {
		if s.IsGameOver() {
			s.NewGame()
		}

		// Pick a random legal move.
		var moves []Move
		for slot := range TraySize {
			if s.tray.Used[slot] {
				continue
			}
			shape := MustShape(s.tray.Slots[slot])
			for _, p := range ValidAnchors(&s.board, shape) {
				moves = append(moves, Move{Slot: slot, Shape: shape.ID, Row: p.Y, Col: p.X})
			}
		}
		require.NotEmpty(t, moves)
		mv := moves[rng.Intn(len(moves))]

		board, score, depth := s.board, s.score, s.history.Len()

		res, err := s.Place(mv.Slot, mv.Row, mv.Col)
		require.NoError(t, err, "step %d", step)
		require.True(t, s.Undo())

		assert.Equal(t, board, s.board, "step %d", step)
		assert.Equal(t, score, s.score, "step %d", step)
		assert.Equal(t, depth, s.history.Len(), "step %d", step)
		assert.False(t, s.tray.Used[mv.Slot], "step %d", step)
		if !res.Refilled {
			assert.Equal(t, mv.Shape, s.tray.Slots[mv.Slot], "step %d", step)
		}

		// Replay only if the slot still holds the piece we undid.
		if s.tray.Slots[mv.Slot] == mv.Shape {
			_, err = s.Place(mv.Slot, mv.Row, mv.Col)
			require.NoError(t, err)
		}
	}
}

func TestUndoRestoresClearedLines(t *testing.T) {
	s := newTestState(t, 1)
	for c := range BoardSize - 1 {
		s.board[4][c] = 1
	}
	s.setTray(ShapeDot, ShapeH2, ShapeH2)
	board := s.board

	_, err := s.Place(0, 4, BoardSize-1)
	require.NoError(t, err)
	require.Equal(t, 0, s.board.Filled())

	require.True(t, s.Undo())
	assert.Equal(t, board, s.board)
	assert.Equal(t, 0, s.Score())
}

func TestUndoUnwindsInOrder(t *testing.T) {
	s := newTestState(t, 1)
	s.setTray(ShapeDot, ShapeH2, ShapeV3)

	_, err := s.Place(0, 0, 0)
	require.NoError(t, err)
	_, err = s.Place(1, 5, 5)
	require.NoError(t, err)
	require.Equal(t, 2, s.history.Len())

	require.True(t, s.Undo())
	assert.Equal(t, 1, s.board.Filled())
	assert.Equal(t, 1, s.Score())
	assert.Equal(t, [TraySize]bool{true, false, false}, s.tray.Used)

	require.True(t, s.Undo())
	assert.Equal(t, 0, s.board.Filled())
	assert.Equal(t, [TraySize]bool{}, s.tray.Used)
	assert.False(t, s.Undo())
}

func TestUndoAfterRefillKeepsNewTray(t *testing.T) {
	s := newTestState(t, 1)
	s.setTray(ShapeDot, ShapeDot, ShapeDot)

	for i := range TraySize {
		_, err := s.Place(i, 0, i)
		require.NoError(t, err)
	}
	refilled := s.tray.Slots

	require.True(t, s.Undo())
	assert.Equal(t, refilled, s.tray.Slots)
	assert.Equal(t, [TraySize]bool{false, false, false}, s.tray.Used)
	assert.Equal(t, 2, s.board.Filled())
}

func TestBestNotRolledBackByUndo(t *testing.T) {
	s := newTestState(t, 1)
	s.setTray(ShapeSquare3, ShapeDot, ShapeDot)

	_, err := s.Place(0, 0, 0)
	require.NoError(t, err)
	require.True(t, s.Undo())

	assert.Equal(t, 0, s.Score())
	assert.Equal(t, 9, s.Best())
}

func TestHistoryLimit(t *testing.T) {
	h := NewHistory(2)
	var b Board
	for i := range 5 {
		h.Record(&b, i, i%TraySize)
	}

	require.Equal(t, 2, h.Len())
	entries := h.Entries()
	assert.Equal(t, 3, entries[0].Score)
	assert.Equal(t, 4, entries[1].Score)

	e, ok := h.Pop()
	require.True(t, ok)
	assert.Equal(t, 4, e.Score)

	h.Clear()
	_, ok = h.Pop()
	assert.False(t, ok)
}

func TestHistorySnapshotIsACopy(t *testing.T) {
	h := NewHistory(0)
	var b Board
	h.Record(&b, 0, 0)
	b[0][0] = 1

	e, ok := h.Pop()
	require.True(t, ok)
	assert.Equal(t, uint8(0), e.Board[0][0])
}

func TestNewGameClearsHistory(t *testing.T) {
	s := newTestState(t, 1)
	s.setTray(ShapeDot, ShapeDot, ShapeDot)
	_, err := s.Place(0, 0, 0)
	require.NoError(t, err)

	s.NewGame()

	assert.False(t, s.CanUndo())
	assert.Equal(t, 0, s.board.Filled())
	assert.Equal(t, TraySize, s.tray.Remaining())
}

func TestUndoSlot(t *testing.T) {
	s := newTestState(t, 1)
	s.setTray(ShapeDot, ShapeDot, ShapeDot)

	_, ok := s.UndoSlot()
	assert.False(t, ok)

	_, err := s.Place(2, 4, 4)
	require.NoError(t, err)

	slot, ok := s.UndoSlot()
	require.True(t, ok)
	assert.Equal(t, 2, slot)
	assert.Equal(t, 1, s.history.Len(), "peeking must not pop")
}
