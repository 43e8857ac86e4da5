package engine

import (
	"math/rand"
	"testing"
)

func newTestState(t *testing.T, seed int64) *State {
	t.Helper()
	return New(rand.New(rand.NewSource(seed)), Options{})
}

// setTray replaces the tray with unused slots holding ids.
func (s *State) setTray(ids ...ShapeID) {
	s.tray = Tray{}
	copy(s.tray.Slots[:], ids)
}

// fillAll returns a board with every cell occupied.
func fillAll() Board {
	var b Board
	for r := range BoardSize {
		for c := range BoardSize {
			b[r][c] = 1
		}
	}
	return b
}
