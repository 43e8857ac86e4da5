package session

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-blast/internal/games/blast/engine"
	"github.com/vovakirdan/tui-blast/internal/storage"
)

type fakeLoader struct {
	data    []byte
	loadErr error
	high    int
}

func (f fakeLoader) LoadGame(string) ([]byte, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.data, nil
}

func (f fakeLoader) HighScore(string) (int, error) {
	return f.high, nil
}

func TestLoadStateFresh(t *testing.T) {
	state, err := LoadState(fakeLoader{loadErr: storage.ErrNoSave, high: 120}, "blast",
		rand.New(rand.NewSource(1)), engine.Options{})
	require.NoError(t, err)

	v := state.View()
	assert.Equal(t, engine.Board{}, v.Board)
	assert.Zero(t, v.Score)
	assert.Equal(t, 120, v.Best)
}

func TestLoadStateResumes(t *testing.T) {
	saved := engine.New(rand.New(rand.NewSource(2)), engine.Options{})
	mv, ok := saved.Hint()
	require.True(t, ok)
	_, err := saved.Place(mv.Slot, mv.Row, mv.Col)
	require.NoError(t, err)
	data, err := saved.Record().Encode()
	require.NoError(t, err)

	state, err := LoadState(fakeLoader{data: data, high: 3}, "blast",
		rand.New(rand.NewSource(1)), engine.Options{})
	require.NoError(t, err)

	assert.Equal(t, saved.Board(), state.Board())
	assert.Equal(t, saved.Score(), state.Score())
	assert.Equal(t, max(saved.Best(), 3), state.Best())
	assert.True(t, state.CanUndo())
}

func TestLoadStateError(t *testing.T) {
	boom := errors.New("locked")
	_, err := LoadState(fakeLoader{loadErr: boom}, "blast", rand.New(rand.NewSource(1)), engine.Options{})
	assert.ErrorIs(t, err, boom)
}
