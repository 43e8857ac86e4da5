package session

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/vovakirdan/tui-blast/internal/games/blast/engine"
	"github.com/vovakirdan/tui-blast/internal/storage"
)

// Loader reads saved games and the score table.
type Loader interface {
	LoadGame(id string) ([]byte, error)
	HighScore(gameID string) (int, error)
}

// LoadState resumes the game saved under id, or starts a new one if there is
// none. The best score is raised to the stored high score either way.
func LoadState(store Loader, id string, rng *rand.Rand, opts engine.Options) (*engine.State, error) {
	var state *engine.State

	data, err := store.LoadGame(id)
	switch {
	case err == nil:
		state = engine.Restore(engine.DecodeRecord(data), rng, opts)
	case errors.Is(err, storage.ErrNoSave):
		state = engine.New(rng, opts)
	default:
		return nil, fmt.Errorf("session: load %s: %w", id, err)
	}

	best, err := store.HighScore(id)
	if err != nil {
		return nil, fmt.Errorf("session: high score %s: %w", id, err)
	}
	state.SeedBest(best)

	return state, nil
}
