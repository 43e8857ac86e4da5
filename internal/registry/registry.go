// Package registry holds the game factories. Game packages register their modes
// in init() so front ends can list and create them by ID.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-blast/internal/core"
)

// Game is the interface every playable mode implements.
// Games contain pure logic; the platform owns input mapping, timing and output.
type Game interface {
	// ID returns the mode identifier (e.g. "blast"). Used by the CLI and score storage.
	ID() string

	// Title returns a display name.
	Title() string

	// Reset starts a new game. It is called once at start and again on restart.
	Reset(cfg core.RuntimeConfig)

	// Step advances the game by one tick with the actions collected since the last one.
	Step(in core.InputFrame) core.StepResult

	// Render draws the game into a pre-cleared screen.
	Render(dst *core.Screen)

	// State returns the current status.
	State() core.GameState
}

// Persistent is implemented by games whose progress survives restarts.
// The platform loads saved state after Reset and saves it whenever Dirty reports
// a change.
type Persistent interface {
	// SaveID returns the storage key for the saved game.
	SaveID() string

	// Dirty reports whether state changed since the last MarshalState.
	Dirty() bool

	// MarshalState encodes the full game state and clears the dirty flag.
	MarshalState() ([]byte, error)

	// UnmarshalState replaces the game state with a saved one.
	UnmarshalState(data []byte) error

	// SeedBest raises the best score, e.g. from the score table.
	SeedBest(best int)
}

// Resizer is implemented by games that follow terminal resizes without a reset.
type Resizer interface {
	Resize(w, h int)
}

// GameInfo describes a registered game.
type GameInfo struct {
	ID    string
	Title string
}

// Factory creates a new game instance.
type Factory func() Game

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a game factory. It panics on a duplicate ID.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	factories[id] = f
	titles[id] = f().Title()
}

// List returns all registered games sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for id := range factories {
		result = append(result, GameInfo{ID: id, Title: titles[id]})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a game by ID.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}

	return f(), nil
}

// Exists reports whether a game ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
