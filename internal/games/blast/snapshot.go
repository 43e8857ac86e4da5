package blast

import "github.com/vovakirdan/tui-blast/internal/games/blast/engine"

// GameStateType is the coarse state of a game.
type GameStateType string

const (
	StatePlaying     GameStateType = "playing"
	StatePaused      GameStateType = "paused"
	StateGameOver    GameStateType = "game_over"
	StatePausedSmall GameStateType = "paused_small_window"
)

// Snapshot captures the game for determinism tests.
type Snapshot struct {
	Tick      uint64
	Mode      string
	Score     int
	Best      int
	Board     engine.Board
	Tray      [engine.TraySize]engine.ShapeID
	Used      [engine.TraySize]bool
	Slot      int
	CursorRow int
	CursorCol int
	Hint      bool
	State     GameStateType
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.paused:
		state = StatePaused
	case g.state.IsGameOver():
		state = StateGameOver
	}

	tray := g.state.Tray()
	return Snapshot{
		Tick:      g.tick,
		Mode:      string(g.mode),
		Score:     g.state.Score(),
		Best:      g.state.Best(),
		Board:     g.state.Board(),
		Tray:      tray.Slots,
		Used:      tray.Used,
		Slot:      g.slot,
		CursorRow: g.cursorRow,
		CursorCol: g.cursorCol,
		Hint:      g.hintVisible(),
		State:     state,
	}
}
