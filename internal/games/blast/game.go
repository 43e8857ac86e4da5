// Package blast is the terminal front end of the block puzzle. It adapts the
// rule engine to the platform's tick loop: cursor and slot selection, hints,
// pause, and autosave hooks.
package blast

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-blast/internal/config"
	"github.com/vovakirdan/tui-blast/internal/core"
	"github.com/vovakirdan/tui-blast/internal/games/blast/engine"
	"github.com/vovakirdan/tui-blast/internal/registry"
)

// Mode selects how the piece stream is seeded.
type Mode string

const (
	ModeClassic Mode = "classic"
	ModeDaily   Mode = "daily"
)

// Game IDs as registered.
const (
	IDClassic = "blast"
	IDDaily   = "blast_daily"
)

// Game implements registry.Game and registry.Persistent.
type Game struct {
	mode  Mode
	cfg   config.BlastConfig
	now   func() time.Time
	rng   *rand.Rand
	state *engine.State
	tick  uint64

	tickRate int
	screenW  int
	screenH  int

	cursorRow int
	cursorCol int
	slot      int

	hint      engine.Move
	hintTicks int // remaining highlight ticks
	hintTotal int
	hintStep  int // ticks per blink toggle

	message  string
	paused   bool
	tooSmall bool
	dirty    bool
}

// ErrSavesDisabled is returned by UnmarshalState when the config turns saves off.
var ErrSavesDisabled = errors.New("blast: saves disabled")

// Package-level config, set once by the CLI before games are created.
var gameConfig = config.DefaultBlastConfig()

// SetConfig sets the configuration used by games created afterwards.
func SetConfig(cfg config.BlastConfig) {
	cfg.Normalize()
	gameConfig = cfg
}

// New creates a classic mode game.
func New() *Game {
	return &Game{mode: ModeClassic, cfg: gameConfig, now: time.Now}
}

// NewDaily creates a daily challenge game.
func NewDaily() *Game {
	return &Game{mode: ModeDaily, cfg: gameConfig, now: time.Now}
}

func init() {
	registry.Register(IDClassic, func() registry.Game {
		return New()
	})
	registry.Register(IDDaily, func() registry.Game {
		return NewDaily()
	})
}

// DailySeed derives the RNG seed for the day containing t, in UTC.
func DailySeed(t time.Time) int64 {
	y, m, d := t.UTC().Date()
	return int64(y*10000 + int(m)*100 + d)
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeDaily {
		return IDDaily
	}
	return IDClassic
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeDaily {
		return "Block Blast (Daily)"
	}
	return "Block Blast"
}

// Options converts the game config to engine options.
func Options(cfg config.BlastConfig) engine.Options {
	return engine.Options{
		WeightCap:    cfg.Dispenser.WeightCap,
		BagMin:       cfg.Dispenser.BagMin,
		HistoryLimit: cfg.History.Limit,
	}
}

// Reset starts a new game. The best score carries over.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	best := 0
	if g.state != nil {
		best = g.state.Best()
	}

	seed := cfg.Seed
	if g.mode == ModeDaily {
		seed = DailySeed(g.now())
	}
	g.rng = rand.New(rand.NewSource(seed))
	g.state = engine.New(g.rng, Options(g.cfg))
	g.state.SeedBest(best)

	g.tick = 0
	g.tickRate = max(cfg.TickRate, 1)
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.paused = false
	g.message = ""
	g.cancelHint()
	g.centerCursor()
	g.dirty = true

	g.checkScreenSize()
}

// Resize adopts a new screen size. The game in progress is kept.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.checkScreenSize()
}

// checkScreenSize checks if the screen is large enough.
func (g *Game) checkScreenSize() {
	g.tooSmall = g.screenW < minWidth || g.screenH < minHeight
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++
	if g.hintTicks > 0 {
		g.hintTicks--
	}

	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	if !in.Empty() && !in.Has(core.ActionHint) {
		g.cancelHint()
	}

	g.handleSelection(in)
	g.handleMovement(in)

	changed := false
	switch {
	case in.Has(core.ActionRestart):
		g.newGame()
		changed = true
	case in.Has(core.ActionUndo):
		changed = g.undo()
	case in.Has(core.ActionHint):
		g.showHint()
	case in.Has(core.ActionConfirm):
		changed = g.place()
	}

	if changed {
		g.dirty = true
	}
	return core.StepResult{State: g.State(), Changed: changed}
}

// handleSelection switches the active tray slot.
func (g *Game) handleSelection(in core.InputFrame) {
	tray := g.state.Tray()
	for i, a := range []core.Action{core.ActionSlot1, core.ActionSlot2, core.ActionSlot3} {
		if in.Has(a) && tray.Available(i) {
			g.slot = i
		}
	}
	if in.Has(core.ActionNextSlot) {
		if next := tray.NextAvailable(g.slot); next >= 0 {
			g.slot = next
		}
	}
	g.ensureSlot()
	g.clampCursor()
}

// handleMovement moves the placement cursor.
func (g *Game) handleMovement(in core.InputFrame) {
	switch {
	case in.Has(core.ActionUp):
		g.cursorRow--
	case in.Has(core.ActionDown):
		g.cursorRow++
	}
	switch {
	case in.Has(core.ActionLeft):
		g.cursorCol--
	case in.Has(core.ActionRight):
		g.cursorCol++
	}
	g.clampCursor()
}

// place puts the selected piece at the cursor.
func (g *Game) place() bool {
	res, err := g.state.Place(g.slot, g.cursorRow, g.cursorCol)
	if err != nil {
		g.message = "Doesn't fit"
		return false
	}

	g.message = describe(res)
	if res.Refilled {
		g.slot = 0
	}
	g.ensureSlot()
	g.clampCursor()
	return true
}

// describe summarizes a placement for the HUD.
func describe(res engine.PlaceResult) string {
	switch lines := res.Lines(); {
	case lines == 0:
		return fmt.Sprintf("+%d", res.Gained)
	case lines == 1:
		return fmt.Sprintf("+%d  line clear!", res.Gained)
	default:
		return fmt.Sprintf("+%d  %dx combo!", res.Gained, lines)
	}
}

// undo reverts the last placement and reselects its slot.
func (g *Game) undo() bool {
	slot, ok := g.state.UndoSlot()
	if !ok {
		g.message = "Nothing to undo"
		return false
	}
	g.state.Undo()
	g.slot = slot
	g.ensureSlot()
	g.clampCursor()
	g.message = "Undone"
	return true
}

// showHint starts blinking the first legal move.
func (g *Game) showHint() {
	mv, ok := g.state.Hint()
	if !ok {
		g.message = "No moves left"
		return
	}
	g.hint = mv
	g.hintStep = max(1, g.cfg.Hint.IntervalMS*g.tickRate/1000)
	g.hintTotal = g.cfg.Hint.Flashes * g.hintStep
	g.hintTicks = g.hintTotal
}

func (g *Game) cancelHint() {
	g.hintTicks = 0
}

// hintVisible reports whether the hint highlight is lit this tick.
func (g *Game) hintVisible() bool {
	if g.hintTicks <= 0 {
		return false
	}
	return ((g.hintTotal-g.hintTicks)/g.hintStep)%2 == 0
}

// newGame clears the board and deals a fresh tray.
func (g *Game) newGame() {
	g.state.NewGame()
	g.centerCursor()
	g.message = "New game"
}

// ensureSlot moves the selection off a used slot.
func (g *Game) ensureSlot() {
	tray := g.state.Tray()
	if tray.Available(g.slot) {
		return
	}
	if next := tray.NextAvailable(g.slot); next >= 0 {
		g.slot = next
	}
}

func (g *Game) centerCursor() {
	g.slot = 0
	g.ensureSlot()
	g.cursorRow = engine.BoardSize/2 - 1
	g.cursorCol = engine.BoardSize/2 - 1
	g.clampCursor()
}

// clampCursor keeps the selected piece fully on the board.
func (g *Game) clampCursor() {
	shape := g.selectedShape()
	g.cursorRow = core.Clamp(g.cursorRow, 0, engine.BoardSize-shape.Height())
	g.cursorCol = core.Clamp(g.cursorCol, 0, engine.BoardSize-shape.Width())
}

// selectedShape returns the piece in the active slot.
func (g *Game) selectedShape() engine.Shape {
	tray := g.state.Tray()
	if s, ok := engine.ShapeByID(tray.Slots[g.slot]); ok {
		return s
	}
	return engine.MustShape(engine.ShapeDot)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.state.Score(),
		Best:     g.state.Best(),
		GameOver: g.state.IsGameOver(),
		Paused:   g.paused || g.tooSmall,
	}
}

// SaveID returns the storage key. Daily games are keyed by date so yesterday's
// board is never resumed.
func (g *Game) SaveID() string {
	if g.mode == ModeDaily {
		return IDDaily + ":" + g.now().UTC().Format(time.DateOnly)
	}
	return IDClassic
}

// Dirty reports whether the state changed since the last save. It is always
// false when saves are disabled in the config.
func (g *Game) Dirty() bool {
	return g.dirty && g.cfg.Save.Enabled
}

// MarshalState encodes the game for saving.
func (g *Game) MarshalState() ([]byte, error) {
	data, err := g.state.Record().Encode()
	if err != nil {
		return nil, fmt.Errorf("blast: encode state: %w", err)
	}
	g.dirty = false
	return data, nil
}

// UnmarshalState resumes a saved game. Damaged fields fall back to defaults.
func (g *Game) UnmarshalState(data []byte) error {
	if !g.cfg.Save.Enabled {
		return ErrSavesDisabled
	}
	if len(data) == 0 {
		return errors.New("blast: empty save")
	}
	best := g.state.Best()
	g.state = engine.Restore(engine.DecodeRecord(data), g.rng, Options(g.cfg))
	g.state.SeedBest(best)
	g.cancelHint()
	g.centerCursor()
	g.dirty = false
	return nil
}

// SeedBest raises the best score.
func (g *Game) SeedBest(best int) {
	g.state.SeedBest(best)
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "Arrows move | 1-3/Tab piece | Enter place | U undo | H hint | N new | Q quit"
}
