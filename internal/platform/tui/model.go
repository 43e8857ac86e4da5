package tui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-blast/internal/core"
	"github.com/vovakirdan/tui-blast/internal/registry"
	"github.com/vovakirdan/tui-blast/internal/storage"
)

// Model is the Bubble Tea model for running a game.
// Games implementing registry.Persistent are resumed on start and saved after
// every change.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	logger     *log.Logger
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	inputFrame core.InputFrame
	gameState  core.GameState
	inMenu     bool   // Back returns to the menu instead of quitting
	saveNS     string // prefix for save keys, one per SSH user
	palette    *Palette
	quitting   bool
	backToMenu bool
	scoreSaved bool // Whether score has been saved for current game over
}

// NewModel creates a new Bubble Tea model for the given game. store may be nil.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		logger:     log.New(io.Discard),
		config:     cfg,
		keyMapper:  NewKeyMapper(),
		inputFrame: core.NewInputFrame(),
	}
}

// WithLogger returns a copy of the model that logs storage failures to l.
func (m Model) WithLogger(l *log.Logger) Model {
	if l != nil {
		m.logger = l.With("game", m.game.ID())
	}
	return m
}

// WithPalette returns a copy of the model that renders with p.
func (m Model) WithPalette(p *Palette) Model {
	m.palette = p
	return m
}

// WithMenu returns a copy of the model where Back leaves to the menu.
func (m Model) WithMenu() Model {
	m.inMenu = true
	return m
}

// WithSaveNamespace returns a copy of the model whose saves are keyed under ns,
// so players sharing a database keep separate games.
func (m Model) WithSaveNamespace(ns string) Model {
	m.saveNS = ns
	return m
}

// saveKey returns the storage key for p's saved game.
func (m Model) saveKey(p registry.Persistent) string {
	if m.saveNS == "" {
		return p.SaveID()
	}
	return m.saveNS + "/" + p.SaveID()
}

// Init starts the game and resumes a saved one if there is any.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	m.resume()

	// Note: gameState will be set on first tick (value receiver limitation)
	return tickCmd(m.config.TickRate)
}

// resume seeds the best score and restores the saved game.
func (m Model) resume() {
	p, ok := m.game.(registry.Persistent)
	if !ok || m.store == nil {
		return
	}

	best, err := m.store.HighScore(m.game.ID())
	if err != nil {
		m.logger.Warn("could not read high score", "error", err)
	} else {
		p.SeedBest(best)
	}

	id := m.saveKey(p)
	data, err := m.store.LoadGame(id)
	switch {
	case errors.Is(err, storage.ErrNoSave):
		m.logger.Debug("no saved game", "save", id)
	case err != nil:
		m.logger.Warn("could not load saved game", "save", id, "error", err)
	default:
		if err := p.UnmarshalState(data); err != nil {
			m.logger.Warn("discarding saved game", "save", id, "error", err)
			return
		}
		m.logger.Info("resumed saved game", "save", id)
	}
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		m.saveScreenshot()
		return m, nil
	case "r":
		// R restarts only once the game is over; N always does.
		if m.gameState.GameOver {
			m.inputFrame.Set(core.ActionRestart)
		}
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.autosave()
		m.quitting = true
		return m, tea.Quit
	}

	if m.inputFrame.Has(core.ActionBack) {
		m.autosave()
		if m.inMenu {
			// A standalone program exits to its menu loop; SessionModel swaps
			// screens and drops the command.
			m.backToMenu = true
			return m, tea.Quit
		}
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if r, ok := m.game.(registry.Resizer); ok {
		r.Resize(msg.Width, msg.Height)
		return m, nil
	}

	// Games without Resize start over at the new size.
	if !m.gameState.GameOver {
		m.game.Reset(m.config)
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if result.Changed {
		m.autosave()
	}

	// Save score once, on the move that ends the game. A resumed board that
	// is already over was recorded when it ended.
	if result.Changed && m.gameState.GameOver && !m.scoreSaved && m.gameState.Score > 0 {
		if m.store != nil {
			if _, err := m.store.SaveScore(m.game.ID(), m.gameState.Score); err != nil {
				m.logger.Error("could not save score", "score", m.gameState.Score, "error", err)
			}
		}
		m.scoreSaved = true
	}
	if result.Changed && m.inputFrame.Has(core.ActionRestart) {
		m.scoreSaved = false
	}

	// Clear input for next frame
	m.inputFrame.Clear()

	// Continue ticking
	return m, tickCmd(m.config.TickRate)
}

// autosave writes the game if it changed since the last save.
func (m Model) autosave() {
	p, ok := m.game.(registry.Persistent)
	if !ok || m.store == nil || !p.Dirty() {
		return
	}

	data, err := p.MarshalState()
	if err != nil {
		m.logger.Error("could not encode game", "error", err)
		return
	}
	if err := m.store.SaveGame(m.saveKey(p), data); err != nil {
		m.logger.Error("autosave failed", "save", m.saveKey(p), "error", err)
	}
}

// saveScreenshot saves the current screen to a file.
func (m Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".arcade", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("could not create screenshot directory", "error", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("could not save screenshot", "error", err)
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	m.game.Render(m.screen)
	if m.palette != nil {
		return m.palette.Render(m.screen)
	}
	return RenderScreen(m.screen)
}

// GameState returns the state seen on the last tick.
func (m Model) GameState() core.GameState {
	return m.gameState
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program with the given model.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) error {
	_, err := RunModel(NewModel(game, store, cfg).WithLogger(logger))
	return err
}

// RunModel runs a prepared model and reports whether the player quit, as
// opposed to going back to the menu.
func RunModel(model Model) (quit bool, err error) {
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if err != nil {
		return true, err
	}
	m, ok := final.(Model)
	if !ok {
		return true, nil
	}
	return !m.BackToMenu(), nil
}
