// blast is a block placement puzzle for the terminal.
//
// Usage:
//
//	blast list              - List available modes
//	blast play [mode]       - Play a mode (default: blast)
//	blast menu              - Start menu to pick modes interactively
//	blast scores [mode]     - Show high scores for a mode
//	blast shapes            - Print the piece catalog with draw odds
//	blast reset [save]      - Discard a saved board
//	blast serve             - Start SSH server for remote play
//	blast mcp               - Serve the game as MCP tools on stdio
//	blast web               - Serve the game over WebSocket
//
// Global flags:
//
//	--fps <rate>     - Set tick rate (default: 30)
//	--seed <value>   - Set RNG seed for reproducible games
//	--db <path>      - Set database path (default: ~/.arcade/blast.db)
//	--config <path>  - Use a custom game config YAML
//	--debug          - Verbose logging
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blast/internal/config"
	"github.com/vovakirdan/tui-blast/internal/core"
	"github.com/vovakirdan/tui-blast/internal/games/blast"
	"github.com/vovakirdan/tui-blast/internal/storage"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
	flagConfig string
	flagDebug  bool

	// Loaded in PersistentPreRun
	gameConfig = config.DefaultBlastConfig()
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blast",
	Short: "Block Blast - a block placement puzzle for your terminal",
	Long: `Block Blast places pieces from a tray of three onto a 10x10 board.
Filling a row or column clears it. The game ends when no piece fits.

Available commands:
  list     - Show all modes
  play     - Play a mode directly
  menu     - Interactive mode picker
  scores   - View high scores
  shapes   - Show the piece catalog
  reset    - Discard a saved board
  serve    - Start SSH server for remote play
  mcp      - Let an agent play over the Model Context Protocol
  web      - Serve the game to WebSocket clients

Examples:
  blast play
  blast play blast_daily
  blast menu --seed 42
  blast serve --ssh :2222
  blast mcp --db ./agent.db
  blast web --addr :8080`,
	PersistentPreRun: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", core.DefaultConfig().TickRate, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", storage.DefaultPath, "Path to scores and saves database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(shapesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(webCmd)
}

// loadConfig reads the game config and hands it to the game package before
// any game is created.
func loadConfig(_ *cobra.Command, _ []string) {
	cfg, err := config.LoadBlast(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
	}
	gameConfig = cfg
	blast.SetConfig(cfg)
}

// newLogger returns a stderr logger for the servers. stdout is left to the
// TUI and to MCP frames.
func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// tuiLogger returns the logger for interactive play. The screen is owned by
// Bubble Tea, so output goes to ~/.arcade/blast.log under --debug and nowhere
// otherwise. The returned func closes the log file.
func tuiLogger() (*log.Logger, func()) {
	if !flagDebug {
		return log.New(io.Discard), func() {}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return log.New(io.Discard), func() {}
	}
	path := filepath.Join(home, ".arcade", "blast.log")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return log.New(io.Discard), func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return log.New(io.Discard), func() {}
	}

	logger := log.NewWithOptions(f, log.Options{ReportTimestamp: true, Prefix: "blast"})
	logger.SetLevel(log.DebugLevel)
	return logger, func() { f.Close() }
}

// openStore opens the database, or returns nil with a warning so the game
// still runs without saves.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open database: %v\n", err)
		return nil
	}
	return store
}
