package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blast/internal/games/blast"
	"github.com/vovakirdan/tui-blast/internal/games/blast/engine"
	"github.com/vovakirdan/tui-blast/internal/session"
	"github.com/vovakirdan/tui-blast/internal/storage"
	"github.com/vovakirdan/tui-blast/internal/transport/mcp"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var flagSaveID string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the game as MCP tools on stdio",
	Long: `Run a Model Context Protocol server on stdin/stdout so an agent can play.

The board is saved after every move under the --save key and resumed on the
next start. Finished games are recorded in the score table. Logs go to stderr.

Tools:
  blast_state, blast_place, blast_undo, blast_hint, blast_new_game, blast_shapes

Examples:
  blast mcp
  blast mcp --save agent --db ./agent.db`,
	Args: cobra.NoArgs,
	Run:  runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&flagSaveID, "save", blast.IDClassic, "Save key and score table for the session")
	webCmd.Flags().StringVar(&flagSaveID, "save", blast.IDClassic, "Save key and score table for the session")
}

func runMCP(_ *cobra.Command, _ []string) {
	logger := newLogger("blast-mcp")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess, store, err := openSession(flagSaveID, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	go func() {
		if err := sess.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("session stopped", "err", err)
		}
	}()

	srv := mcp.NewServer(sess, mcp.Options{
		Version:   version,
		WeightCap: gameConfig.Dispenser.WeightCap,
	})

	logger.Info("MCP stdio server ready", "save", flagSaveID)
	serveErr := srv.ServeStdio()
	sess.Close()

	if serveErr != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "MCP stdio server error: %v\n", serveErr)
		os.Exit(1)
	}
}

// scoresOnly records finished games but never writes the board.
type scoresOnly struct {
	*storage.Store
}

func (scoresOnly) SaveGame(string, []byte) error { return nil }

// openSession opens the database and builds a session for id, resumed from
// its save unless saves are disabled. The caller runs the session and closes
// the store.
func openSession(id string, logger *log.Logger) (*session.Session, *storage.Store, error) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return nil, nil, err
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	opts := blast.Options(gameConfig)

	var (
		state *engine.State
		saver session.Saver
	)
	if gameConfig.Save.Enabled {
		state, err = session.LoadState(store, id, rng, opts)
		saver = store
	} else {
		state = engine.New(rng, opts)
		var best int
		if best, err = store.HighScore(id); err == nil {
			state.SeedBest(best)
		}
		saver = scoresOnly{store}
	}
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	sess := session.New(state, session.Options{
		GameID: id,
		Saver:  saver,
		Logger: logger,
	})
	return sess, store, nil
}
