package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blast/internal/games/blast"
	"github.com/vovakirdan/tui-blast/internal/storage"
)

var resetCmd = &cobra.Command{
	Use:   "reset [save]",
	Short: "Discard a saved board",
	Long: `Delete the saved board so the next game starts fresh. Scores are kept.

The save key is the mode ID (blast), blast_daily:YYYY-MM-DD for daily
games, <user>/<key> for SSH players, or the --save key of mcp and web.

Examples:
  blast reset
  blast reset agent
  blast reset alice/blast`,
	Args: cobra.MaximumNArgs(1),
	Run:  runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(_ *cobra.Command, args []string) {
	id := blast.IDClassic
	if len(args) > 0 {
		id = args[0]
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.DeleteGame(id); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	fmt.Printf("Discarded save %q.\n", id)
}
