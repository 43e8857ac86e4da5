package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blast/internal/registry"
	"github.com/vovakirdan/tui-blast/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all game modes",
	Long:  `Shows the registered game modes with games played and best score.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	modes := registry.List()

	if len(modes) == 0 {
		fmt.Println("No modes available.")
		return
	}

	// Stats are optional; the list still prints without a database.
	stats := map[string]*storage.GameStats{}
	if store, err := storage.Open(flagDBPath); err == nil {
		if all, err := store.GetAllGamesStats(); err == nil {
			stats = all
		}
		store.Close()
	}

	fmt.Println("Available modes:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	maxTitleLen := 5
	for _, g := range modes {
		maxIDLen = max(maxIDLen, len(g.ID))
		maxTitleLen = max(maxTitleLen, len(g.Title))
	}

	fmt.Printf("  %-*s  %-*s  %5s  %6s\n", maxIDLen, "ID", maxTitleLen, "Title", "Games", "Best")
	fmt.Printf("  %-*s  %-*s  %5s  %6s\n", maxIDLen, "--", maxTitleLen, "-----", "-----", "----")

	for _, g := range modes {
		games, best := 0, 0
		if s, ok := stats[g.ID]; ok {
			games, best = s.GamesCount, s.HighScore
		}
		fmt.Printf("  %-*s  %-*s  %5d  %6d\n", maxIDLen, g.ID, maxTitleLen, g.Title, games, best)
	}

	fmt.Println()
	fmt.Println("Run 'blast play <id>' to play a mode.")
}
