package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blast/internal/transport/mcp"
)

var shapesCmd = &cobra.Command{
	Use:   "shapes",
	Short: "Print the piece catalog",
	Long: `Print every piece shape with its ID, size and the chance of drawing it,
using the dispenser weight cap from the game config.

Examples:
  blast shapes
  blast shapes --config ./my-blast.yaml`,
	Args: cobra.NoArgs,
	Run:  runShapes,
}

func runShapes(_ *cobra.Command, _ []string) {
	fmt.Printf("Piece catalog (weight cap %d)\n\n", gameConfig.Dispenser.WeightCap)
	fmt.Println(mcp.FormatCatalog(gameConfig.Dispenser.WeightCap))
}
