package mcp

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-blast/internal/games/blast/engine"
)

// FormatView renders a view as plain text for agents.
func FormatView(v engine.View) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Score: %d  Best: %d  Undo depth: %d\n\n", v.Score, v.Best, v.UndoDepth)
	b.WriteString(v.Board.String())
	b.WriteString("\n\nTray:\n")

	for slot, id := range v.Tray {
		if v.Used[slot] {
			fmt.Fprintf(&b, "  [%d] (placed)\n", slot)
			continue
		}
		shape, ok := engine.ShapeByID(id)
		if !ok {
			fmt.Fprintf(&b, "  [%d] unknown shape %d\n", slot, id)
			continue
		}
		fmt.Fprintf(&b, "  [%d] %s, %dx%d\n", slot, shape.Name, shape.Width(), shape.Height())
		for _, row := range shape.Art() {
			b.WriteString("      ")
			b.WriteString(row)
			b.WriteByte('\n')
		}
	}

	if v.GameOver {
		b.WriteString("\nGAME OVER: no remaining piece fits.\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatPlacement summarizes what a placement did.
func FormatPlacement(res engine.PlaceResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Placed %s at row %d, col %d: +%d", res.Shape, res.Row, res.Col, res.Gained)
	if lines := res.Lines(); lines > 0 {
		fmt.Fprintf(&b, " (%d cells, %d bonus; cleared rows %v cols %v)", res.Base, res.Bonus, res.Rows, res.Cols)
	}
	b.WriteByte('.')
	if res.Refilled {
		b.WriteString(" Tray refilled.")
	}
	if res.GameOver {
		b.WriteString(" Game over.")
	}
	return b.String()
}

// FormatCatalog lists every shape with its draw probability for weightCap.
func FormatCatalog(weightCap int) string {
	shapes := engine.Shapes()

	total := 0
	for _, s := range shapes {
		total += engine.Weight(s, weightCap)
	}

	var b strings.Builder
	for _, s := range shapes {
		w := engine.Weight(s, weightCap)
		fmt.Fprintf(&b, "%2d %-11s %d cells  weight %d  p=%.3f\n",
			s.ID, s.Name, s.Size(), w, float64(w)/float64(total))
		for _, row := range s.Art() {
			b.WriteString("     ")
			b.WriteString(row)
			b.WriteByte('\n')
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
