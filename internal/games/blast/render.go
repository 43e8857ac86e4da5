package blast

import (
	"fmt"

	"github.com/vovakirdan/tui-blast/internal/core"
	"github.com/vovakirdan/tui-blast/internal/games/blast/engine"
)

const (
	cellWidth = 2 // board cells are two characters wide to look square
	hudHeight = 3
	slotWidth = 5*cellWidth + 2 // widest shape plus border
	slotH     = 5 + 2
	slotGap   = 1

	boardW = engine.BoardSize*cellWidth + 2
	boardH = engine.BoardSize + 2
	trayW  = engine.TraySize*slotWidth + (engine.TraySize-1)*slotGap

	minWidth  = trayW + 2
	minHeight = hudHeight + boardH + slotH + 1
)

const (
	runeFilled = '█'
	runeEmpty  = '·'
	runeGhost  = '▒'
)

// shapeColors gives each catalog shape a stable tray color.
var shapeColors = []core.Color{
	core.ColorBrightCyan,
	core.ColorBrightGreen,
	core.ColorBrightMagenta,
	core.ColorBrightBlue,
	core.ColorOrange,
	core.ColorBrightRed,
}

// ShapeColor returns the display color of a shape.
func ShapeColor(id engine.ShapeID) core.Color {
	if !id.Valid() {
		return core.ColorGray
	}
	return shapeColors[int(id)%len(shapeColors)]
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	boardX := (g.screenW - boardW) / 2
	boardY := hudHeight

	g.renderHUD(dst, boardX)
	g.renderBoard(dst, boardX, boardY)
	g.renderTray(dst, (g.screenW-trayW)/2, boardY+boardH)
	dst.DrawTextCentered(boardY+boardH+slotH, g.Controls(), core.ColorGray)

	g.renderOverlays(dst, boardX+boardW/2, boardY+boardH/2)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small", core.ColorYellow)
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need %dx%d", minWidth, minHeight), core.ColorGray)
}

// renderHUD draws title, score, best and the last message.
func (g *Game) renderHUD(dst *core.Screen, boardX int) {
	dst.DrawTextCentered(0, g.Title(), core.ColorBrightYellow)

	dst.DrawTextColor(boardX, 1, fmt.Sprintf("Score: %d", g.state.Score()), core.ColorWhite)
	best := fmt.Sprintf("Best: %d", g.state.Best())
	dst.DrawTextColor(boardX+boardW-len(best), 1, best, core.ColorWhite)

	if g.message != "" {
		dst.DrawTextCentered(2, g.message, core.ColorBrightGreen)
	}
}

// renderBoard draws the grid, placed blocks, the ghost preview and the hint.
func (g *Game) renderBoard(dst *core.Screen, x0, y0 int) {
	dst.DrawBox(core.NewRect(x0, y0, boardW, boardH), core.ColorGray)

	board := g.state.Board()
	for r := range engine.BoardSize {
		for c := range engine.BoardSize {
			if board[r][c] != 0 {
				g.drawCell(dst, x0, y0, r, c, runeFilled, core.ColorCyan)
			} else {
				g.drawCell(dst, x0, y0, r, c, runeEmpty, core.ColorDim)
			}
		}
	}

	if g.hintVisible() {
		hint := engine.MustShape(g.hint.Shape)
		for _, p := range hint.Cells() {
			g.drawCell(dst, x0, y0, g.hint.Row+p.Y, g.hint.Col+p.X, runeFilled, core.ColorYellow)
		}
	}

	if g.state.IsGameOver() {
		return
	}

	shape := g.selectedShape()
	color := core.ColorRed
	if g.state.CanPlace(shape.ID, g.cursorRow, g.cursorCol) {
		color = core.ColorGreen
	}
	for _, p := range shape.Cells() {
		g.drawCell(dst, x0, y0, g.cursorRow+p.Y, g.cursorCol+p.X, runeGhost, color)
	}
}

// drawCell paints one board cell, two characters wide.
func (g *Game) drawCell(dst *core.Screen, x0, y0, row, col int, r rune, c core.Color) {
	if !engine.InBounds(row, col) {
		return
	}
	x := x0 + 1 + col*cellWidth
	y := y0 + 1 + row
	if r == runeEmpty {
		dst.SetCell(x, y, r, c)
		dst.SetCell(x+1, y, ' ', c)
		return
	}
	dst.SetCell(x, y, r, c)
	dst.SetCell(x+1, y, r, c)
}

// renderTray draws the three offered pieces, marking the selected one.
func (g *Game) renderTray(dst *core.Screen, x0, y0 int) {
	tray := g.state.Tray()
	for i := range engine.TraySize {
		x := x0 + i*(slotWidth+slotGap)

		frame := core.ColorGray
		if i == g.slot && !tray.Used[i] {
			frame = core.ColorBrightYellow
		}
		dst.DrawBox(core.NewRect(x, y0, slotWidth, slotH), frame)
		dst.DrawTextColor(x+1, y0, fmt.Sprintf("%d", i+1), frame)

		if tray.Used[i] {
			continue
		}

		shape, ok := engine.ShapeByID(tray.Slots[i])
		if !ok {
			continue
		}
		// Center the piece in its box.
		px := x + 1 + (slotWidth-2-shape.Width()*cellWidth)/2
		py := y0 + 1 + (slotH-2-shape.Height())/2
		color := ShapeColor(shape.ID)
		for _, p := range shape.Cells() {
			dst.SetCell(px+p.X*cellWidth, py+p.Y, runeFilled, color)
			dst.SetCell(px+p.X*cellWidth+1, py+p.Y, runeFilled, color)
		}
	}
}

// renderOverlays draws pause and game over boxes.
func (g *Game) renderOverlays(dst *core.Screen, centerX, centerY int) {
	if g.paused {
		g.drawOverlay(dst, centerX, centerY, "PAUSED", "Press P to resume")
		return
	}

	if g.state.IsGameOver() {
		score := fmt.Sprintf("Score: %d", g.state.Score())
		g.drawOverlay(dst, centerX, centerY, "GAME OVER", score, "N: new game  U: undo")
	}
}

// drawOverlay draws a centered text box.
func (g *Game) drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len(line))
	}

	box := core.NewRect(centerX-(maxLen+4)/2, centerY-(len(lines)+2)/2, maxLen+4, len(lines)+2)
	dst.FillRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, core.ColorBrightWhite)

	for i, line := range lines {
		dst.DrawTextColor(centerX-len(line)/2, box.Y+1+i, line, core.ColorBrightWhite)
	}
}
