package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-blast/internal/core"
)

// ansiCodes are the 256-color codes for each core.Color. ColorDefault keeps the
// terminal's own foreground.
var ansiCodes = [...]string{
	core.ColorRed:           "1",
	core.ColorGreen:         "2",
	core.ColorYellow:        "3",
	core.ColorBlue:          "4",
	core.ColorMagenta:       "5",
	core.ColorCyan:          "6",
	core.ColorWhite:         "7",
	core.ColorBrightRed:     "9",
	core.ColorBrightGreen:   "10",
	core.ColorBrightYellow:  "11",
	core.ColorBrightBlue:    "12",
	core.ColorBrightMagenta: "13",
	core.ColorBrightCyan:    "14",
	core.ColorBrightWhite:   "15",
	core.ColorOrange:        "208",
	core.ColorGray:          "245",
	core.ColorDim:           "238",
}

// Palette turns screen colors into styles for one lipgloss renderer. SSH
// sessions get their own so color support follows the client's terminal.
type Palette struct {
	styles [len(ansiCodes)]lipgloss.Style
}

// NewPalette builds the styles for r.
func NewPalette(r *lipgloss.Renderer) *Palette {
	p := &Palette{}
	for c, code := range ansiCodes {
		p.styles[c] = r.NewStyle()
		if code != "" {
			p.styles[c] = p.styles[c].Foreground(lipgloss.Color(code))
		}
	}
	return p
}

func (p *Palette) style(c core.Color) lipgloss.Style {
	if int(c) >= len(p.styles) {
		return p.styles[core.ColorDefault]
	}
	return p.styles[c]
}

// Render draws s as text, one escape sequence per run of same-colored cells.
func (p *Palette) Render(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y := range s.Height() {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < s.Width(); {
			color := s.GetCell(x, y).Color
			run.Reset()
			for ; x < s.Width(); x++ {
				cell := s.GetCell(x, y)
				if cell.Color != color {
					break
				}
				run.WriteRune(cell.Rune)
			}
			sb.WriteString(p.style(color).Render(run.String()))
		}
	}
	return sb.String()
}

var defaultPalette = sync.OnceValue(func() *Palette {
	return NewPalette(lipgloss.DefaultRenderer())
})

// RenderScreen renders s for the local terminal.
func RenderScreen(s *core.Screen) string {
	return defaultPalette().Render(s)
}
