package tui

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-blast/internal/core"
)

func TestPaletteRendersText(t *testing.T) {
	s := core.NewScreen(12, 3)
	s.DrawText(0, 0, "Score: 7")
	s.DrawTextColor(2, 1, "##", core.ColorBrightCyan)
	s.DrawTextColor(4, 1, "..", core.ColorDim)
	s.SetCell(11, 2, '#', core.Color(200)) // outside the palette

	// A renderer without a terminal emits no escape sequences.
	p := NewPalette(lipgloss.NewRenderer(io.Discard))
	if got, want := p.Render(s), s.String(); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestTickInterval(t *testing.T) {
	tests := []struct {
		rate int
		want time.Duration
	}{
		{30, time.Second / 30},
		{60, time.Second / 60},
		{0, time.Second / time.Duration(core.DefaultConfig().TickRate)},
		{-5, time.Second / time.Duration(core.DefaultConfig().TickRate)},
	}
	for _, tt := range tests {
		if got := tickInterval(tt.rate); got != tt.want {
			t.Errorf("tickInterval(%d) = %v, want %v", tt.rate, got, tt.want)
		}
	}
}
