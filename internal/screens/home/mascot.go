package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathpop/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle    MascotVariant = iota // Ready to play
	MascotResting                      // The generative source is unavailable
)

const mascotIdle = `┌─────┐
│ ◉ ◉ │
│  ▽  │
│ ±×÷ │
└─────┘`

const mascotResting = `┌─────┐ z
│ − − │z
│  ▽  │
│ ±×÷ │
└─────┘`

// RenderMascot returns the mascot art for the given variant.
func RenderMascot(v MascotVariant) string {
	if v == MascotResting {
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render(mascotResting)
	}
	return lipgloss.NewStyle().Foreground(theme.Primary).Render(mascotIdle)
}
