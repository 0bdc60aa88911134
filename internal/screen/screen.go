package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathpop/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is pushed.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// HUDProvider is implemented by screens that show game status in the
// header.
type HUDProvider interface {
	HUD() layout.HUD
}

// Leaver is implemented by screens that need to know when they are
// popped off the stack.
type Leaver interface {
	Leave() tea.Cmd
}
