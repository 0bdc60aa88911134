// Package home is the title screen: start a game, pick a mode or quit.
package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathpop/internal/router"
	"github.com/abhisek/mathpop/internal/screen"
	"github.com/abhisek/mathpop/internal/screens/quiz"
	"github.com/abhisek/mathpop/internal/session"
	"github.com/abhisek/mathpop/internal/ui/components"
	"github.com/abhisek/mathpop/internal/ui/layout"
	"github.com/abhisek/mathpop/internal/ui/theme"
)

const titleFull = ` █▄ ▄█ ▄▀▄ ▀█▀ █ █ █▀█ █▀█ █▀█
 █ ▀ █ █▀█  █  █▀█ █▀▀ █▄█ █▀▀`

const titleCompact = "M · A · T · H · P · O · P"

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	driver *quiz.Driver
	menu   components.Menu
	notice string
}

var (
	_ screen.Screen          = (*HomeScreen)(nil)
	_ screen.KeyHintProvider = (*HomeScreen)(nil)
)

// New creates the home screen over the shared quiz driver.
func New(d *quiz.Driver) *HomeScreen {
	h := &HomeScreen{driver: d}
	h.menu = components.NewMenu([]components.MenuItem{
		{
			Label: func() string { return "START GAME" },
			Action: func() tea.Cmd {
				return func() tea.Msg { return router.PushScreenMsg{Screen: quiz.New(d)} }
			},
		},
		{
			Label:  func() string { return "MODE: " + strings.ToUpper(h.mode().String()) },
			Action: func() tea.Cmd { h.toggleMode(); return nil },
		},
		{
			Label:  func() string { return "QUIT" },
			Action: func() tea.Cmd { return tea.Quit },
		},
	})
	return h
}

func (h *HomeScreen) mode() session.Mode {
	return h.driver.Controller().State().Mode
}

// toggleMode flips the mode the next game starts in. Refusals are shown
// here rather than through the controller's timed notice, since no game
// is running to dismiss it.
func (h *HomeScreen) toggleMode() {
	c := h.driver.Controller()
	h.notice = ""
	if h.mode() == session.ModeStandard && !c.AdaptiveAvailable() {
		h.notice = session.NoticeNoAdaptiveMode
		return
	}
	c.ToggleMode()
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyPressMsg); ok && k.String() == "m" {
		h.toggleMode()
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := height < 18 || width < 70
	cw := components.ContentWidth(width)

	var sections []string
	if compact {
		sections = append(sections, theme.Title.Width(cw).Render(titleCompact))
	} else {
		sections = append(sections,
			theme.Title.Width(cw).Render(titleFull),
			components.Center(RenderMascot(h.mascot()), cw))
	}

	for i, label := range h.menu.Labels() {
		sections = append(sections, components.ArcadeButton(label, i == h.menu.Selected, cw-4))
	}
	if h.notice != "" {
		sections = append(sections, theme.Notice.Render(h.notice))
	}

	return components.CabinetFrame(lipgloss.JoinVertical(lipgloss.Center, sections...), width, height)
}

func (h *HomeScreen) mascot() MascotVariant {
	if h.driver.Controller().AdaptiveAvailable() {
		return MascotIdle
	}
	return MascotResting
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "M", Description: "Mode"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
