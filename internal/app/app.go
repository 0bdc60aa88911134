package app

import (
	"context"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathpop/internal/router"
	"github.com/abhisek/mathpop/internal/screen"
	"github.com/abhisek/mathpop/internal/screens/home"
	"github.com/abhisek/mathpop/internal/screens/quiz"
	"github.com/abhisek/mathpop/internal/session"
	"github.com/abhisek/mathpop/internal/ui/layout"
)

// Options holds the dependencies for the TUI.
type Options struct {
	Controller *session.Controller
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	driver *quiz.Driver
	width  int
	height int
}

func newAppModel(ctx context.Context, opts Options) AppModel {
	driver := quiz.NewDriver(ctx, opts.Controller)
	return AppModel{
		router: router.New(home.New(driver)),
		driver: driver,
	}
}

func (m AppModel) Init() tea.Cmd {
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if cmd, ok := m.driver.Handle(msg); ok {
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	return m, m.router.Update(msg)
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	var hud *layout.HUD
	if p, ok := active.(screen.HUDProvider); ok {
		h := p.HUD()
		hud = &h
	}
	header := layout.RenderHeader(active.Title(), hud, m.width)

	var hints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		hints = p.KeyHints()
	}
	footer := layout.RenderFooter(hints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(newAppModel(ctx, opts), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
