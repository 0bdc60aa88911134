// Package quiz is the playing screen: it feeds keys to the session
// controller and renders its state.
package quiz

import (
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathpop/internal/screen"
	"github.com/abhisek/mathpop/internal/session"
	"github.com/abhisek/mathpop/internal/ui/layout"
)

// QuizScreen implements screen.Screen for a running game.
type QuizScreen struct {
	driver *Driver
}

var (
	_ screen.Screen          = (*QuizScreen)(nil)
	_ screen.KeyHintProvider = (*QuizScreen)(nil)
	_ screen.HUDProvider     = (*QuizScreen)(nil)
	_ screen.Leaver          = (*QuizScreen)(nil)
)

func New(d *Driver) *QuizScreen {
	return &QuizScreen{driver: d}
}

// Init starts a new game.
func (s *QuizScreen) Init() tea.Cmd {
	s.driver.SetActive(true)
	return s.driver.Run(s.driver.Controller().StartGame())
}

func (s *QuizScreen) Leave() tea.Cmd {
	s.driver.SetActive(false)
	return nil
}

func (s *QuizScreen) Title() string {
	return "Quiz"
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	return s, s.driver.Run(s.handleKey(kmsg))
}

func (s *QuizScreen) handleKey(msg tea.KeyPressMsg) []session.Effect {
	c := s.driver.Controller()
	switch {
	case key.Matches(msg, keys.Mode):
		return c.ToggleMode()
	case key.Matches(msg, keys.Submit):
		if c.State().Phase == session.PhaseStart {
			return c.StartGame()
		}
		return c.Submit()
	case key.Matches(msg, keys.Skip):
		return c.Skip()
	case key.Matches(msg, keys.Harder):
		return c.IncreaseDifficulty()
	case key.Matches(msg, keys.Backspace):
		return c.Input(session.KeyBackspace)
	case key.Matches(msg, keys.Decimal):
		return c.Input(session.KeyDecimal)
	case key.Matches(msg, keys.Sign):
		return c.Input(session.KeySign)
	case key.Matches(msg, keys.Digit):
		return c.Input(session.Key(msg.String()[0]))
	}
	return nil
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	st := s.driver.Controller().State()
	hint := func(b key.Binding) layout.KeyHint {
		h := b.Help()
		return layout.KeyHint{Key: h.Key, Description: h.Desc}
	}
	switch st.Phase {
	case session.PhaseStart:
		return []layout.KeyHint{{Key: "Enter", Description: "start"}, hint(keys.Mode), hint(keys.Home)}
	case session.PhasePlaying:
		return []layout.KeyHint{
			hint(keys.Digit), hint(keys.Decimal), hint(keys.Sign), hint(keys.Backspace),
			hint(keys.Submit), hint(keys.Skip), hint(keys.Harder), hint(keys.Mode), hint(keys.Home),
		}
	}
	return []layout.KeyHint{hint(keys.Mode), hint(keys.Home)}
}

func (s *QuizScreen) HUD() layout.HUD {
	st := s.driver.Controller().State()
	return layout.HUD{
		Score:  st.Score,
		Level:  st.Level,
		Streak: st.CorrectStreak,
		Mode:   st.Mode.String(),
	}
}
