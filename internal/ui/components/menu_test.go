package components

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
)

func TestMenu_WrapsAndRunsAction(t *testing.T) {
	ran := ""
	item := func(name string) MenuItem {
		return MenuItem{
			Label:  func() string { return name },
			Action: func() tea.Cmd { ran = name; return nil },
		}
	}
	m := NewMenu([]MenuItem{item("start"), item("mode"), item("quit")})

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	assert.Equal(t, 2, m.Selected)

	m, _ = m.Update(tea.KeyPressMsg{Code: 'j', Text: "j"})
	assert.Equal(t, 0, m.Selected)

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Equal(t, "mode", ran)
	assert.Equal(t, []string{"start", "mode", "quit"}, m.Labels())
}
