package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathpop/internal/screen"
)

// stubScreen is a minimal screen for testing.
type stubScreen struct {
	title   string
	initRan bool
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }

func TestPush(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "second" {
		t.Errorf("expected active 'second', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run on pushed screen")
	}
}

func TestPop(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)
	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", r.Depth())
	}
	if r.Active().Title() != "first" {
		t.Errorf("expected active 'first', got %q", r.Active().Title())
	}
}

func TestPopNoopAtBottom(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after pop at bottom, got %d", r.Depth())
	}
}

type leavingScreen struct {
	stubScreen
	left int
}

type leftMsg struct{}

func (s *leavingScreen) Leave() tea.Cmd {
	s.left++
	return func() tea.Msg { return leftMsg{} }
}

func TestPopCallsLeave(t *testing.T) {
	r := New(&stubScreen{title: "home"})
	quiz := &leavingScreen{stubScreen: stubScreen{title: "quiz"}}
	r.Push(quiz)

	cmd := r.Update(PopScreenMsg{})
	if quiz.left != 1 {
		t.Fatalf("expected Leave to run once, ran %d times", quiz.left)
	}
	if cmd == nil {
		t.Fatal("expected Leave's command to be returned")
	}
	if _, ok := cmd().(leftMsg); !ok {
		t.Errorf("unexpected command message %T", cmd())
	}
	if r.Active().Title() != "home" {
		t.Errorf("expected active 'home', got %q", r.Active().Title())
	}
}

func TestUpdateForwardsToActive(t *testing.T) {
	r := New(&stubScreen{title: "home"})
	if cmd := r.Update(tea.KeyPressMsg{Code: 'x', Text: "x"}); cmd != nil {
		t.Error("stub screen should return no command")
	}
	if got := r.View(10, 10); got != "home" {
		t.Errorf("View = %q, want %q", got, "home")
	}
}
