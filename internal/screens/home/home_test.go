package home

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathpop/internal/expr"
	"github.com/abhisek/mathpop/internal/problemgen"
	"github.com/abhisek/mathpop/internal/router"
	"github.com/abhisek/mathpop/internal/screens/quiz"
	"github.com/abhisek/mathpop/internal/session"
)

type stubProducer struct{}

func (stubProducer) Produce(context.Context, problemgen.Input) (*problemgen.Problem, error) {
	tree := expr.MustParse("1 + 1")
	return &problemgen.Problem{QuestionString: "1 + 1", Tree: tree, Answer: 2, EstimatedTime: time.Minute}, nil
}

func newHome(adaptive problemgen.Producer) *HomeScreen {
	ctrl := session.New(session.DefaultConfig(), session.Deps{Adaptive: adaptive, Bank: stubProducer{}})
	return New(quiz.NewDriver(context.Background(), ctrl))
}

func TestHome_ToggleMode(t *testing.T) {
	h := newHome(stubProducer{})
	if h.mode() != session.ModeAdaptive {
		t.Fatalf("expected adaptive start, got %v", h.mode())
	}

	h.Update(tea.KeyPressMsg{Code: 'm', Text: "m"})
	if h.mode() != session.ModeStandard {
		t.Errorf("expected standard after toggle, got %v", h.mode())
	}
	if !strings.Contains(strings.Join(h.menu.Labels(), " "), "MODE: STANDARD") {
		t.Errorf("menu label not updated: %v", h.menu.Labels())
	}
}

func TestHome_ToggleWithoutAdaptive(t *testing.T) {
	h := newHome(nil)
	h.Update(tea.KeyPressMsg{Code: 'm', Text: "m"})

	if h.mode() != session.ModeStandard {
		t.Errorf("mode = %v, want standard", h.mode())
	}
	if h.notice != session.NoticeNoAdaptiveMode {
		t.Errorf("notice = %q", h.notice)
	}
	if h.mascot() != MascotResting {
		t.Error("expected the resting mascot without a generative source")
	}
}

func TestHome_StartPushesQuiz(t *testing.T) {
	h := newHome(nil)
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command from START GAME")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if push.Screen.Title() != "Quiz" {
		t.Errorf("pushed %q", push.Screen.Title())
	}
}

func TestHome_View(t *testing.T) {
	h := newHome(nil)
	view := h.View(80, 24)
	for _, want := range []string{"START GAME", "MODE: STANDARD", "QUIT"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
