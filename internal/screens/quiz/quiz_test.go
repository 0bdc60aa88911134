package quiz

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathpop/internal/expr"
	"github.com/abhisek/mathpop/internal/flags"
	"github.com/abhisek/mathpop/internal/problemgen"
	"github.com/abhisek/mathpop/internal/session"
)

type fixedProducer struct{ question string }

func (f fixedProducer) Produce(_ context.Context, in problemgen.Input) (*problemgen.Problem, error) {
	tree := expr.MustParse(f.question)
	return &problemgen.Problem{
		QuestionString: f.question,
		Tree:           tree,
		Answer:         expr.Answer(tree),
		EstimatedTime:  time.Minute,
		Adjustment:     problemgen.AdjustmentInitial,
		Source:         problemgen.SourceBank,
		Level:          in.Level,
	}, nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// collect runs cmd and flattens batches, without running the commands
// that the delivered messages produce in turn.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// deliver hands acquisition and notice-claim results back to the driver.
// Timer messages are dropped so tests control time explicitly.
func deliver(d *Driver, cmd tea.Cmd) {
	for _, msg := range collect(cmd) {
		switch msg.(type) {
		case AcquiredMsg, NoticeClaimedMsg:
			d.Handle(msg)
		}
	}
}

func newTestScreen(t *testing.T) (*QuizScreen, *Driver) {
	t.Helper()
	cfg := session.DefaultConfig()
	cfg.Mode = session.ModeStandard
	cfg.TickInterval = time.Millisecond
	cfg.NoticeDuration = time.Millisecond
	cfg.ShakeDuration = time.Millisecond
	cfg.CorrectDelay = time.Millisecond
	cfg.IncorrectDelay = time.Millisecond

	ctrl := session.New(cfg, session.Deps{
		Bank:  fixedProducer{question: "3 + 4"},
		Flags: flags.NewMemory(),
	})
	d := NewDriver(context.Background(), ctrl)
	s := New(d)
	deliver(d, s.Init())
	if got := ctrl.State().Phase; got != session.PhasePlaying {
		t.Fatalf("expected playing after Init, got %v", got)
	}
	return s, d
}

func press(s *QuizScreen, msgs ...tea.KeyPressMsg) tea.Cmd {
	var cmds []tea.Cmd
	for _, m := range msgs {
		_, cmd := s.Update(m)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func TestQuiz_CorrectAnswer(t *testing.T) {
	s, d := newTestScreen(t)

	press(s, keyPress('7'), specialKey(tea.KeyEnter))

	st := d.Controller().State()
	if st.Phase != session.PhaseFeedback || st.Feedback != session.FeedbackCorrect {
		t.Fatalf("expected correct feedback, got %v/%v", st.Phase, st.Feedback)
	}
	if st.Score <= 0 {
		t.Errorf("expected a positive score, got %d", st.Score)
	}
	if hud := s.HUD(); hud.Score != st.Score || hud.Streak != 1 {
		t.Errorf("HUD out of sync: %+v", hud)
	}
	if view := s.View(80, 24); !strings.Contains(view, "Correct!") {
		t.Errorf("feedback not rendered:\n%s", view)
	}
}

func TestQuiz_AnswerEditing(t *testing.T) {
	s, d := newTestScreen(t)

	press(s, keyPress('-'), keyPress('1'), keyPress('.'), keyPress('5'))
	if got := d.Controller().State().Answer; got != "-1.5" {
		t.Fatalf("answer = %q, want -1.5", got)
	}

	cmd := press(s, specialKey(tea.KeyBackspace))
	st := d.Controller().State()
	if st.Answer != "-1." || !st.Shaking || !st.MadeMistake {
		t.Fatalf("backspace: answer=%q shaking=%v mistake=%v", st.Answer, st.Shaking, st.MadeMistake)
	}
	if cmd == nil {
		t.Fatal("expected the shake timer to be scheduled")
	}

	// The shake timer ends the shake.
	for _, msg := range collect(cmd) {
		d.Handle(msg)
	}
	if d.Controller().State().Shaking {
		t.Error("expected shake to end when its timer fires")
	}
}

func TestQuiz_SkipShowsAnswer(t *testing.T) {
	s, d := newTestScreen(t)

	press(s, keyPress('s'))
	st := d.Controller().State()
	if st.Feedback != session.FeedbackIncorrect {
		t.Fatalf("expected incorrect feedback, got %v", st.Feedback)
	}
	if view := s.View(80, 24); !strings.Contains(view, "The answer was 7") {
		t.Errorf("correct answer not shown:\n%s", view)
	}
}

func TestQuiz_Harder(t *testing.T) {
	s, d := newTestScreen(t)

	deliver(d, press(s, keyPress('+')))
	st := d.Controller().State()
	if st.Level != 2 || st.Phase != session.PhasePlaying {
		t.Fatalf("expected level 2 playing, got level %d %v", st.Level, st.Phase)
	}
}

func TestQuiz_ModeWithoutAdaptive(t *testing.T) {
	s, d := newTestScreen(t)

	press(s, keyPress('m'))
	st := d.Controller().State()
	if st.Notice != session.NoticeNoAdaptiveMode {
		t.Errorf("notice = %q", st.Notice)
	}
	if st.Mode != session.ModeStandard {
		t.Errorf("mode changed to %v", st.Mode)
	}
}

func TestQuiz_InactiveDropsTimers(t *testing.T) {
	s, d := newTestScreen(t)

	cmd := press(s, keyPress('7'), specialKey(tea.KeyEnter))
	s.Leave()
	for _, msg := range collect(cmd) {
		next, handled := d.Handle(msg)
		if !handled {
			t.Fatalf("driver did not claim %T", msg)
		}
		if next != nil {
			t.Errorf("inactive driver produced a command for %T", msg)
		}
	}
	if got := d.Controller().State().Phase; got != session.PhaseFeedback {
		t.Errorf("phase = %v, want feedback to stay frozen", got)
	}
}

func TestQuiz_KeyHints(t *testing.T) {
	s, _ := newTestScreen(t)

	var keys []string
	for _, h := range s.KeyHints() {
		keys = append(keys, h.Key)
	}
	joined := strings.Join(keys, " ")
	for _, want := range []string{"0-9", "Enter", "S", "+", "Esc"} {
		if !strings.Contains(joined, want) {
			t.Errorf("hints %q missing %q", joined, want)
		}
	}
}

func TestDriver_IgnoresOtherMessages(t *testing.T) {
	_, d := newTestScreen(t)
	if _, ok := d.Handle(tea.WindowSizeMsg{Width: 80, Height: 24}); ok {
		t.Error("driver should not claim window size messages")
	}
}

func TestDriver_DeliversNoticeClaim(t *testing.T) {
	cfg := session.DefaultConfig()
	cfg.Mode = session.ModeStandard
	cfg.StartLevel = 6
	cfg.NoticeDuration = time.Millisecond

	nf := flags.NewMemory()
	ctrl := session.New(cfg, session.Deps{
		Bank:  fixedProducer{question: "{1/4}"},
		Flags: nf,
	})
	d := NewDriver(context.Background(), ctrl)
	s := New(d)
	deliver(d, s.Init())

	st := ctrl.State()
	if st.Phase != session.PhasePlaying {
		t.Fatalf("expected playing, got %v", st.Phase)
	}
	if st.Notice != session.NoticeDecimals {
		t.Errorf("notice = %q, want the decimal notice", st.Notice)
	}
	shown, err := nf.DecimalNoticeShown(context.Background())
	if err != nil || !shown {
		t.Errorf("flag not recorded: shown=%v err=%v", shown, err)
	}
}
