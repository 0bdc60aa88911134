package session

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"time"

	"github.com/abhisek/mathpop/internal/problemgen"
)

// maxRolls bounds how many exhausted levels one acquisition may skip
// through before giving up.
const maxRolls = 11

// flagTimeout bounds the NoticeFlags calls of one ClaimNotice.
const flagTimeout = 500 * time.Millisecond

// Deps are the controller's collaborators.
type Deps struct {
	// Adaptive is the generative producer. Nil disables adaptive mode.
	Adaptive problemgen.Producer

	// Bank is the static producer. Required.
	Bank problemgen.Producer

	// Flags persists one-time notices. Nil shows them once per
	// controller.
	Flags NoticeFlags

	Logger *slog.Logger

	// Now is the clock. Nil uses time.Now.
	Now func() time.Time
}

// Controller is the session state machine. It is not safe for concurrent
// use: a single goroutine (the UI update loop or a connection's event
// loop) owns it and runs the effects it returns.
type Controller struct {
	cfg      Config
	adaptive problemgen.Producer
	bank     problemgen.Producer
	flags    NoticeFlags
	logger   *slog.Logger
	now      func() time.Time

	st State

	timers [numTimers]uint64

	// pending is the outstanding acquisition token, zero when none.
	pending       uint64
	lastToken     uint64
	pendingSource problemgen.Source

	started time.Time
	rolls   int

	// decimalSeen is set once the decimal notice has been shown or the
	// flags report it as seen. decimalQueued holds a claimed notice that
	// arrived while another one was up.
	decimalSeen   bool
	decimalQueued bool
	claim         uint64
}

// New creates a controller in PhaseStart.
func New(cfg Config, deps Deps) *Controller {
	if deps.Bank == nil {
		panic("session: bank producer is required")
	}
	cfg = cfg.normalize()
	c := &Controller{
		cfg:      cfg,
		adaptive: deps.Adaptive,
		bank:     deps.Bank,
		flags:    deps.Flags,
		logger:   deps.Logger,
		now:      deps.Now,
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.now == nil {
		c.now = time.Now
	}
	c.st = State{Phase: PhaseStart, Mode: cfg.Mode, Level: cfg.StartLevel}
	if c.adaptive == nil {
		c.st.Mode = ModeStandard
	}
	return c
}

// State returns a copy of the session for rendering.
func (c *Controller) State() State {
	s := c.st
	s.History = slices.Clone(c.st.History)
	return s
}

// AdaptiveAvailable reports whether adaptive mode can be selected.
func (c *Controller) AdaptiveAvailable() bool {
	return c.adaptive != nil && !c.st.GenerativeUnavailable
}

// Acquiring reports whether an acquisition is outstanding.
func (c *Controller) Acquiring() bool {
	return c.pending != 0
}

// StartGame begins a new game. Mode and the generative-unavailable flag
// carry over. It is ignored while an acquisition is outstanding.
func (c *Controller) StartGame() []Effect {
	if c.pending != 0 {
		return nil
	}
	for k := range c.timers {
		c.timers[k]++
	}
	c.st = State{
		Phase:                 PhaseStart,
		Mode:                  c.st.Mode,
		Level:                 c.cfg.StartLevel,
		GenerativeUnavailable: c.st.GenerativeUnavailable,
	}
	c.rolls = 0
	c.logger.Info("game started", "mode", c.st.Mode, "level", c.st.Level)
	return c.acquire()
}

// acquire enters PhaseLoading and requests the next problem. While an
// acquisition is outstanding it does nothing.
func (c *Controller) acquire() []Effect {
	if c.pending != 0 {
		return nil
	}
	c.st.Phase = PhaseLoading
	c.st.Answer = ""
	c.st.MadeMistake = false
	c.st.Shaking = false
	c.st.Feedback = FeedbackNone
	c.timers[TimerTick]++
	c.timers[TimerShake]++
	c.timers[TimerAdvance]++

	var effects []Effect
	prod, src := c.bank, problemgen.SourceBank
	if c.st.Mode == ModeAdaptive && c.AdaptiveAvailable() {
		prod, src = c.adaptive, problemgen.SourceGenerative
	}
	if c.st.Mode == ModeStandard && c.st.Level >= c.cfg.DecimalNoticeLevel {
		effects = append(effects, c.decimalNotice()...)
	}

	c.lastToken++
	c.pending = c.lastToken
	c.pendingSource = src
	in := problemgen.Input{Level: c.st.Level, History: slices.Clone(c.st.History)}
	return append(effects, Acquire{
		Token:  c.pending,
		Source: src,
		Run: func(ctx context.Context) (*problemgen.Problem, error) {
			return prod.Produce(ctx, in)
		},
	})
}

// decimalNotice shows the rounding disclaimer the first time standard
// mode reaches a decimal level. It waits while another notice is up. With
// flags it first emits a ClaimNotice and shows the notice when the claim
// comes back.
func (c *Controller) decimalNotice() []Effect {
	if c.st.Notice != "" {
		return nil
	}
	if c.decimalSeen {
		if c.decimalQueued {
			c.decimalQueued = false
			return c.notify(NoticeDecimals)
		}
		return nil
	}
	if c.flags == nil {
		c.decimalSeen = true
		return c.notify(NoticeDecimals)
	}
	if c.claim != 0 {
		return nil
	}

	c.lastToken++
	c.claim = c.lastToken
	flags := c.flags
	return []Effect{ClaimNotice{
		Token: c.claim,
		Run: func(ctx context.Context) (bool, error) {
			ctx, cancel := context.WithTimeout(ctx, flagTimeout)
			defer cancel()
			shown, err := flags.DecimalNoticeShown(ctx)
			if err != nil || shown {
				return false, err
			}
			return true, flags.MarkDecimalNoticeShown(ctx)
		},
	}}
}

// NoticeClaimed delivers the result of the ClaimNotice effect with the
// given token. A failed read skips the notice until the next decimal
// level acquisition.
func (c *Controller) NoticeClaimed(token uint64, show bool, err error) []Effect {
	if token == 0 || token != c.claim {
		return nil
	}
	c.claim = 0
	if err != nil {
		c.logger.Warn("notice flag", "error", err)
	}
	if !show {
		if err == nil {
			c.decimalSeen = true
		}
		return nil
	}
	c.decimalSeen = true
	if c.st.Notice != "" {
		c.decimalQueued = true
		return nil
	}
	return c.notify(NoticeDecimals)
}

// Acquired delivers the result of the Acquire effect with the given
// token. Results for any other token are ignored.
func (c *Controller) Acquired(token uint64, p *problemgen.Problem, err error) []Effect {
	if token == 0 || token != c.pending {
		c.logger.Debug("stale acquisition ignored", "token", token)
		return nil
	}
	c.pending = 0
	src := c.pendingSource

	if err == nil && p == nil {
		err = errors.New("producer returned no problem")
	}
	if err == nil {
		c.rolls = 0
		c.st.Problem = p
		c.st.Phase = PhasePlaying
		c.st.Elapsed = 0
		c.started = c.now()
		c.logger.Debug("problem ready", "source", p.Source, "level", p.Level, "question", p.QuestionString)
		return []Effect{c.arm(TimerTick, c.cfg.TickInterval)}
	}

	if src == problemgen.SourceGenerative {
		c.logger.Warn("generative source failed, switching to standard mode", "error", err)
		c.st.GenerativeUnavailable = true
		c.st.Mode = ModeStandard
		effects := c.notify(NoticeFallback)
		return append(effects, c.acquire()...)
	}

	if errors.Is(err, problemgen.ErrLevelExhausted) && c.rolls < maxRolls {
		c.rolls++
		if c.st.Level < MaxLevel {
			c.st.Level++
		} else {
			c.st.Level = c.cfg.WrapLevel
			if r, ok := c.bank.(problemgen.Recycler); ok {
				r.Recycle()
			}
		}
		c.logger.Info("level exhausted, moving on", "level", c.st.Level, "roll", c.rolls)
		return c.acquire()
	}

	c.logger.Error("could not load a problem", "error", err, "level", c.st.Level)
	c.rolls = 0
	c.st.Phase = PhaseStart
	return c.notify(NoticeLoadFailed)
}

// Fire delivers a Schedule effect.
func (c *Controller) Fire(kind TimerKind, token uint64) []Effect {
	switch kind {
	case TimerTick:
		return c.Tick(token)
	case TimerAdvance:
		return c.AdvanceDue(token)
	case TimerNotice:
		return c.NoticeExpired(token)
	case TimerShake:
		return c.ShakeExpired(token)
	}
	return nil
}

// Tick refreshes the elapsed time and submits a timeout once the
// problem's budget is spent.
func (c *Controller) Tick(token uint64) []Effect {
	if token != c.timers[TimerTick] || c.st.Phase != PhasePlaying {
		return nil
	}
	c.st.Elapsed = c.now().Sub(c.started)
	if c.st.Elapsed >= c.st.Problem.EstimatedTime {
		return c.submit(true)
	}
	return []Effect{c.arm(TimerTick, c.cfg.TickInterval)}
}

// AdvanceDue moves from feedback to the next problem.
func (c *Controller) AdvanceDue(token uint64) []Effect {
	if token != c.timers[TimerAdvance] || c.st.Phase != PhaseFeedback {
		return nil
	}
	return c.acquire()
}

// NoticeExpired dismisses the notice banner.
func (c *Controller) NoticeExpired(token uint64) []Effect {
	if token == c.timers[TimerNotice] {
		c.st.Notice = ""
	}
	return nil
}

// ShakeExpired stops the answer field shake.
func (c *Controller) ShakeExpired(token uint64) []Effect {
	if token == c.timers[TimerShake] {
		c.st.Shaking = false
	}
	return nil
}

// Submit checks the typed answer. An empty buffer or a lone sign is
// ignored.
func (c *Controller) Submit() []Effect {
	if c.st.Phase != PhasePlaying || c.st.Answer == "" || c.st.Answer == "-" {
		return nil
	}
	return c.submit(false)
}

func (c *Controller) submit(timedOut bool) []Effect {
	p := c.st.Problem
	taken := c.now().Sub(c.started)
	c.st.Elapsed = taken

	var user *float64
	if v, err := strconv.ParseFloat(c.st.Answer, 64); err == nil {
		user = &v
	}
	correct := !timedOut && user != nil && math.Abs(*user-p.Answer) < 0.01
	clean := correct && !c.st.MadeMistake

	c.record(user, clean, p.Adjustment)

	switch {
	case clean:
		c.st.Score += points(p.EstimatedTime, taken)
		c.correctAnswer()
	case correct:
		c.st.CorrectStreak = 0
		c.st.WrongStreak = 0
	default:
		c.wrongAnswer()
	}

	c.logger.Debug("answer submitted", "question", p.QuestionString, "answer", c.st.Answer,
		"correct", correct, "clean", clean, "timed_out", timedOut, "taken", taken)

	if correct {
		return c.feedback(FeedbackCorrect, c.cfg.CorrectDelay)
	}
	return c.feedback(FeedbackIncorrect, c.cfg.IncorrectDelay)
}

// points scores a clean answer: 50, plus 5 per second left on the
// budget, never less than 10.
func points(budget, taken time.Duration) int {
	bonus := max(0, budget.Seconds()-taken.Seconds())
	return max(10, 50+int(math.Round(5*bonus)))
}

func (c *Controller) record(user *float64, correct bool, adj problemgen.Adjustment) {
	p := c.st.Problem
	c.st.LastTimeTaken = c.now().Sub(c.started)
	c.st.History = append(c.st.History, problemgen.PerformanceRecord{
		Question:      p.QuestionString,
		CorrectAnswer: p.Answer,
		UserAnswer:    user,
		TimeTaken:     c.st.LastTimeTaken,
		EstimatedTime: p.EstimatedTime,
		Correct:       correct,
		Adjustment:    adj,
	})
}

func (c *Controller) correctAnswer() {
	c.st.CorrectStreak++
	c.st.WrongStreak = 0
	if c.st.Mode == ModeStandard && c.st.CorrectStreak >= c.cfg.CorrectStreakToLevelUp && c.st.Level < MaxLevel {
		c.st.Level++
		c.st.CorrectStreak = 0
		c.logger.Info("level up", "level", c.st.Level)
	}
}

func (c *Controller) wrongAnswer() {
	c.st.CorrectStreak = 0
	c.st.WrongStreak++
	if c.st.Mode == ModeStandard && c.st.WrongStreak >= c.cfg.WrongStreakToLevelDown {
		c.st.Level = max(MinLevel, c.st.Level-1)
		c.st.WrongStreak = 0
		c.logger.Info("level down", "level", c.st.Level)
	}
}

func (c *Controller) feedback(f Feedback, delay time.Duration) []Effect {
	c.st.Phase = PhaseFeedback
	c.st.Feedback = f
	c.timers[TimerTick]++
	return []Effect{c.arm(TimerAdvance, delay)}
}

// Skip gives up on the active problem. It counts as a wrong answer.
func (c *Controller) Skip() []Effect {
	if c.st.Phase != PhasePlaying {
		return nil
	}
	c.st.Elapsed = c.now().Sub(c.started)
	c.record(nil, false, c.st.Problem.Adjustment)
	c.wrongAnswer()
	return c.feedback(FeedbackIncorrect, c.cfg.IncorrectDelay)
}

// IncreaseDifficulty abandons the active problem for a harder one.
func (c *Controller) IncreaseDifficulty() []Effect {
	if c.st.Phase != PhasePlaying {
		return nil
	}
	if c.st.Mode == ModeAdaptive {
		c.record(nil, false, problemgen.AdjustmentSignificantIncrease)
		return c.acquire()
	}
	if c.st.Level >= MaxLevel {
		return c.notify(NoticeMaxLevel)
	}
	c.record(nil, false, c.st.Problem.Adjustment)
	c.st.Level++
	c.st.CorrectStreak = 0
	c.st.WrongStreak = 0
	return c.acquire()
}

// SetMode switches mode from the next acquisition on. Adaptive mode is
// refused with a notice when the generative source cannot serve it.
func (c *Controller) SetMode(m Mode) []Effect {
	if m == ModeAdaptive && !c.AdaptiveAvailable() {
		return c.notify(NoticeNoAdaptiveMode)
	}
	c.st.Mode = m
	return nil
}

// ToggleMode flips between adaptive and standard mode.
func (c *Controller) ToggleMode() []Effect {
	if c.st.Mode == ModeAdaptive {
		return c.SetMode(ModeStandard)
	}
	return c.SetMode(ModeAdaptive)
}

func (c *Controller) notify(text string) []Effect {
	c.st.Notice = text
	return []Effect{c.arm(TimerNotice, c.cfg.NoticeDuration)}
}

func (c *Controller) arm(kind TimerKind, after time.Duration) Effect {
	c.timers[kind]++
	return Schedule{Timer: kind, Token: c.timers[kind], After: after}
}
