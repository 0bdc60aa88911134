// Package session implements the quiz controller: a deterministic state
// machine that acquires problems, times rounds, scores answers and moves
// the player between levels. It performs no I/O scheduling of its own;
// every transition returns the effects its driver must carry out.
package session

import (
	"fmt"
	"time"

	"github.com/abhisek/mathpop/internal/problemgen"
)

// Phase is the controller's top-level state.
type Phase int

const (
	PhaseStart    Phase = iota // Waiting for the player to start
	PhaseLoading               // An acquisition is outstanding
	PhasePlaying               // A problem is on screen and the clock runs
	PhaseFeedback              // Showing the outcome before the next problem
)

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhaseLoading:
		return "loading"
	case PhasePlaying:
		return "playing"
	case PhaseFeedback:
		return "feedback"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Mode selects where problems come from.
type Mode int

const (
	// ModeAdaptive asks the generative source for each problem.
	ModeAdaptive Mode = iota
	// ModeStandard draws from the static bank and levels by streaks.
	ModeStandard
)

func (m Mode) String() string {
	if m == ModeAdaptive {
		return "adaptive"
	}
	return "standard"
}

// ParseMode accepts "adaptive" (or "ai") and "standard".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "adaptive", "ai":
		return ModeAdaptive, nil
	case "standard":
		return ModeStandard, nil
	}
	return 0, fmt.Errorf("unknown mode %q (want adaptive or standard)", s)
}

// Feedback is the outcome shown in PhaseFeedback.
type Feedback int

const (
	FeedbackNone Feedback = iota
	FeedbackCorrect
	FeedbackIncorrect
)

func (f Feedback) String() string {
	switch f {
	case FeedbackCorrect:
		return "correct"
	case FeedbackIncorrect:
		return "incorrect"
	}
	return "none"
}

// Level bounds.
const (
	MinLevel = 1
	MaxLevel = 10
)

// Notice texts.
const (
	NoticeDecimals       = "Heads up! Decimal answers are rounded to the hundredths place."
	NoticeFallback       = "AI is resting. Switched to Standard Mode!"
	NoticeMaxLevel       = "You are on the highest level!"
	NoticeLoadFailed     = "Could not load a problem. Press enter to try again."
	NoticeNoAdaptiveMode = "AI mode is not available right now."
)

// State is a snapshot of the session for rendering.
type State struct {
	Phase Phase
	Mode  Mode

	// Problem is the active problem; nil before the first acquisition.
	Problem *problemgen.Problem

	// Answer is the typed answer buffer.
	Answer string

	Score int
	Level int

	CorrectStreak int
	WrongStreak   int

	// Elapsed is the time spent on the active problem, updated every tick.
	Elapsed time.Duration

	// LastTimeTaken is the time the last answered round took.
	LastTimeTaken time.Duration

	Feedback Feedback

	// Shaking is true while the answer field shakes after the first
	// backspace of an attempt.
	Shaking bool

	// MadeMistake is set by any backspace; a corrected answer scores nothing.
	MadeMistake bool

	// Notice is the auto-dismissing banner text, empty when none.
	Notice string

	// GenerativeUnavailable is set after the generative source failed and
	// stays set for the rest of the process.
	GenerativeUnavailable bool

	History []problemgen.PerformanceRecord
}

// Remaining returns the time left on the active problem, never negative.
func (s State) Remaining() time.Duration {
	if s.Problem == nil {
		return 0
	}
	return max(s.Problem.EstimatedTime-s.Elapsed, 0)
}

// Config holds the controller's tunables.
type Config struct {
	// Mode is the mode a new controller starts in.
	Mode Mode

	StartLevel int

	// WrapLevel is where standard mode continues once the top level runs
	// out of unseen problems.
	WrapLevel int

	// DecimalNoticeLevel is the first level at which standard mode shows
	// the rounding disclaimer.
	DecimalNoticeLevel int

	CorrectStreakToLevelUp int
	WrongStreakToLevelDown int

	TickInterval   time.Duration
	CorrectDelay   time.Duration
	IncorrectDelay time.Duration
	NoticeDuration time.Duration
	ShakeDuration  time.Duration

	MaxAnswerLength int
}

// DefaultConfig returns the standard tunables.
func DefaultConfig() Config {
	return Config{
		Mode:                   ModeAdaptive,
		StartLevel:             1,
		WrapLevel:              6,
		DecimalNoticeLevel:     6,
		CorrectStreakToLevelUp: 3,
		WrongStreakToLevelDown: 2,
		TickInterval:           100 * time.Millisecond,
		CorrectDelay:           750 * time.Millisecond,
		IncorrectDelay:         2500 * time.Millisecond,
		NoticeDuration:         4 * time.Second,
		ShakeDuration:          500 * time.Millisecond,
		MaxAnswerLength:        12,
	}
}

// normalize fills zero values from DefaultConfig and clamps levels.
func (c Config) normalize() Config {
	d := DefaultConfig()
	c.StartLevel = clampLevel(c.StartLevel, d.StartLevel)
	c.WrapLevel = clampLevel(c.WrapLevel, d.WrapLevel)
	c.DecimalNoticeLevel = clampLevel(c.DecimalNoticeLevel, d.DecimalNoticeLevel)
	if c.CorrectStreakToLevelUp <= 0 {
		c.CorrectStreakToLevelUp = d.CorrectStreakToLevelUp
	}
	if c.WrongStreakToLevelDown <= 0 {
		c.WrongStreakToLevelDown = d.WrongStreakToLevelDown
	}
	for _, p := range []struct{ v, def *time.Duration }{
		{&c.TickInterval, &d.TickInterval},
		{&c.CorrectDelay, &d.CorrectDelay},
		{&c.IncorrectDelay, &d.IncorrectDelay},
		{&c.NoticeDuration, &d.NoticeDuration},
		{&c.ShakeDuration, &d.ShakeDuration},
	} {
		if *p.v <= 0 {
			*p.v = *p.def
		}
	}
	if c.MaxAnswerLength <= 0 {
		c.MaxAnswerLength = d.MaxAnswerLength
	}
	return c
}

func clampLevel(v, def int) int {
	if v == 0 {
		return def
	}
	return min(max(v, MinLevel), MaxLevel)
}
