package session

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/mathpop/internal/problemgen"
)

// TimerKind names one of the controller's single-shot timers.
type TimerKind int

const (
	TimerTick    TimerKind = iota // Re-armed every TickInterval while playing
	TimerAdvance                  // Moves from feedback to the next problem
	TimerNotice                   // Dismisses the notice banner
	TimerShake                    // Ends the answer field shake
	numTimers
)

func (k TimerKind) String() string {
	switch k {
	case TimerTick:
		return "tick"
	case TimerAdvance:
		return "advance"
	case TimerNotice:
		return "notice"
	case TimerShake:
		return "shake"
	}
	return fmt.Sprintf("TimerKind(%d)", int(k))
}

// Effect is work the driver performs on the controller's behalf.
type Effect interface {
	effect()
}

// Schedule asks the driver to call Fire(Timer, Token) after the delay.
// A later Schedule of the same kind supersedes it: the controller
// ignores deliveries whose token is no longer current.
type Schedule struct {
	Timer TimerKind
	Token uint64
	After time.Duration
}

// Acquire asks the driver to call Run off the controller's goroutine and
// deliver the result with Acquired(Token, ...). Run only reads a snapshot
// taken when the effect was created.
type Acquire struct {
	Token  uint64
	Source problemgen.Source
	Run    func(ctx context.Context) (*problemgen.Problem, error)
}

// ClaimNotice asks the driver to call Run off the controller's goroutine
// and deliver the result with NoticeClaimed(Token, ...). Run reports
// whether the one-time notice should be shown and records it as seen.
type ClaimNotice struct {
	Token uint64
	Run   func(ctx context.Context) (bool, error)
}

func (Schedule) effect()    {}
func (Acquire) effect()     {}
func (ClaimNotice) effect() {}
