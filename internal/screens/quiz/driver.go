package quiz

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathpop/internal/problemgen"
	"github.com/abhisek/mathpop/internal/session"
)

// TimerFiredMsg delivers a session.Schedule effect.
type TimerFiredMsg struct {
	Kind  session.TimerKind
	Token uint64
}

// AcquiredMsg delivers the result of a session.Acquire effect.
type AcquiredMsg struct {
	Token   uint64
	Problem *problemgen.Problem
	Err     error
}

// NoticeClaimedMsg delivers the result of a session.ClaimNotice effect.
type NoticeClaimedMsg struct {
	Token uint64
	Show  bool
	Err   error
}

// Driver runs a session.Controller on the Bubble Tea update loop. The app
// model hands it every message first so timers and acquisitions reach
// the controller whichever screen is showing.
type Driver struct {
	ctrl   *session.Controller
	ctx    context.Context
	active bool
}

// NewDriver wraps ctrl. ctx is passed to acquisitions.
func NewDriver(ctx context.Context, ctrl *session.Controller) *Driver {
	return &Driver{ctrl: ctrl, ctx: ctx}
}

func (d *Driver) Controller() *session.Controller {
	return d.ctrl
}

// SetActive marks whether a quiz screen is showing. Timer deliveries are
// dropped while inactive, which freezes the game until the next start;
// acquisition and notice-claim results are always delivered.
func (d *Driver) SetActive(active bool) {
	d.active = active
}

// Handle consumes driver messages. It reports false for anything else.
func (d *Driver) Handle(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case TimerFiredMsg:
		if !d.active {
			return nil, true
		}
		return d.Run(d.ctrl.Fire(msg.Kind, msg.Token)), true
	case AcquiredMsg:
		return d.Run(d.ctrl.Acquired(msg.Token, msg.Problem, msg.Err)), true
	case NoticeClaimedMsg:
		return d.Run(d.ctrl.NoticeClaimed(msg.Token, msg.Show, msg.Err)), true
	}
	return nil, false
}

// Run turns effects into commands.
func (d *Driver) Run(effects []session.Effect) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(effects))
	for _, e := range effects {
		switch e := e.(type) {
		case session.Schedule:
			cmds = append(cmds, tea.Tick(e.After, func(time.Time) tea.Msg {
				return TimerFiredMsg{Kind: e.Timer, Token: e.Token}
			}))
		case session.Acquire:
			cmds = append(cmds, func() tea.Msg {
				p, err := e.Run(d.ctx)
				return AcquiredMsg{Token: e.Token, Problem: p, Err: err}
			})
		case session.ClaimNotice:
			cmds = append(cmds, func() tea.Msg {
				show, err := e.Run(d.ctx)
				return NoticeClaimedMsg{Token: e.Token, Show: show, Err: err}
			})
		}
	}
	return tea.Batch(cmds...)
}
