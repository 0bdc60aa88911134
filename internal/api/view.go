package api

import (
	"github.com/abhisek/mathpop/internal/expr"
	"github.com/abhisek/mathpop/internal/session"
	"github.com/abhisek/mathpop/internal/ui/components"
)

// stateView is the JSON snapshot pushed after every event. Durations are
// in milliseconds.
type stateView struct {
	Phase             string       `json:"phase"`
	Mode              string       `json:"mode"`
	AdaptiveAvailable bool         `json:"adaptiveAvailable"`
	Score             int          `json:"score"`
	Level             int          `json:"level"`
	CorrectStreak     int          `json:"correctStreak"`
	WrongStreak       int          `json:"wrongStreak"`
	Answer            string       `json:"answer"`
	Shaking           bool         `json:"shaking"`
	MadeMistake       bool         `json:"madeMistake"`
	Feedback          string       `json:"feedback"`
	Notice            string       `json:"notice,omitempty"`
	Problem           *problemView `json:"problem,omitempty"`
	RemainingMs       int64        `json:"remainingMs"`
	LastTimeTakenMs   int64        `json:"lastTimeTakenMs"`
}

type problemView struct {
	Question string      `json:"question"`
	Tree     []expr.Node `json:"tree"`
	Rendered string      `json:"rendered"`
	TimeMs   int64       `json:"timeMs"`
	Source   string      `json:"source"`

	// CorrectAnswer is only revealed during feedback.
	CorrectAnswer *float64 `json:"correctAnswer,omitempty"`
}

func newStateView(c *session.Controller) stateView {
	st := c.State()
	v := stateView{
		Phase:             st.Phase.String(),
		Mode:              st.Mode.String(),
		AdaptiveAvailable: c.AdaptiveAvailable(),
		Score:             st.Score,
		Level:             st.Level,
		CorrectStreak:     st.CorrectStreak,
		WrongStreak:       st.WrongStreak,
		Answer:            st.Answer,
		Shaking:           st.Shaking,
		MadeMistake:       st.MadeMistake,
		Feedback:          st.Feedback.String(),
		Notice:            st.Notice,
		RemainingMs:       st.Remaining().Milliseconds(),
		LastTimeTakenMs:   st.LastTimeTaken.Milliseconds(),
	}
	if p := st.Problem; p != nil {
		v.Problem = &problemView{
			Question: p.QuestionString,
			Tree:     p.Tree,
			Rendered: components.RenderExpression(p.Tree),
			TimeMs:   p.EstimatedTime.Milliseconds(),
			Source:   string(p.Source),
		}
		if st.Phase == session.PhaseFeedback {
			ans := p.Answer
			v.Problem.CorrectAnswer = &ans
		}
	}
	return v
}
