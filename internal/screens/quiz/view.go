package quiz

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathpop/internal/session"
	"github.com/abhisek/mathpop/internal/ui/components"
	"github.com/abhisek/mathpop/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	st := s.driver.Controller().State()
	cw := components.ContentWidth(width)

	var sections []string
	if st.Notice != "" {
		sections = append(sections, theme.Notice.Render(st.Notice))
	}

	switch st.Phase {
	case session.PhaseStart:
		sections = append(sections, theme.Hint.Render("Press Enter to start"))
	case session.PhaseLoading:
		msg := "Picking a problem..."
		if st.Mode == session.ModeAdaptive && s.driver.Controller().AdaptiveAvailable() {
			msg = "Thinking up a problem..."
		}
		sections = append(sections, theme.Hint.Render(msg))
	default:
		sections = append(sections, renderRound(st, cw)...)
	}

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func renderRound(st session.State, cw int) []string {
	p := st.Problem
	out := []string{
		components.TimeBar(st.Remaining(), p.EstimatedTime, cw),
		theme.Expression.Render(components.RenderExpression(p.Tree)),
		renderAnswer(st, cw),
	}
	if st.Phase == session.PhaseFeedback {
		out = append(out, renderFeedback(st))
	}
	return out
}

func renderAnswer(st session.State, cw int) string {
	text := st.Answer
	if text == "" {
		text = " "
	}
	width := min(max(lipgloss.Width(text)+6, 12), cw)
	if st.Shaking {
		return "  " + theme.AnswerBoxShaking.Width(width).Render(text)
	}
	return theme.AnswerBox.Width(width).Render(text)
}

func renderFeedback(st session.State) string {
	if st.Feedback == session.FeedbackCorrect {
		if st.MadeMistake {
			return theme.Correct.Render("Correct! No points after a correction.")
		}
		return theme.Correct.Render(fmt.Sprintf("Correct! %.1fs", st.LastTimeTaken.Seconds()))
	}
	return theme.Incorrect.Render("Not quite. The answer was " + formatAnswer(st.Problem.Answer))
}

func formatAnswer(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
