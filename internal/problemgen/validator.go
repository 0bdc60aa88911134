package problemgen

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/abhisek/mathpop/internal/expr"
)

// Validator checks a generated problem after it has been parsed and
// evaluated. Implementations should be stateless and safe for concurrent
// use.
type Validator interface {
	// Name returns a short identifier for this validator (for error
	// messages and logging), e.g. "structural", "variety".
	Name() string

	// Validate returns nil if the problem passes.
	Validate(p *Problem, in Input) *ValidationError
}

// StructuralValidator bounds the size of the question and its time
// budget so a problem stays a mental-math problem.
type StructuralValidator struct{}

const (
	maxQuestionLength = 80
	maxEstimatedTime  = 120 * time.Second
)

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(p *Problem, _ Input) *ValidationError {
	if len(p.QuestionString) > maxQuestionLength {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("questionString exceeds %d characters", maxQuestionLength),
			Retryable: true,
		}
	}
	if p.EstimatedTime <= 0 {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("estimatedTime must be positive, got %s", p.EstimatedTime),
			Retryable: true,
		}
	}
	if p.EstimatedTime > maxEstimatedTime {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("estimatedTime exceeds %s", maxEstimatedTime),
			Retryable: true,
		}
	}
	return nil
}

// VarietyValidator rejects a problem identical to one of the last Window
// questions. Questions are compared in canonical form, so spacing does
// not hide a repeat.
type VarietyValidator struct {
	Window int
}

func (v *VarietyValidator) Name() string { return "variety" }

func (v *VarietyValidator) Validate(p *Problem, in Input) *ValidationError {
	history := in.History
	if v.Window > 0 && len(history) > v.Window {
		history = history[len(history)-v.Window:]
	}
	current := expr.Format(p.Tree)
	for _, r := range history {
		if canonical(r.Question) == current {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("repeats recent question %q", r.Question),
				Retryable: true,
			}
		}
	}
	return nil
}

func canonical(q string) string {
	nodes, err := expr.Parse(q)
	if err != nil {
		return strings.Join(strings.Fields(q), "")
	}
	return expr.Format(nodes)
}

// MagnitudeValidator rejects answers too large to work out mentally.
type MagnitudeValidator struct{}

const maxAnswerMagnitude = 1e6

func (v *MagnitudeValidator) Name() string { return "magnitude" }

func (v *MagnitudeValidator) Validate(p *Problem, _ Input) *ValidationError {
	if math.Abs(p.Answer) >= maxAnswerMagnitude {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("answer %g is too large", p.Answer),
			Retryable: true,
		}
	}
	return nil
}
