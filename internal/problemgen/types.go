package problemgen

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/abhisek/mathpop/internal/expr"
)

// Problem is one quiz round: the question as text and as a tree, its
// answer, and its time budget. Problems are replaced wholesale, never
// mutated.
type Problem struct {
	// QuestionString is the flat arithmetic expression, e.g. "{3/4} + 2^3".
	QuestionString string

	// Tree is the parsed structural form of QuestionString.
	Tree []expr.Node

	// Answer is the evaluator's result, rounded to two decimal places.
	Answer float64

	// EstimatedTime is the time budget for the round. Always > 0.
	EstimatedTime time.Duration

	Adjustment Adjustment

	// Reasoning is the generative source's explanation of its choice.
	// Empty for bank problems.
	Reasoning string

	Source Source

	// Level is the bank level the problem came from, 0 for generated ones.
	Level int
}

// Source identifies which producer created a problem.
type Source string

const (
	SourceGenerative Source = "generative"
	SourceBank       Source = "bank"
)

// Adjustment is the generative source's self-reported difficulty change
// relative to the previous problem.
type Adjustment string

const (
	AdjustmentInitial             Adjustment = "initial"
	AdjustmentSignificantIncrease Adjustment = "significant_increase"
	AdjustmentModerateIncrease    Adjustment = "moderate_increase"
	AdjustmentSignificantDecrease Adjustment = "significant_decrease"
	AdjustmentModerateDecrease    Adjustment = "moderate_decrease"
)

// Adjustments lists every valid Adjustment in schema order.
var Adjustments = []Adjustment{
	AdjustmentInitial,
	AdjustmentSignificantIncrease,
	AdjustmentModerateIncrease,
	AdjustmentSignificantDecrease,
	AdjustmentModerateDecrease,
}

// ParseAdjustment validates s against the enum.
func ParseAdjustment(s string) (Adjustment, error) {
	for _, a := range Adjustments {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown difficulty adjustment %q", s)
}

// PerformanceRecord is one answered, skipped or timed-out round.
type PerformanceRecord struct {
	Question      string
	CorrectAnswer float64

	// UserAnswer is nil when nothing parseable was entered.
	UserAnswer *float64

	TimeTaken     time.Duration
	EstimatedTime time.Duration
	Correct       bool
	Adjustment    Adjustment
}

// MarshalJSON encodes the record the way the generation prompt presents
// it: times in seconds, rounded to hundredths.
func (r PerformanceRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Question             string     `json:"question"`
		CorrectAnswer        float64    `json:"correctAnswer"`
		UserAnswer           *float64   `json:"userAnswer"`
		TimeTaken            float64    `json:"timeTaken"`
		EstimatedTime        float64    `json:"estimatedTime"`
		Correct              bool       `json:"correct"`
		DifficultyAdjustment Adjustment `json:"difficultyAdjustment"`
	}{
		Question:             r.Question,
		CorrectAnswer:        r.CorrectAnswer,
		UserAnswer:           r.UserAnswer,
		TimeTaken:            seconds(r.TimeTaken),
		EstimatedTime:        seconds(r.EstimatedTime),
		Correct:              r.Correct,
		DifficultyAdjustment: r.Adjustment,
	})
}

func seconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}

// Input is everything a producer needs to choose the next problem.
// Producers must treat it as read-only.
type Input struct {
	// Level is the bank level, 1 to 10. Ignored by the generative producer.
	Level int

	// History is the session's full performance history, oldest first.
	History []PerformanceRecord
}
