package problemgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/abhisek/mathpop/internal/expr"
	"github.com/abhisek/mathpop/internal/llm"
)

// PurposeProblemGen labels generation calls in the LLM event log.
const PurposeProblemGen = "problem-gen"

// LLMProducer implements Producer using an LLM provider. The provider
// chooses the question and its time budget; the answer is always
// computed by the local evaluator.
type LLMProducer struct {
	provider llm.Provider
	config   Config
	logger   *slog.Logger
}

// NewLLMProducer creates a new LLMProducer with the given provider and
// config. A nil logger uses slog.Default().
func NewLLMProducer(provider llm.Provider, cfg Config, logger *slog.Logger) *LLMProducer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LLMProducer{provider: provider, config: cfg, logger: logger}
}

// problemOutput is the raw LLM response before validation. Answer is not
// part of the schema; when a response carries one anyway it is only
// cross-checked.
type problemOutput struct {
	Reasoning            string   `json:"reasoning"`
	DifficultyAdjustment string   `json:"difficultyAdjustment"`
	QuestionString       string   `json:"questionString"`
	EstimatedTime        float64  `json:"estimatedTime"`
	Answer               *float64 `json:"answer,omitempty"`
}

// Produce generates a problem, retrying failed attempts with a fixed
// backoff. It gives up early on a non-retryable validation failure or
// when ctx is done.
func (g *LLMProducer) Produce(ctx context.Context, in Input) (*Problem, error) {
	ctx = llm.WithPurpose(ctx, PurposeProblemGen)

	attempts := max(g.config.MaxAttempts, 1)
	var last error
	for attempt := 1; attempt <= attempts; attempt++ {
		p, err := g.generate(ctx, in)
		if err == nil {
			if attempt > 1 {
				g.logger.Info("problem generated after retry", "attempt", attempt)
			}
			return p, nil
		}
		last = err
		g.logger.Warn("problem generation attempt failed", "attempt", attempt, "max_attempts", attempts, "error", err)

		if ctx.Err() != nil {
			return nil, &SourceExhaustedError{Attempts: attempt, Err: ctx.Err()}
		}
		var verr *ValidationError
		if errors.As(err, &verr) && !verr.Retryable {
			return nil, &SourceExhaustedError{Attempts: attempt, Err: err}
		}
		if attempt < attempts {
			if err := sleep(ctx, g.config.RetryBackoff); err != nil {
				return nil, &SourceExhaustedError{Attempts: attempt, Err: err}
			}
		}
	}
	return nil, &SourceExhaustedError{Attempts: attempts, Err: last}
}

func (g *LLMProducer) generate(ctx context.Context, in Input) (*Problem, error) {
	userMsg, err := buildUserMessage(in.History, g.config.HistoryWindow)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		Schema:      ProblemSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}
	return g.build(resp.Content, in)
}

// build turns a raw response into a Problem: strict decode, parse,
// evaluate, then the validator chain.
func (g *LLMProducer) build(raw json.RawMessage, in Input) (*Problem, error) {
	out, verr := decodeProblem(raw)
	if verr != nil {
		return nil, verr
	}

	tree, err := expr.Parse(out.QuestionString)
	if err != nil {
		return nil, &ValidationError{Validator: "parse", Message: err.Error(), Retryable: true}
	}
	answer := expr.Answer(tree)
	if expr.IsUnavailable(answer) {
		return nil, &ValidationError{
			Validator: "evaluate",
			Message:   fmt.Sprintf("%q cannot be evaluated", out.QuestionString),
			Retryable: true,
		}
	}
	if out.Answer != nil && math.Abs(*out.Answer-answer) >= 0.01 {
		g.logger.Warn("generated answer disagrees with evaluator, using evaluator",
			"question", out.QuestionString, "claimed", *out.Answer, "computed", answer)
	}

	adj, _ := ParseAdjustment(out.DifficultyAdjustment) // checked by decodeProblem
	p := &Problem{
		QuestionString: out.QuestionString,
		Tree:           tree,
		Answer:         answer,
		EstimatedTime:  time.Duration(out.EstimatedTime) * time.Second,
		Adjustment:     adj,
		Reasoning:      out.Reasoning,
		Source:         SourceGenerative,
	}

	for _, v := range g.config.Validators {
		if verr := v.Validate(p, in); verr != nil {
			return nil, verr
		}
	}
	return p, nil
}

// decodeProblem decodes strictly: unknown fields, wrong types, a blank
// question, a non-integral, non-positive or oversized time and an
// adjustment outside the enum are all rejected.
func decodeProblem(raw json.RawMessage) (*problemOutput, *ValidationError) {
	fail := func(format string, args ...any) (*problemOutput, *ValidationError) {
		return nil, &ValidationError{Validator: "decode", Message: fmt.Sprintf(format, args...), Retryable: true}
	}

	var out problemOutput
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return fail("%v", err)
	}
	if dec.More() {
		return fail("trailing data after JSON object")
	}

	out.QuestionString = strings.TrimSpace(out.QuestionString)
	if out.QuestionString == "" {
		return fail("questionString is empty")
	}
	if out.EstimatedTime <= 0 || out.EstimatedTime != math.Trunc(out.EstimatedTime) {
		return fail("estimatedTime must be a positive integer, got %v", out.EstimatedTime)
	}
	if out.EstimatedTime > maxEstimatedTime.Seconds() {
		return fail("estimatedTime exceeds %s, got %v", maxEstimatedTime, out.EstimatedTime)
	}
	if _, err := ParseAdjustment(out.DifficultyAdjustment); err != nil {
		return fail("%v", err)
	}
	if out.Answer != nil && (math.IsNaN(*out.Answer) || math.IsInf(*out.Answer, 0)) {
		return fail("answer is not finite")
	}
	return &out, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
