package problemgen

import "github.com/abhisek/mathpop/internal/llm"

// ProblemSchema defines the JSON schema for generated problems. There is
// no answer field: the answer is always computed locally.
var ProblemSchema = &llm.Schema{
	Name:        "mental_math_problem",
	Description: "A single mental arithmetic problem with a time estimate",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"reasoning": map[string]any{
				"type":        "string",
				"description": "One or two sentences on why this problem fits the student's recent performance",
			},
			"difficultyAdjustment": map[string]any{
				"type":        "string",
				"enum":        adjustmentEnum(),
				"description": "How the difficulty changed relative to the previous problem",
			},
			"questionString": map[string]any{
				"type":        "string",
				"description": "The arithmetic expression, using + - * / ^, ( ), {a/b} fractions, sqrt(...) and |...|",
			},
			"estimatedTime": map[string]any{
				"type":        "integer",
				"minimum":     1,
				"description": "Seconds a proficient student needs to solve it mentally",
			},
		},
		"required":             []any{"reasoning", "difficultyAdjustment", "questionString", "estimatedTime"},
		"additionalProperties": false,
	},
}

func adjustmentEnum() []any {
	out := make([]any, len(Adjustments))
	for i, a := range Adjustments {
		out[i] = string(a)
	}
	return out
}
