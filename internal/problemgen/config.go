package problemgen

import "time"

// Config controls the behavior of the LLMProducer.
type Config struct {
	// Validators is the ordered list of validators to run on every
	// generated problem. They execute in order; the first failure
	// stops the pipeline.
	Validators []Validator

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// HistoryWindow is how many of the most recent performance records
	// are included in the prompt.
	HistoryWindow int

	// MaxAttempts bounds generation attempts per Produce call.
	MaxAttempts int

	// RetryBackoff is the fixed wait between attempts.
	RetryBackoff time.Duration
}

// DefaultConfig returns a Config with the standard validator chain
// and recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&VarietyValidator{Window: 5},
			&MagnitudeValidator{},
		},
		MaxTokens:     512,
		Temperature:   0.9,
		HistoryWindow: 5,
		MaxAttempts:   3,
		RetryBackoff:  250 * time.Millisecond,
	}
}
