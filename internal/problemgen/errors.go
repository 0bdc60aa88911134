package problemgen

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedResponse is wrapped by every *ValidationError.
	ErrMalformedResponse = errors.New("malformed problem")

	// ErrSourceExhausted is wrapped by *SourceExhaustedError.
	ErrSourceExhausted = errors.New("problem source exhausted")

	// ErrLevelExhausted is wrapped by *LevelExhaustedError.
	ErrLevelExhausted = errors.New("level exhausted")

	// ErrUnknownLevel is returned for a bank level outside 1..10.
	ErrUnknownLevel = errors.New("unknown level")
)

// ValidationError describes why a generated problem was rejected.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
	Retryable bool   // Whether regeneration is likely to fix this
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrMalformedResponse }

// SourceExhaustedError is returned when every generation attempt failed.
// Err is the last attempt's failure.
type SourceExhaustedError struct {
	Attempts int
	Err      error
}

func (e *SourceExhaustedError) Error() string {
	return fmt.Sprintf("problem source exhausted after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *SourceExhaustedError) Unwrap() []error {
	return []error{ErrSourceExhausted, e.Err}
}

// LevelExhaustedError is returned by a no-repeat bank producer when every
// problem of a level has been handed out.
type LevelExhaustedError struct {
	Level int
}

func (e *LevelExhaustedError) Error() string {
	return fmt.Sprintf("level %d exhausted", e.Level)
}

func (e *LevelExhaustedError) Unwrap() error { return ErrLevelExhausted }
