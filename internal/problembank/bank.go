// Package problembank holds the static, per-level problem bank used in
// standard mode and whenever the generative source is unavailable.
package problembank

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/mathpop/internal/expr"
)

// MinLevel and MaxLevel bound the bank's levels.
const (
	MinLevel = 1
	MaxLevel = 10
)

//go:embed levels.yaml
var levelsYAML []byte

// Item is one bank problem.
type Item struct {
	Question string  `yaml:"question" json:"question"`
	Answer   float64 `yaml:"answer" json:"answer"`

	// Time is the target solve time in whole seconds.
	Time int `yaml:"time" json:"time"`
}

// EstimatedTime returns Time as a duration.
func (it Item) EstimatedTime() time.Duration {
	return time.Duration(it.Time) * time.Second
}

// Bank is an immutable set of problems keyed by level.
type Bank struct {
	levels map[int][]Item
}

type document struct {
	Levels map[int][]Item `yaml:"levels"`
}

// ErrInvalidBank is wrapped by every Load validation failure.
var ErrInvalidBank = errors.New("invalid problem bank")

// Load decodes and validates a bank document. Every level from MinLevel
// to MaxLevel must be present and non-empty, every time positive, and
// every question must parse.
func Load(r io.Reader) (*Bank, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode problem bank: %w", err)
	}

	for level := range doc.Levels {
		if level < MinLevel || level > MaxLevel {
			return nil, fmt.Errorf("%w: level %d out of range", ErrInvalidBank, level)
		}
	}
	for level := MinLevel; level <= MaxLevel; level++ {
		items := doc.Levels[level]
		if len(items) == 0 {
			return nil, fmt.Errorf("%w: level %d has no problems", ErrInvalidBank, level)
		}
		for i, it := range items {
			if it.Time <= 0 {
				return nil, fmt.Errorf("%w: level %d problem %d: time must be positive", ErrInvalidBank, level, i+1)
			}
			if math.IsNaN(it.Answer) || math.IsInf(it.Answer, 0) {
				return nil, fmt.Errorf("%w: level %d problem %d: answer is not finite", ErrInvalidBank, level, i+1)
			}
			if _, err := expr.Parse(it.Question); err != nil {
				return nil, fmt.Errorf("%w: level %d problem %d (%q): %w", ErrInvalidBank, level, i+1, it.Question, err)
			}
		}
	}
	return &Bank{levels: doc.Levels}, nil
}

var (
	defaultOnce sync.Once
	defaultBank *Bank
	defaultErr  error
)

// Default returns the embedded bank, loading it on first use.
func Default() (*Bank, error) {
	defaultOnce.Do(func() {
		defaultBank, defaultErr = Load(bytes.NewReader(levelsYAML))
	})
	return defaultBank, defaultErr
}

// MustDefault is like Default but panics if the embedded bank is invalid.
func MustDefault() *Bank {
	b, err := Default()
	if err != nil {
		panic(err)
	}
	return b
}

// Level returns the problems of a level, or nil for an unknown level.
// The returned slice must not be modified.
func (b *Bank) Level(level int) []Item {
	return b.levels[level]
}

// Levels returns the level numbers in ascending order.
func (b *Bank) Levels() []int {
	out := make([]int, 0, MaxLevel)
	for level := MinLevel; level <= MaxLevel; level++ {
		if len(b.levels[level]) > 0 {
			out = append(out, level)
		}
	}
	return out
}

// Size returns the total number of problems.
func (b *Bank) Size() int {
	n := 0
	for _, items := range b.levels {
		n += len(items)
	}
	return n
}

// Mismatch is a bank problem whose stored answer disagrees with the
// evaluator.
type Mismatch struct {
	Level    int
	Index    int
	Question string
	Stored   float64
	Computed float64
	Err      error
}

func (m Mismatch) String() string {
	if m.Err != nil {
		return fmt.Sprintf("level %d #%d %q: %v", m.Level, m.Index+1, m.Question, m.Err)
	}
	return fmt.Sprintf("level %d #%d %q: stored %g, evaluates to %g", m.Level, m.Index+1, m.Question, m.Stored, m.Computed)
}

// VerifyLevel evaluates every problem of a level and reports those whose
// stored answer is off by half a hundredth or more.
func (b *Bank) VerifyLevel(level int) []Mismatch {
	var out []Mismatch
	for i, it := range b.levels[level] {
		got, err := expr.EvaluateString(it.Question)
		if err != nil {
			out = append(out, Mismatch{Level: level, Index: i, Question: it.Question, Stored: it.Answer, Err: err})
			continue
		}
		if math.Abs(got-it.Answer) >= 0.005 {
			out = append(out, Mismatch{Level: level, Index: i, Question: it.Question, Stored: it.Answer, Computed: got})
		}
	}
	return out
}
