package problemgen

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/abhisek/mathpop/internal/expr"
	"github.com/abhisek/mathpop/internal/problembank"
)

// BankOptions configures a BankProducer.
type BankOptions struct {
	// NoRepeat hands out each problem of a level at most once until
	// Recycle is called.
	NoRepeat bool

	// Rand is the source of randomness. Nil seeds a new PCG randomly.
	Rand *rand.Rand
}

// DefaultBankOptions returns options with NoRepeat enabled.
func DefaultBankOptions() BankOptions {
	return BankOptions{NoRepeat: true}
}

// BankProducer implements Producer by drawing from the static bank.
type BankProducer struct {
	bank     *problembank.Bank
	noRepeat bool

	mu   sync.Mutex
	rng  *rand.Rand
	used map[int]map[int]bool
}

// NewBankProducer creates a producer over bank.
func NewBankProducer(bank *problembank.Bank, opts BankOptions) *BankProducer {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &BankProducer{
		bank:     bank,
		noRepeat: opts.NoRepeat,
		rng:      rng,
		used:     make(map[int]map[int]bool),
	}
}

// Produce picks a problem of in.Level uniformly at random among those not
// yet handed out.
func (b *BankProducer) Produce(ctx context.Context, in Input) (*Problem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if in.Level < problembank.MinLevel || in.Level > problembank.MaxLevel {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLevel, in.Level)
	}
	items := b.bank.Level(in.Level)
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLevel, in.Level)
	}

	b.mu.Lock()
	idx, ok := b.pick(in.Level, len(items))
	b.mu.Unlock()
	if !ok {
		return nil, &LevelExhaustedError{Level: in.Level}
	}

	item := items[idx]
	tree, err := expr.Parse(item.Question)
	if err != nil {
		return nil, fmt.Errorf("bank level %d problem %d: %w", in.Level, idx+1, err)
	}
	return &Problem{
		QuestionString: item.Question,
		Tree:           tree,
		Answer:         item.Answer,
		EstimatedTime:  item.EstimatedTime(),
		Adjustment:     AdjustmentInitial,
		Source:         SourceBank,
		Level:          in.Level,
	}, nil
}

// pick must be called with b.mu held.
func (b *BankProducer) pick(level, n int) (int, bool) {
	if !b.noRepeat {
		return b.rng.IntN(n), true
	}
	used := b.used[level]
	if used == nil {
		used = make(map[int]bool)
		b.used[level] = used
	}
	avail := make([]int, 0, n-len(used))
	for i := range n {
		if !used[i] {
			avail = append(avail, i)
		}
	}
	if len(avail) == 0 {
		return 0, false
	}
	idx := avail[b.rng.IntN(len(avail))]
	used[idx] = true
	return idx, true
}

// Recycle forgets every problem handed out so far.
func (b *BankProducer) Recycle() {
	b.mu.Lock()
	defer b.mu.Unlock()
	clear(b.used)
}

// Remaining returns how many problems of level have not been handed out.
func (b *BankProducer) Remaining(level int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.bank.Level(level)) - len(b.used[level])
}
