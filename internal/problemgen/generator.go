package problemgen

import "context"

// Producer supplies the next problem for a session.
type Producer interface {
	// Produce returns a fully validated problem: its tree parses and its
	// answer is set. It may block; it honours ctx cancellation.
	Produce(ctx context.Context, in Input) (*Problem, error)
}

// Recycler is implemented by producers that can forget what they have
// already handed out.
type Recycler interface {
	Recycle()
}
