package workflow

import "context"

// Workflow classifies the newest user message in a state and appends exactly one assistant reply.
// The returned state replaces the caller's state in full.
type Workflow interface {
	Invoke(ctx context.Context, state State) (State, error)
}

// Func adapts a plain function to Workflow.
type Func func(ctx context.Context, state State) (State, error)

func (f Func) Invoke(ctx context.Context, state State) (State, error) {
	return f(ctx, state)
}
