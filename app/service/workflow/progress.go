package workflow

import "context"

type Phase string

const (
	PhaseClassifying Phase = "classifying"
	PhaseGenerating  Phase = "generating"
	PhaseReady       Phase = "ready"
	PhaseFailed      Phase = "failed"
)

// ProgressFunc observes turn phases. MessageType is set once classification is known.
type ProgressFunc func(phase Phase, messageType MessageType)

type progressKey struct{}

func WithProgress(ctx context.Context, fn ProgressFunc) context.Context {
	return context.WithValue(ctx, progressKey{}, fn)
}

// ReportProgress notifies the observer attached to ctx, if any.
func ReportProgress(ctx context.Context, phase Phase, messageType MessageType) {
	fn, ok := ctx.Value(progressKey{}).(ProgressFunc)
	if !ok || fn == nil {
		return
	}

	fn(phase, messageType)
}
