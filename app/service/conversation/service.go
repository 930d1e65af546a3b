package conversation

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"dualmode/app/config"
	"dualmode/app/service/workflow"

	"github.com/samber/do"
)

var _ do.Shutdownable = (*Service)(nil)

// Service is the turn orchestrator: it owns session mutation and the workflow call.
type Service struct {
	workflow       workflow.Workflow
	store          *Store
	maxInputLength int
	turnTimeout    time.Duration
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewServiceWithStore(
		do.MustInvoke[workflow.Workflow](di),
		cfg.Conversation.MaxInputLength,
		cfg.Conversation.TurnTimeout,
		NewStore(cfg.Conversation.MaxSessions, cfg.Conversation.SessionTTL),
	), nil
}

// NewService builds a service over a store with the default limits.
func NewService(wf workflow.Workflow, maxInputLength int, turnTimeout time.Duration) *Service {
	return NewServiceWithStore(wf, maxInputLength, turnTimeout, NewStore(0, 0))
}

func NewServiceWithStore(wf workflow.Workflow, maxInputLength int, turnTimeout time.Duration, store *Store) *Service {
	return &Service{
		workflow:       wf,
		store:          store,
		maxInputLength: maxInputLength,
		turnTimeout:    turnTimeout,
	}
}

// Session returns the session for id, creating it if needed.
func (s *Service) Session(id string) *Session {
	return s.store.Get(id)
}

// Snapshot returns the state of session id without creating it.
// Unknown ids read as a fresh, empty conversation.
func (s *Service) Snapshot(id string) Snapshot {
	if sess, ok := s.store.Lookup(id); ok {
		return sess.Snapshot()
	}

	return NewSession(id).Snapshot()
}

func (s *Service) Store() *Store {
	return s.store
}

// ProcessTurn runs one user turn through the workflow. On failure the
// workflow state keeps its pre-call value and no assistant entry is added;
// the user's entry stays in the transcript so the failure is visible.
func (s *Service) ProcessTurn(
	ctx context.Context,
	sess *Session,
	text string,
	progress workflow.ProgressFunc,
) (TurnResult, error) {
	if strings.TrimSpace(text) == "" {
		return TurnResult{}, turnError(sess.ID(), ErrEmptyInput, nil)
	}
	if s.maxInputLength > 0 && utf8.RuneCountInString(text) > s.maxInputLength {
		return TurnResult{}, turnError(sess.ID(), ErrInputTooLong, nil)
	}

	if !sess.busy.CompareAndSwap(false, true) {
		return TurnResult{}, turnError(sess.ID(), ErrTurnInProgress, nil)
	}
	defer sess.busy.Store(false)

	userMessage := workflow.Message{Role: workflow.RoleUser, Content: text}

	sess.mu.Lock()
	generation := sess.generation
	sess.conversationStarted = true
	sess.transcript.add(workflow.RoleUser, text)
	sess.lastTurn = nil
	candidate := sess.state.Append(userMessage)
	sess.mu.Unlock()

	var phases []workflow.Phase
	generating := false
	report := func(phase workflow.Phase, messageType workflow.MessageType) {
		if phase == workflow.PhaseGenerating {
			if generating {
				return
			}
			generating = true
		}

		phases = append(phases, phase)
		sess.recordPhase(generation, phase)

		if progress != nil {
			progress(phase, messageType)
		}
	}

	report(workflow.PhaseClassifying, workflow.MessageTypeUnset)

	result, err := s.invoke(workflow.WithProgress(ctx, report), candidate)
	if err != nil {
		report(workflow.PhaseFailed, workflow.MessageTypeUnset)
		slog.ErrorContext(ctx, "Workflow invocation failed",
			"session_id", sess.ID(),
			"error", err)
		return TurnResult{Phases: phases}, turnError(sess.ID(), ErrInvocationFailed, err)
	}

	last, ok := result.Last()
	if !ok || strings.TrimSpace(last.Content) == "" {
		report(workflow.PhaseFailed, result.MessageType)
		slog.ErrorContext(ctx, "Workflow returned malformed state",
			"session_id", sess.ID(),
			"messages", len(result.Messages))
		return TurnResult{Phases: phases}, turnError(sess.ID(), ErrMalformedResult, nil)
	}

	classification := ParseClassification(result.MessageType)
	report(workflow.PhaseGenerating, result.MessageType)

	sess.mu.Lock()
	if sess.generation != generation {
		sess.mu.Unlock()
		return TurnResult{Phases: phases}, turnError(sess.ID(), ErrSessionReset, nil)
	}
	sess.state = result
	sess.transcript.add(workflow.RoleAssistant, last.Content)
	sess.hasClassification = true
	sess.lastClassification = classification
	sess.mu.Unlock()

	report(workflow.PhaseReady, result.MessageType)

	slog.InfoContext(ctx, "Processed turn",
		"session_id", sess.ID(),
		"classification", classification.String())

	return TurnResult{
		Reply:          last.Content,
		Classification: classification,
		Phases:         phases,
	}, nil
}

func (s *Service) invoke(ctx context.Context, candidate workflow.State) (workflow.State, error) {
	if s.turnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.turnTimeout)
		defer cancel()
	}

	return s.workflow.Invoke(ctx, candidate.Clone())
}

// Reset clears the session back to its initial state. It is idempotent.
func (s *Service) Reset(sess *Session) Snapshot {
	sess.reset()

	slog.Debug("Conversation reset", "session_id", sess.ID())

	return sess.Snapshot()
}

func (s *Service) Shutdown() error {
	slog.Info("Conversation service stopped", "sessions", s.store.Len())
	return nil
}
