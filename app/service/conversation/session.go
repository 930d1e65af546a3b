package conversation

import (
	"sync"
	"sync/atomic"

	"dualmode/app/service/workflow"
)

// Session holds one visitor's conversation. All mutation goes through
// Service.ProcessTurn and Service.Reset.
type Session struct {
	id string

	// busy is set while a workflow invocation is in flight.
	busy atomic.Bool

	mu                  sync.RWMutex
	generation          uint64
	transcript          Transcript
	state               workflow.State
	conversationStarted bool
	hasClassification   bool
	lastClassification  Classification
	lastTurn            []workflow.Phase
}

func NewSession(id string) *Session {
	return &Session{id: id}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		ID:                  s.id,
		Transcript:          s.transcript.snapshot(),
		State:               s.state.Clone(),
		ConversationStarted: s.conversationStarted,
		HasClassification:   s.hasClassification,
		LastClassification:  s.lastClassification,
		LastTurn:            append([]workflow.Phase(nil), s.lastTurn...),
		Busy:                s.busy.Load(),
	}
}

func (s *Session) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.transcript.reset()
	s.state = workflow.State{}
	s.conversationStarted = false
	s.hasClassification = false
	s.lastClassification = ClassificationUnknown
	s.lastTurn = nil
}

func (s *Session) recordPhase(generation uint64, phase workflow.Phase) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != generation {
		return
	}

	s.lastTurn = append(s.lastTurn, phase)
}
