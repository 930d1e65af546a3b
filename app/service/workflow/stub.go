package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/elliotchance/pie/v2"
)

var emotionalKeywords = []string{
	"feel", "anxious", "anxiety", "sad", "lonely", "alone", "depressed", "stress",
	"scared", "afraid", "worried", "upset", "angry", "hurt", "cry", "grief", "miss",
	"love", "heartbroken", "overwhelmed", "tired of",
}

// Stub is an offline workflow for local runs and tests. It echoes the user.
// By default it tags messages containing emotional keywords as emotional and
// everything else as logical. With Alternate set it ignores keywords and
// alternates per user message, starting with emotional.
type Stub struct {
	Alternate bool
}

func (s Stub) Invoke(ctx context.Context, state State) (State, error) {
	last, ok := state.Last()
	if !ok || last.Role != RoleUser {
		return State{}, ErrNoUserMessage
	}

	messageType := s.classify(state, last.Content)
	ReportProgress(ctx, PhaseGenerating, messageType)

	result := state.Append(Message{
		Role:    RoleAssistant,
		Content: StubReply(messageType, last.Content),
	})
	result.MessageType = messageType

	return result, nil
}

func (s Stub) classify(state State, text string) MessageType {
	if s.Alternate {
		userTurns := len(pie.Filter(state.Messages, func(m Message) bool {
			return m.Role == RoleUser
		}))
		if userTurns%2 == 1 {
			return MessageTypeEmotional
		}
		return MessageTypeLogical
	}

	lower := strings.ToLower(text)
	if pie.Any(emotionalKeywords, func(k string) bool { return strings.Contains(lower, k) }) {
		return MessageTypeEmotional
	}

	return MessageTypeLogical
}

// StubReply is the deterministic answer Stub gives for text.
func StubReply(messageType MessageType, text string) string {
	return fmt.Sprintf("[%s] You said: %s", messageType, text)
}
