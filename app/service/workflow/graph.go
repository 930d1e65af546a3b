package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

var ErrNoUserMessage = errors.New("state does not end with a user message")

// Graph is the LLM backed workflow: classify the newest user message,
// then hand it to the responder for that message type.
type Graph struct {
	classifier *ClassifierAgent
	emotional  *ResponderAgent
	logical    *ResponderAgent
}

func NewGraph(classifier *ClassifierAgent, emotional, logical *ResponderAgent) *Graph {
	return &Graph{
		classifier: classifier,
		emotional:  emotional,
		logical:    logical,
	}
}

func (g *Graph) Invoke(ctx context.Context, state State) (State, error) {
	last, ok := state.Last()
	if !ok || last.Role != RoleUser {
		return State{}, ErrNoUserMessage
	}

	history := recentHistory(state.Messages[:len(state.Messages)-1])

	messageType, err := g.classifier.Call(ctx, history, last.Content)
	if err != nil {
		return State{}, fmt.Errorf("classifier.Call: %w", err)
	}

	slog.DebugContext(ctx, "Message classified", "message_type", messageType)
	ReportProgress(ctx, PhaseGenerating, messageType)

	responder := g.logical
	if messageType == MessageTypeEmotional {
		responder = g.emotional
	}

	reply, err := responder.Call(ctx, history, last.Content)
	if err != nil {
		return State{}, fmt.Errorf("responder.Call: %w", err)
	}

	result := state.Append(Message{
		Role:     RoleAssistant,
		Content:  reply,
		Metadata: map[string]string{"message_type": string(messageType)},
	})
	result.MessageType = messageType

	return result, nil
}
