package workflow

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"dualmode/app/client/llm"
)

//go:embed prompts/classifier.txt
var classifierPromptTemplate string

type classifierResponse struct {
	MessageType MessageType `json:"message_type"`
}

// ClassifierAgent asks a model whether the newest user message is emotional or logical.
type ClassifierAgent struct {
	client llm.Client
}

func NewClassifierAgent(client llm.Client) *ClassifierAgent {
	return &ClassifierAgent{client: client}
}

func (a *ClassifierAgent) Call(ctx context.Context, history []Message, text string) (MessageType, error) {
	// single pass, so placeholders inside substituted text stay literal
	prompt := strings.NewReplacer(
		"{chat_history}", formatHistory(history),
		"{last_message}", text,
	).Replace(classifierPromptTemplate)

	ctx, cancel := context.WithTimeout(ctx, maxReasonDuration)
	defer cancel()

	result, err := a.client.Complete(ctx, llm.Prompt{
		User:        prompt,
		JSON:        true,
		Temperature: 0.1,
		MaxTokens:   50,
	})
	if err != nil {
		return MessageTypeUnset, fmt.Errorf("failed to classify message: %w", err)
	}

	var response classifierResponse
	if err = json.Unmarshal([]byte(trimJSON(result)), &response); err != nil {
		return MessageTypeUnset, fmt.Errorf("failed to unmarshal classifier response: %w", err)
	}

	return normalizeMessageType(response.MessageType), nil
}

// normalizeMessageType routes anything the model invents to the logical path.
func normalizeMessageType(t MessageType) MessageType {
	switch MessageType(strings.ToLower(strings.TrimSpace(string(t)))) {
	case MessageTypeEmotional:
		return MessageTypeEmotional
	default:
		return MessageTypeLogical
	}
}
