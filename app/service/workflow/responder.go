package workflow

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"dualmode/app/client/llm"
)

var (
	//go:embed prompts/emotional.txt
	emotionalSystemPrompt string

	//go:embed prompts/logical.txt
	logicalSystemPrompt string
)

// ResponderAgent produces the assistant reply for one message type.
type ResponderAgent struct {
	client      llm.Client
	system      string
	temperature float64
}

func NewEmotionalAgent(client llm.Client) *ResponderAgent {
	return &ResponderAgent{
		client:      client,
		system:      emotionalSystemPrompt,
		temperature: 0.9,
	}
}

func NewLogicalAgent(client llm.Client) *ResponderAgent {
	return &ResponderAgent{
		client:      client,
		system:      logicalSystemPrompt,
		temperature: 0.3,
	}
}

func (a *ResponderAgent) Call(ctx context.Context, history []Message, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, maxReasonDuration)
	defer cancel()

	result, err := a.client.Complete(ctx, llm.Prompt{
		System:      strings.TrimSpace(a.system),
		History:     toPromptHistory(history),
		User:        text,
		Temperature: a.temperature,
		MaxTokens:   maxReplyTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate reply: %w", err)
	}

	result = strings.TrimSpace(result)
	if result == "" {
		return "", errors.New("model returned an empty reply")
	}

	return result, nil
}
