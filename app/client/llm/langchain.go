package llm

import (
	"context"
	"errors"
	"fmt"

	"dualmode/app/config"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// LangChain talks to an OpenAI-compatible endpoint through langchaingo.
type LangChain struct {
	model string
	llm   *openai.LLM
}

func NewLangChain(cfg config.ModelConfig) (*LangChain, error) {
	model, err := openai.New(
		openai.WithToken(cfg.Token),
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithModel(cfg.Model),
		openai.WithHTTPClient(httpClient()),
		openai.WithCallback(LogCallbackHandler{Model: cfg.Model}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create langchain client: %w", err)
	}

	return &LangChain{
		model: cfg.Model,
		llm:   model,
	}, nil
}

func (l *LangChain) Complete(ctx context.Context, prompt Prompt) (string, error) {
	messages := make([]llms.MessageContent, 0, len(prompt.History)+2)
	if prompt.System != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, prompt.System))
	}
	for _, m := range prompt.History {
		messages = append(messages, llms.TextParts(chatMessageType(m.Role), m.Content))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, prompt.User))

	var opts []llms.CallOption
	if prompt.Temperature > 0 {
		opts = append(opts, llms.WithTemperature(prompt.Temperature))
	}
	if prompt.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(prompt.MaxTokens))
	}
	if prompt.JSON {
		opts = append(opts, llms.WithJSONMode())
	}

	resp, err := l.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no chat completion found")
	}

	return resp.Choices[0].Content, nil
}

func chatMessageType(role string) llms.ChatMessageType {
	switch role {
	case RoleAssistant:
		return llms.ChatMessageTypeAI
	case RoleSystem:
		return llms.ChatMessageTypeSystem
	default:
		return llms.ChatMessageTypeHuman
	}
}
