package llm

import (
	"context"
	"net/http"
	"time"

	"dualmode/app/config"

	"github.com/samber/oops"
)

const requestTimeout = 30 * time.Second

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Client abstracts a chat-completion backend so agents can be tested with Mock.
type Client interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// Prompt is one completion request: system instructions, prior turns and the new user text.
type Prompt struct {
	System  string
	History []Message
	User    string

	// JSON asks the backend for a JSON object response when it supports it.
	JSON        bool
	Temperature float64
	MaxTokens   int
}

type Message struct {
	Role    string
	Content string
}

// New builds the backend selected by cfg.Provider.
func New(cfg config.ModelConfig) (Client, error) {
	switch cfg.Provider {
	case "", config.ProviderLangChain:
		return NewLangChain(cfg)
	case config.ProviderOpenAI:
		return NewOpenAI(cfg)
	default:
		return nil, oops.
			In("llm").
			With("provider", cfg.Provider).
			Errorf("llm provider %s not supported", cfg.Provider)
	}
}

func httpClient() *http.Client {
	return &http.Client{
		Timeout: requestTimeout,
	}
}
