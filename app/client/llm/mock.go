package llm

import (
	"context"
	"sync"
)

// Mock answers from a callback and records every prompt it receives.
type Mock struct {
	Reply func(prompt Prompt) (string, error)

	mu      sync.Mutex
	prompts []Prompt
}

func (m *Mock) Complete(_ context.Context, prompt Prompt) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.Reply == nil {
		return prompt.User, nil
	}

	return m.Reply(prompt)
}

func (m *Mock) Prompts() []Prompt {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]Prompt(nil), m.prompts...)
}
