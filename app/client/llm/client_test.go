package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"dualmode/app/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Model          string `json:"model"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Messages []struct {
		Role    string `json:"role"`
		Content any    `json:"content"`
	} `json:"messages"`
}

func newCompletionServer(t *testing.T, reply string) (*httptest.Server, func() []capturedRequest) {
	t.Helper()

	var (
		mu       sync.Mutex
		captured []capturedRequest
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}

		body, _ := io.ReadAll(r.Body)
		var req capturedRequest
		_ = json.Unmarshal(body, &req)

		mu.Lock()
		captured = append(captured, req)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   req.Model,
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message": map[string]any{
					"role":    "assistant",
					"content": reply,
				},
			}},
			"usage": map[string]any{
				"prompt_tokens":     3,
				"completion_tokens": 2,
				"total_tokens":      5,
			},
		})
	}))
	t.Cleanup(srv.Close)

	return srv, func() []capturedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]capturedRequest(nil), captured...)
	}
}

func testPrompt() Prompt {
	return Prompt{
		System: "be kind",
		History: []Message{
			{Role: RoleUser, Content: "hello"},
			{Role: RoleAssistant, Content: "hi there"},
		},
		User:        "how are you?",
		Temperature: 0.7,
		MaxTokens:   64,
	}
}

func TestNew_SelectsProvider(t *testing.T) {
	base := config.ModelConfig{BaseURL: "http://localhost:1/v1", Token: "sk-test", Model: "gpt-test"}

	base.Provider = config.ProviderLangChain
	c, err := New(base)
	require.NoError(t, err)
	assert.IsType(t, &LangChain{}, c)

	base.Provider = ""
	c, err = New(base)
	require.NoError(t, err)
	assert.IsType(t, &LangChain{}, c)

	base.Provider = config.ProviderOpenAI
	c, err = New(base)
	require.NoError(t, err)
	assert.IsType(t, &OpenAI{}, c)

	base.Provider = "bard"
	_, err = New(base)
	require.Error(t, err)
}

func TestNewOpenAI_RequiresTokenAndModel(t *testing.T) {
	_, err := NewOpenAI(config.ModelConfig{Model: "m"})
	require.Error(t, err)

	_, err = NewOpenAI(config.ModelConfig{Token: "t"})
	require.Error(t, err)
}

func TestLangChain_Complete(t *testing.T) {
	srv, requests := newCompletionServer(t, "I'm doing well.")

	c, err := NewLangChain(config.ModelConfig{BaseURL: srv.URL + "/v1", Token: "sk-test", Model: "gpt-test"})
	require.NoError(t, err)

	out, err := c.Complete(context.Background(), testPrompt())
	require.NoError(t, err)
	assert.Equal(t, "I'm doing well.", out)

	reqs := requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "gpt-test", reqs[0].Model)
	require.Len(t, reqs[0].Messages, 4)
	assert.Equal(t, "system", reqs[0].Messages[0].Role)
	assert.Equal(t, "assistant", reqs[0].Messages[2].Role)
	assert.Equal(t, "user", reqs[0].Messages[3].Role)
}

func TestOpenAI_Complete(t *testing.T) {
	srv, requests := newCompletionServer(t, "Water boils at 100°C at sea level.")

	c, err := NewOpenAI(config.ModelConfig{BaseURL: srv.URL + "/v1", Token: "sk-test", Model: "gpt-test"})
	require.NoError(t, err)

	out, err := c.Complete(context.Background(), testPrompt())
	require.NoError(t, err)
	assert.Equal(t, "Water boils at 100°C at sea level.", out)

	reqs := requests()
	require.Len(t, reqs, 1)
	require.Len(t, reqs[0].Messages, 4)
	assert.Equal(t, "system", reqs[0].Messages[0].Role)
	assert.Equal(t, "user", reqs[0].Messages[1].Role)
	assert.Equal(t, "assistant", reqs[0].Messages[2].Role)
	assert.Nil(t, reqs[0].ResponseFormat)
}

func TestJSONMode(t *testing.T) {
	for _, provider := range []string{config.ProviderLangChain, config.ProviderOpenAI} {
		t.Run(provider, func(t *testing.T) {
			srv, requests := newCompletionServer(t, `{"message_type": "logical"}`)

			c, err := New(config.ModelConfig{
				Provider: provider,
				BaseURL:  srv.URL + "/v1",
				Token:    "sk-test",
				Model:    "gpt-test",
			})
			require.NoError(t, err)

			_, err = c.Complete(context.Background(), Prompt{User: "classify", JSON: true})
			require.NoError(t, err)

			reqs := requests()
			require.Len(t, reqs, 1)
			require.NotNil(t, reqs[0].ResponseFormat)
			assert.Equal(t, "json_object", reqs[0].ResponseFormat.Type)
		})
	}
}

func TestMock_RecordsPrompts(t *testing.T) {
	m := &Mock{}

	out, err := m.Complete(context.Background(), Prompt{User: "echo me"})
	require.NoError(t, err)
	assert.Equal(t, "echo me", out)

	m.Reply = func(p Prompt) (string, error) { return "fixed", nil }
	out, err = m.Complete(context.Background(), Prompt{User: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, "fixed", out)

	assert.Len(t, m.Prompts(), 2)
}
