package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, ":8081", cfg.MCP.Addr)
	assert.False(t, cfg.MCP.Enabled)
	assert.Equal(t, WorkflowStub, cfg.Workflow.Kind)
	assert.Equal(t, 4000, cfg.Conversation.MaxInputLength)
	assert.Zero(t, cfg.Conversation.TurnTimeout)
	assert.Equal(t, 10000, cfg.Conversation.MaxSessions)
	assert.Equal(t, 24*time.Hour, cfg.Conversation.SessionTTL)
	assert.Equal(t, ProviderLangChain, cfg.OpenAI.Classifier.Provider)
}

func TestParse_GraphRequiresModels(t *testing.T) {
	_, err := Parse([]byte("workflow:\n  kind: graph\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai.")
}

func TestParse_GraphWithModels(t *testing.T) {
	data := `
workflow:
  kind: graph
openai:
  classifier:
    base_url: https://api.openai.com/v1
    token: sk-classifier
    model: gpt-4o-mini
  emotional:
    provider: openai
    base_url: https://api.openai.com/v1
    token: sk-emotional
    model: gpt-4o
  logical:
    base_url: https://api.openai.com/v1
    token: sk-logical
    model: gpt-4o
conversation:
  turn_timeout: 45s
  max_input_length: 200
  max_sessions: 50
  session_ttl: 30m
`
	cfg, err := Parse([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, WorkflowGraph, cfg.Workflow.Kind)
	assert.Equal(t, ProviderOpenAI, cfg.OpenAI.Emotional.Provider)
	assert.Equal(t, ProviderLangChain, cfg.OpenAI.Logical.Provider)
	assert.Equal(t, 45*time.Second, cfg.Conversation.TurnTimeout)
	assert.Equal(t, 200, cfg.Conversation.MaxInputLength)
	assert.Equal(t, 50, cfg.Conversation.MaxSessions)
	assert.Equal(t, 30*time.Minute, cfg.Conversation.SessionTTL)
}

func TestParse_RejectsUnknownWorkflow(t *testing.T) {
	_, err := Parse([]byte("workflow:\n  kind: magic\n"))
	require.Error(t, err)
}

func TestParse_RejectsUnknownProvider(t *testing.T) {
	data := `
workflow:
  kind: graph
openai:
  classifier: {provider: bard, base_url: x, token: y, model: z}
  emotional: {base_url: x, token: y, model: z}
  logical: {base_url: x, token: y, model: z}
`
	_, err := Parse([]byte(data))
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http:\n  addr: 127.0.0.1:9000\n"), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTP.Addr)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestPath_EnvOverride(t *testing.T) {
	t.Setenv("DUALMODE_CONFIG", "/etc/dualmode.yaml")
	assert.Equal(t, "/etc/dualmode.yaml", Path())

	t.Setenv("DUALMODE_CONFIG", "")
	assert.Equal(t, "config.yaml", Path())
}

func TestParse_LogLevel(t *testing.T) {
	cfg, err := Parse([]byte("log:\n  level: warn\n"))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)

	_, err = Parse([]byte("log:\n  level: loud\n"))
	require.Error(t, err)
}

func TestLoadFile_Example(t *testing.T) {
	cfg, err := LoadFile(filepath.Join("..", "..", "config.example.yaml"))
	require.NoError(t, err)

	assert.Equal(t, WorkflowGraph, cfg.Workflow.Kind)
	assert.Equal(t, ProviderOpenAI, cfg.OpenAI.Logical.Provider)
	assert.Equal(t, 60*time.Second, cfg.Conversation.TurnTimeout)
}
