package config

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

const (
	defaultPath           = "config.yaml"
	defaultHTTPAddr       = ":8080"
	defaultMCPAddr        = ":8081"
	defaultMaxInputLength = 4000
	defaultMaxSessions    = 10000
	defaultSessionTTL     = 24 * time.Hour

	WorkflowGraph = "graph"
	WorkflowStub  = "stub"

	ProviderLangChain = "langchain"
	ProviderOpenAI    = "openai"
)

type Config struct {
	Log          Log          `yaml:"log"`
	HTTP         HTTP         `yaml:"http"`
	MCP          MCP          `yaml:"mcp"`
	Workflow     Workflow     `yaml:"workflow"`
	OpenAI       OpenAI       `yaml:"openai" validate:"-"`
	Conversation Conversation `yaml:"conversation"`
}

type HTTP struct {
	// Listen address of the chat UI
	Addr string `yaml:"addr" example:":8080" validate:"required"`
}

type MCP struct {
	// Expose chat tools over MCP (SSE transport)
	Enabled bool `yaml:"enabled" example:"false"`
	// Listen address of the MCP SSE server
	Addr string `yaml:"addr" example:":8081" validate:"required_if=Enabled true"`
	// Public base URL announced to MCP clients
	BaseURL string `yaml:"base_url" example:"http://localhost:8081"`
}

type Workflow struct {
	// Workflow implementation: graph (LLM backed) or stub (offline echo)
	Kind string `yaml:"kind" example:"graph" validate:"oneof=graph stub"`
	// Stub only: ignore keywords and strictly alternate emotional/logical
	Alternate bool `yaml:"alternate" example:"false"`
}

type OpenAI struct {
	Classifier ModelConfig `yaml:"classifier"`
	Emotional  ModelConfig `yaml:"emotional"`
	Logical    ModelConfig `yaml:"logical"`
}

type ModelConfig struct {
	// Client backend: langchain or openai
	Provider string `yaml:"provider" example:"langchain" validate:"omitempty,oneof=langchain openai"`
	// OpenAI base url
	BaseURL string `yaml:"base_url" example:"https://openrouter.ai/api/v1" validate:"required"`
	// OpenAI token
	Token string `yaml:"token" example:"sk-proj-abc123456789DEF789ghi012JKL345mno678PQR901stu234VWX" validate:"required"`
	// OpenAI model
	Model string `yaml:"model" example:"deepseek/deepseek-chat-v3-0324:free" validate:"required"`
}

type Conversation struct {
	// Maximum accepted user message length, in runes
	MaxInputLength int `yaml:"max_input_length" example:"4000" validate:"gte=1"`
	// Per-turn workflow timeout, 0 disables it
	TurnTimeout time.Duration `yaml:"turn_timeout" example:"60s" validate:"gte=0"`
	// Maximum number of sessions kept in memory, least recently used are dropped first
	MaxSessions int `yaml:"max_sessions" example:"10000" validate:"gte=0"`
	// Sessions idle for longer than this are dropped
	SessionTTL time.Duration `yaml:"session_ttl" example:"24h" validate:"gte=0"`
}

type Log struct {
	// Minimum console log level: debug, info, warn or error
	Level string `yaml:"level" example:"info" validate:"omitempty,oneof=debug info warn error"`
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

// Path returns the config file location, DUALMODE_CONFIG overrides the default.
func Path() string {
	if p := os.Getenv("DUALMODE_CONFIG"); p != "" {
		return p
	}

	return defaultPath
}

func Load() (*Config, error) {
	return LoadFile(Path())
}

func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var result Config

	if err := yaml.Unmarshal(data, &result); err != nil {
		return nil, oops.Errorf("failed to parse YAML config: %w", err)
	}

	result.applyDefaults()

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	if result.Workflow.Kind == WorkflowGraph {
		for name, model := range result.OpenAI.models() {
			if err := validate.Struct(model); err != nil {
				return nil, oops.Errorf("failed to validate openai.%s: %w", name, err)
			}
		}
	}

	return &result, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = defaultHTTPAddr
	}
	if c.MCP.Addr == "" {
		c.MCP.Addr = defaultMCPAddr
	}
	if c.Workflow.Kind == "" {
		c.Workflow.Kind = WorkflowStub
	}
	if c.Conversation.MaxInputLength == 0 {
		c.Conversation.MaxInputLength = defaultMaxInputLength
	}
	if c.Conversation.MaxSessions == 0 {
		c.Conversation.MaxSessions = defaultMaxSessions
	}
	if c.Conversation.SessionTTL == 0 {
		c.Conversation.SessionTTL = defaultSessionTTL
	}

	for _, model := range []*ModelConfig{&c.OpenAI.Classifier, &c.OpenAI.Emotional, &c.OpenAI.Logical} {
		if model.Provider == "" {
			model.Provider = ProviderLangChain
		}
	}
}

func (o OpenAI) models() map[string]ModelConfig {
	return map[string]ModelConfig{
		"classifier": o.Classifier,
		"emotional":  o.Emotional,
		"logical":    o.Logical,
	}
}
