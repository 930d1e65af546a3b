package mcpserver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dualmode/app/config"
	"dualmode/app/service/conversation"

	"github.com/mark3labs/mcp-go/server"
	"github.com/samber/do"
)

const (
	serverName       = "dualmode"
	serverVersion    = "1.0.0"
	defaultSessionID = "mcp"
	shutdownTimeout  = 5 * time.Second
)

// Service exposes the chat over MCP tools.
type Service struct {
	cfg             *config.Config
	conversationSvc *conversation.Service
	mcpServer       *server.MCPServer
	sseServer       *server.SSEServer
}

func New(di *do.Injector) (*Service, error) {
	return NewService(
		do.MustInvoke[*config.Config](di),
		do.MustInvoke[*conversation.Service](di),
	), nil
}

func NewService(cfg *config.Config, conversationSvc *conversation.Service) *Service {
	s := &Service{
		cfg:             cfg,
		conversationSvc: conversationSvc,
		mcpServer: server.NewMCPServer(serverName, serverVersion,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
	}
	s.registerTools()

	baseURL := cfg.MCP.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost" + cfg.MCP.Addr
	}
	s.sseServer = server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	return s
}

// MCPServer returns the underlying tool server, mainly for in-process clients.
func (s *Service) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// Run serves SSE until ctx is cancelled, then shuts the server down.
func (s *Service) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		slog.Info("MCP server listening (SSE)", "addr", s.cfg.MCP.Addr)
		errCh <- s.sseServer.Start(s.cfg.MCP.Addr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("mcp server: %w", err)
	case <-ctx.Done():
		return s.shutdown()
	}
}

func (s *Service) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.sseServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("could not stop mcp server gracefully: %w", err)
	}

	return nil
}
