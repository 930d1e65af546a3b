package web

import (
	"context"
	"errors"
	"log/slog"

	"dualmode/app/config"
	"dualmode/app/service/conversation"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/samber/do"
)

const sessionCookie = "dualmode_session"

// Service serves the chat page and its JSON API.
type Service struct {
	cfg             *config.Config
	conversationSvc *conversation.Service
	validate        *validator.Validate
	app             *fiber.App
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
		validate:        validator.New(validator.WithRequiredStructEnabled()),
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "dualmode",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
		// request strings outlive the request in session state
		Immutable: true,
	})
	s.routes()

	return s
}

func (s *Service) routes() {
	s.app.Use(recover.New())
	s.app.Use(logMiddleware)
	s.app.Use(s.sessionMiddleware)

	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	s.app.Get("/", s.handleIndex)
	s.app.Post("/chat", s.handleChat)
	s.app.Post("/reset", s.handleReset)

	api := s.app.Group("/api")
	api.Get("/session", s.handleGetSession)
	api.Post("/turns", s.handleCreateTurn)
	api.Post("/reset", s.handleAPIReset)
}

// App exposes the underlying fiber app, mainly for tests.
func (s *Service) App() *fiber.App {
	return s.app
}

// Run listens until ctx is cancelled, then shuts the server down.
func (s *Service) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		slog.Info("HTTP server listening", "addr", s.cfg.HTTP.Addr)
		errCh <- s.app.Listen(s.cfg.HTTP.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.shutdown()
	}
}

func (s *Service) shutdown() error {
	if err := s.app.Shutdown(); err != nil {
		return err
	}

	return nil
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	if code >= fiber.StatusInternalServerError {
		slog.Error("Request failed", "path", c.Path(), "error", err)
	}

	return c.Status(code).JSON(errorResponse{Error: err.Error()})
}
