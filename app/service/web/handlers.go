package web

import (
	"bytes"
	"errors"
	"log/slog"

	"dualmode/app/service/conversation"
	"dualmode/app/service/view"
	"dualmode/app/service/workflow"

	"github.com/gofiber/fiber/v2"
)

type turnRequest struct {
	Text string `json:"text" validate:"required"`
}

type turnResponse struct {
	Reply          string                      `json:"reply"`
	Classification conversation.Classification `json:"classification"`
	Phases         []workflow.Phase            `json:"phases"`
}

type errorResponse struct {
	Error  string           `json:"error"`
	Phases []workflow.Phase `json:"phases,omitempty"`
}

func (s *Service) handleIndex(c *fiber.Ctx) error {
	return s.renderPage(c, fiber.StatusOK, s.conversationSvc.Snapshot(sessionID(c)), "")
}

func (s *Service) handleChat(c *fiber.Ctx) error {
	sess := s.conversationSvc.Session(sessionID(c))

	_, err := s.conversationSvc.ProcessTurn(c.UserContext(), sess, c.FormValue("message"), nil)
	if err != nil {
		return s.renderPage(c, statusFor(err), sess.Snapshot(), conversation.Notice(err))
	}

	return s.renderPage(c, fiber.StatusOK, sess.Snapshot(), "")
}

func (s *Service) handleReset(c *fiber.Ctx) error {
	s.resetSession(sessionID(c))
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (s *Service) handleGetSession(c *fiber.Ctx) error {
	return c.JSON(s.conversationSvc.Snapshot(sessionID(c)))
}

func (s *Service) handleCreateTurn(c *fiber.Ctx) error {
	var req turnRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := s.validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, conversation.Notice(conversation.ErrEmptyInput))
	}

	sess := s.conversationSvc.Session(sessionID(c))

	res, err := s.conversationSvc.ProcessTurn(c.UserContext(), sess, req.Text, nil)
	if err != nil {
		return c.Status(statusFor(err)).JSON(errorResponse{
			Error:  conversation.Notice(err),
			Phases: res.Phases,
		})
	}

	return c.JSON(turnResponse{
		Reply:          res.Reply,
		Classification: res.Classification,
		Phases:         res.Phases,
	})
}

func (s *Service) handleAPIReset(c *fiber.Ctx) error {
	return c.JSON(s.resetSession(sessionID(c)))
}

// resetSession clears a known session; unknown ids are already empty.
func (s *Service) resetSession(id string) conversation.Snapshot {
	if sess, ok := s.conversationSvc.Store().Lookup(id); ok {
		return s.conversationSvc.Reset(sess)
	}

	return s.conversationSvc.Snapshot(id)
}

func (s *Service) renderPage(c *fiber.Ctx, status int, snap conversation.Snapshot, notice string) error {
	var buf bytes.Buffer
	if err := view.Render(&buf, view.Build(snap, notice)); err != nil {
		slog.Error("Failed to render page", "session_id", snap.ID, "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to render page")
	}

	c.Type("html", "utf-8")
	return c.Status(status).Send(buf.Bytes())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, conversation.ErrEmptyInput), errors.Is(err, conversation.ErrInputTooLong):
		return fiber.StatusBadRequest
	case errors.Is(err, conversation.ErrTurnInProgress), errors.Is(err, conversation.ErrSessionReset):
		return fiber.StatusConflict
	default:
		return fiber.StatusBadGateway
	}
}
