package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"dualmode/app/service/conversation"

	"github.com/mark3labs/mcp-go/mcp"
)

type sendResponse struct {
	SessionID      string                      `json:"session_id"`
	Reply          string                      `json:"reply"`
	Classification conversation.Classification `json:"classification"`
}

type transcriptResponse struct {
	SessionID  string                         `json:"session_id"`
	Transcript []conversation.TranscriptEntry `json:"transcript"`
}

func (s *Service) registerTools() {
	sessionArg := mcp.WithString("session_id",
		mcp.Description("Conversation id; defaults to \""+defaultSessionID+"\""))

	s.mcpServer.AddTool(mcp.NewTool("chat_send",
		mcp.WithDescription("Send a message to the chatbot. It answers empathetically or factually depending on the message."),
		mcp.WithString("text", mcp.Required(), mcp.Description("User message")),
		sessionArg,
	), s.handleSend)

	s.mcpServer.AddTool(mcp.NewTool("chat_reset",
		mcp.WithDescription("Clear the conversation history."),
		sessionArg,
	), s.handleReset)

	s.mcpServer.AddTool(mcp.NewTool("chat_transcript",
		mcp.WithDescription("Get the conversation transcript as JSON."),
		sessionArg,
	), s.handleTranscript)
}

func sessionIDFrom(request mcp.CallToolRequest) string {
	return request.GetString("session_id", defaultSessionID)
}

func (s *Service) handleSend(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sessionID := sessionIDFrom(request)
	sess := s.conversationSvc.Session(sessionID)

	result, err := s.conversationSvc.ProcessTurn(ctx, sess, text, nil)
	if err != nil {
		return mcp.NewToolResultError(conversation.Notice(err)), nil
	}

	return jsonResult(sendResponse{
		SessionID:      sessionID,
		Reply:          result.Reply,
		Classification: result.Classification,
	})
}

func (s *Service) handleReset(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := sessionIDFrom(request)

	if sess, ok := s.conversationSvc.Store().Lookup(sessionID); ok {
		s.conversationSvc.Reset(sess)
	}

	return mcp.NewToolResultText("conversation reset"), nil
}

func (s *Service) handleTranscript(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := sessionIDFrom(request)

	resp := transcriptResponse{
		SessionID:  sessionID,
		Transcript: []conversation.TranscriptEntry{},
	}
	if sess, ok := s.conversationSvc.Store().Lookup(sessionID); ok {
		if entries := sess.Snapshot().Transcript; len(entries) > 0 {
			resp.Transcript = entries
		}
	}

	return jsonResult(resp)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return mcp.NewToolResultText(string(data)), nil
}
