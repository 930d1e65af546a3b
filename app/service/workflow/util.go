package workflow

import (
	"fmt"
	"strings"
	"time"

	"dualmode/app/client/llm"
)

const (
	maxReasonDuration  = 30 * time.Second
	messageHistorySize = 20
	maxReplyTokens     = 1000
)

func recentHistory(messages []Message) []Message {
	if len(messages) > messageHistorySize {
		return messages[len(messages)-messageHistorySize:]
	}

	return messages
}

func formatHistory(messages []Message) string {
	if len(messages) == 0 {
		return "No recent messages"
	}

	var builder strings.Builder

	for _, msg := range messages {
		builder.WriteString(fmt.Sprintf("%s: %s\n", msg.Role, msg.Content))
	}

	return builder.String()
}

func toPromptHistory(messages []Message) []llm.Message {
	result := make([]llm.Message, 0, len(messages))
	for _, msg := range messages {
		result = append(result, llm.Message{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	return result
}

// trimJSON strips markdown code fences models like to wrap JSON in.
func trimJSON(result string) string {
	result = strings.TrimSpace(result)
	result = strings.Trim(result, "`")
	result = strings.TrimSpace(result)
	result = strings.TrimPrefix(result, "json")
	return strings.TrimSpace(result)
}
