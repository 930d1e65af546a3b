package view

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"dualmode/app/service/conversation"
	"dualmode/app/service/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_WelcomeOnlyBeforeFirstTurn(t *testing.T) {
	page := Build(conversation.Snapshot{}, "")
	assert.NotEmpty(t, page.Welcome)
	assert.Contains(t, string(page.Welcome), "<strong>Hello!</strong>")
	assert.Empty(t, page.Entries)
	assert.Nil(t, page.Badge)
	assert.Empty(t, page.Progress)

	page = Build(conversation.Snapshot{ConversationStarted: true}, "")
	assert.Empty(t, page.Welcome)
}

func TestBuild_FromRealSession(t *testing.T) {
	svc := conversation.NewService(workflow.Stub{Alternate: true}, 1000, 0)
	sess := svc.Session("s1")

	_, err := svc.ProcessTurn(context.Background(), sess, "I'm feeling anxious", nil)
	require.NoError(t, err)

	page := Build(sess.Snapshot(), "")
	assert.Empty(t, page.Welcome)

	require.Len(t, page.Entries, 2)
	assert.Equal(t, workflow.RoleUser, page.Entries[0].Role)
	assert.Equal(t, "👤", page.Entries[0].Avatar)
	assert.Equal(t, workflow.RoleAssistant, page.Entries[1].Role)
	assert.Equal(t, "🤖", page.Entries[1].Avatar)
	assert.Contains(t, string(page.Entries[1].HTML), "feeling anxious")

	require.NotNil(t, page.Badge)
	assert.Equal(t, "Emotional Support", page.Badge.Label)
	assert.Equal(t, "💚", page.Badge.Icon)

	require.Len(t, page.Progress, 3)
	assert.Equal(t, "Classifying message type...", page.Progress[0].Label)
	assert.Equal(t, "Generating Emotional Support response...", page.Progress[1].Label)
	assert.Equal(t, "Response ready!", page.Progress[2].Label)

	svc.Reset(sess)
	page = Build(sess.Snapshot(), "")
	assert.NotEmpty(t, page.Welcome)
	assert.Empty(t, page.Entries)
	assert.Nil(t, page.Badge)
}

func TestBuild_FailedTurn(t *testing.T) {
	snap := conversation.Snapshot{
		ConversationStarted: true,
		Transcript:          []conversation.TranscriptEntry{{Role: workflow.RoleUser, Content: "hello"}},
		LastTurn:            []workflow.Phase{workflow.PhaseClassifying, workflow.PhaseFailed},
	}

	page := Build(snap, conversation.FailureNotice)
	assert.Equal(t, conversation.FailureNotice, page.Notice)
	require.Len(t, page.Progress, 2)
	assert.Equal(t, StepFailed, page.Progress[1].State)
	assert.Len(t, page.Entries, 1)
}

func TestBadgeFor(t *testing.T) {
	assert.Equal(t, "Emotional Support", BadgeFor(conversation.ClassificationEmotional).Label)
	assert.Equal(t, "Logical Information", BadgeFor(conversation.ClassificationLogical).Label)
	assert.Equal(t, "Unknown", BadgeFor(conversation.ClassificationUnknown).Label)
	assert.Equal(t, "unknown", BadgeFor(conversation.Classification(42)).Class)
}

func TestRenderMarkdown_DropsRawHTML(t *testing.T) {
	out := string(renderMarkdown("**bold** <script>alert(1)</script>"))
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.NotContains(t, out, "<script>")
}

func TestRender(t *testing.T) {
	snap := conversation.Snapshot{
		ConversationStarted: true,
		Transcript: []conversation.TranscriptEntry{
			{Role: workflow.RoleUser, Content: "What is Go?"},
			{Role: workflow.RoleAssistant, Content: "Go is a *programming language*."},
		},
		HasClassification:  true,
		LastClassification: conversation.ClassificationLogical,
		LastTurn:           []workflow.Phase{workflow.PhaseClassifying, workflow.PhaseGenerating, workflow.PhaseReady},
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Build(snap, "")))

	html := buf.String()
	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "What is Go?")
	assert.Contains(t, html, "<em>programming language</em>")
	assert.Contains(t, html, "Logical Information")
	assert.Contains(t, html, "Response ready!")
	assert.Contains(t, html, `action="/reset"`)
	assert.NotContains(t, html, "Hello!")
}

func TestRender_Welcome(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Build(conversation.Snapshot{}, "")))

	html := buf.String()
	assert.Contains(t, html, "Hello!")
	assert.NotContains(t, html, "Last Response Type")
}
