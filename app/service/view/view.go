package view

import (
	"bytes"
	"html/template"
	"log/slog"

	"dualmode/app/service/conversation"
	"dualmode/app/service/workflow"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const (
	Title       = "Dual-Mode Chatbot"
	Placeholder = "Type your message here... (e.g., 'I'm feeling anxious' or 'What is quantum computing?')"

	avatarUser      = "👤"
	avatarAssistant = "🤖"
)

const welcomeMarkdown = "👋 **Hello!** I'm your dual-mode assistant. I can provide both emotional support and logical information.  \n" +
	"Try asking me something, and I'll automatically determine the best way to respond!"

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

type Page struct {
	Title       string
	Placeholder string
	Notice      string
	Busy        bool

	Welcome  template.HTML
	Entries  []Entry
	Progress []Step
	Badge    *Badge
}

type Entry struct {
	Role   workflow.Role
	Avatar string
	HTML   template.HTML
}

type StepState string

const (
	StepDone   StepState = "done"
	StepFailed StepState = "failed"
)

type Step struct {
	Phase workflow.Phase
	Label string
	State StepState
}

type Badge struct {
	Icon  string
	Label string
	Class string
}

// Build derives the page model from a session snapshot. It has no side effects.
func Build(snap conversation.Snapshot, notice string) Page {
	page := Page{
		Title:       Title,
		Placeholder: Placeholder,
		Notice:      notice,
		Busy:        snap.Busy,
		Entries:     make([]Entry, 0, len(snap.Transcript)),
	}

	if !snap.ConversationStarted {
		page.Welcome = renderMarkdown(welcomeMarkdown)
	}

	for _, e := range snap.Transcript {
		page.Entries = append(page.Entries, Entry{
			Role:   e.Role,
			Avatar: Avatar(e.Role),
			HTML:   renderMarkdown(e.Content),
		})
	}

	page.Progress = progressSteps(snap)

	if snap.HasClassification {
		badge := BadgeFor(snap.LastClassification)
		page.Badge = &badge
	}

	return page
}

func Avatar(role workflow.Role) string {
	if role == workflow.RoleUser {
		return avatarUser
	}

	return avatarAssistant
}

func BadgeFor(c conversation.Classification) Badge {
	switch c {
	case conversation.ClassificationEmotional:
		return Badge{Icon: "💚", Label: "Emotional Support", Class: "emotional"}
	case conversation.ClassificationLogical:
		return Badge{Icon: "🔍", Label: "Logical Information", Class: "logical"}
	default:
		return Badge{Icon: "❔", Label: "Unknown", Class: "unknown"}
	}
}

func progressSteps(snap conversation.Snapshot) []Step {
	steps := make([]Step, 0, len(snap.LastTurn))

	for _, phase := range snap.LastTurn {
		step := Step{Phase: phase, State: StepDone}

		switch phase {
		case workflow.PhaseClassifying:
			step.Label = "Classifying message type..."
		case workflow.PhaseGenerating:
			step.Label = "Generating response..."
			if snap.HasClassification {
				step.Label = "Generating " + BadgeFor(snap.LastClassification).Label + " response..."
			}
		case workflow.PhaseReady:
			step.Label = "Response ready!"
		case workflow.PhaseFailed:
			step.Label = conversation.FailureNotice
			step.State = StepFailed
		default:
			step.Label = string(phase)
		}

		steps = append(steps, step)
	}

	return steps
}

func renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		slog.Warn("Failed to render markdown", "error", err)
		return template.HTML(template.HTMLEscapeString(src))
	}

	// goldmark drops raw HTML unless html.WithUnsafe is set
	return template.HTML(buf.String())
}
