package conversation

import (
	"dualmode/app/service/workflow"
)

// Classification is the closed set of badges the UI can show for a turn.
type Classification int

const (
	ClassificationUnknown Classification = iota
	ClassificationEmotional
	ClassificationLogical
)

// ParseClassification maps a workflow tag onto the closed set; anything unrecognised is Unknown.
func ParseClassification(t workflow.MessageType) Classification {
	switch t {
	case workflow.MessageTypeEmotional:
		return ClassificationEmotional
	case workflow.MessageTypeLogical:
		return ClassificationLogical
	default:
		return ClassificationUnknown
	}
}

func (c Classification) String() string {
	switch c {
	case ClassificationEmotional:
		return "emotional"
	case ClassificationLogical:
		return "logical"
	default:
		return "unknown"
	}
}

func (c Classification) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Classification) UnmarshalText(text []byte) error {
	*c = ParseClassification(workflow.MessageType(text))
	return nil
}

type TranscriptEntry struct {
	Role    workflow.Role `json:"role"`
	Content string        `json:"content"`
}

type TurnResult struct {
	Reply          string           `json:"reply"`
	Classification Classification   `json:"classification"`
	Phases         []workflow.Phase `json:"phases"`
}

// Snapshot is a detached copy of a session, safe to hand to renderers.
type Snapshot struct {
	ID                  string            `json:"id"`
	Transcript          []TranscriptEntry `json:"transcript"`
	State               workflow.State    `json:"state"`
	ConversationStarted bool              `json:"conversation_started"`
	// HasClassification is false until the first successful turn after a reset.
	HasClassification  bool             `json:"has_classification"`
	LastClassification Classification   `json:"last_classification"`
	LastTurn           []workflow.Phase `json:"last_turn,omitempty"`
	Busy               bool             `json:"busy"`
}
