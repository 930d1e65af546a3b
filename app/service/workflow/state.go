package workflow

import "maps"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// MessageType is the tag a workflow attaches to the latest turn.
// Workflows may return values outside the known set.
type MessageType string

const (
	MessageTypeUnset     MessageType = ""
	MessageTypeEmotional MessageType = "emotional"
	MessageTypeLogical   MessageType = "logical"
)

type Message struct {
	Role     Role              `json:"role"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// State is the value passed into and returned from a workflow invocation.
type State struct {
	Messages    []Message   `json:"messages"`
	MessageType MessageType `json:"message_type,omitempty"`
}

// Clone returns a deep copy, so neither side of an invocation can alias the other's memory.
func (s State) Clone() State {
	out := State{MessageType: s.MessageType}
	if s.Messages == nil {
		return out
	}

	out.Messages = make([]Message, len(s.Messages))
	for i, m := range s.Messages {
		m.Metadata = maps.Clone(m.Metadata)
		out.Messages[i] = m
	}

	return out
}

// Append returns a copy of s with msg added at the end.
func (s State) Append(msg Message) State {
	out := s.Clone()
	out.Messages = append(out.Messages, msg)
	return out
}

// Last returns the final message, ok is false for an empty state.
func (s State) Last() (Message, bool) {
	if len(s.Messages) == 0 {
		return Message{}, false
	}

	return s.Messages[len(s.Messages)-1], true
}
