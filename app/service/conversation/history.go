package conversation

import "dualmode/app/service/workflow"

// Transcript is the displayed chat log. It only grows until reset.
type Transcript struct {
	entries []TranscriptEntry
}

func (t *Transcript) add(role workflow.Role, content string) {
	t.entries = append(t.entries, TranscriptEntry{
		Role:    role,
		Content: content,
	})
}

func (t *Transcript) reset() {
	t.entries = nil
}

func (t *Transcript) snapshot() []TranscriptEntry {
	return append([]TranscriptEntry{}, t.entries...)
}
