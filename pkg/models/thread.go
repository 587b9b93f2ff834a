package models

// Thread is one conversational unit: exactly one root message followed by
// zero or more replies, ordered by ts ascending. The root's ts is the
// thread's identity.
type Thread struct {
	Root    Message
	Replies []Message
}

// Messages returns the root followed by the replies.
func (t Thread) Messages() []Message {
	out := make([]Message, 0, 1+len(t.Replies))
	out = append(out, t.Root)
	out = append(out, t.Replies...)
	return out
}

// ParticipantIDs returns the set of distinct author identifiers across the
// root and all replies, in first-seen order.
func (t Thread) ParticipantIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, m := range t.Messages() {
		id := m.Author()
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}
