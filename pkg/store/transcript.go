package store

import "time"

// EntryKind tags a transcript entry as either a provisional (optimistic)
// insert awaiting confirmation, or a durable copy loaded from storage.
type EntryKind string

const (
	EntryProvisional EntryKind = "provisional"
	EntryDurable     EntryKind = "durable"
)

// Entry is one message in the visible transcript of a session.
type Entry struct {
	Kind      EntryKind `json:"kind"`
	MessageID string    `json:"message_id"` // local tag while provisional, row id once durable
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Transcript is the in-memory view of one session's conversation. The
// durable entries always come wholesale from the store; provisional
// entries are appended locally and removed on rollback or replaced on
// reconcile.
type Transcript struct {
	SessionID string  `json:"session_id"`
	UserID    string  `json:"user_id"`
	Entries   []Entry `json:"entries"`
}

// AppendProvisional adds an optimistic entry and returns its local tag.
func (t *Transcript) AppendProvisional(e Entry) {
	e.Kind = EntryProvisional
	t.Entries = append(t.Entries, e)
}

// RemoveProvisional drops the provisional entry with the given tag.
// Durable entries are never removed this way.
func (t *Transcript) RemoveProvisional(messageID string) {
	kept := t.Entries[:0]
	for _, e := range t.Entries {
		if e.Kind == EntryProvisional && e.MessageID == messageID {
			continue
		}
		kept = append(kept, e)
	}
	t.Entries = kept
}

// ReplaceDurable swaps the whole entry list for the durable set loaded
// from storage. Any provisional entries are discarded: after a
// successful exchange the durable rows include them, and after a failed
// one they must disappear.
func (t *Transcript) ReplaceDurable(entries []Entry) {
	for i := range entries {
		entries[i].Kind = EntryDurable
	}
	t.Entries = entries
}

// Provisional reports whether any provisional entry is still pending.
func (t *Transcript) Provisional() bool {
	for _, e := range t.Entries {
		if e.Kind == EntryProvisional {
			return true
		}
	}
	return false
}
