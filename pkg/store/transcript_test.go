package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAppendAndRemoveProvisional(t *testing.T) {
	tr := &Transcript{SessionID: "s1", UserID: "u1"}

	tr.ReplaceDurable([]Entry{
		{MessageID: "m1", Role: "user", Content: "hello", CreatedAt: time.Now()},
		{MessageID: "m2", Role: "assistant", Content: "hi", CreatedAt: time.Now()},
	})

	tr.AppendProvisional(Entry{MessageID: "tag-1", Role: "user", Content: "pending"})
	assert.Len(t, tr.Entries, 3)
	assert.True(t, tr.Provisional())
	assert.Equal(t, EntryProvisional, tr.Entries[2].Kind)

	// Rollback: the optimistic entry disappears, durable history stays.
	tr.RemoveProvisional("tag-1")
	assert.Len(t, tr.Entries, 2)
	assert.False(t, tr.Provisional())
	for _, e := range tr.Entries {
		assert.Equal(t, EntryDurable, e.Kind)
	}
}

func TestRemoveProvisional_NeverTouchesDurable(t *testing.T) {
	tr := &Transcript{}
	tr.ReplaceDurable([]Entry{{MessageID: "m1", Role: "user", Content: "kept"}})

	// Same id as a durable row must not remove it.
	tr.RemoveProvisional("m1")
	assert.Len(t, tr.Entries, 1)
}

func TestReplaceDurable_DiscardsProvisional(t *testing.T) {
	tr := &Transcript{}
	tr.AppendProvisional(Entry{MessageID: "tag-1", Role: "user", Content: "optimistic"})
	assert.True(t, tr.Provisional())

	// After reconcile the durable rows are the whole truth.
	tr.ReplaceDurable([]Entry{
		{MessageID: "m1", Role: "user", Content: "optimistic"},
		{MessageID: "m2", Role: "assistant", Content: "reply"},
	})
	assert.Len(t, tr.Entries, 2)
	assert.False(t, tr.Provisional())
	assert.Equal(t, EntryDurable, tr.Entries[0].Kind)
	assert.Equal(t, EntryDurable, tr.Entries[1].Kind)
}
