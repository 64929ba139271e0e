package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesCommand(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"!join", true},
		{"!JOIN", true},
		{"  !join   me too", true},
		{"!joined", false},
		{"please !join", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesCommand("!join", tt.text))
		})
	}
}

func TestGiveaway_RecordUnique(t *testing.T) {
	g := NewGiveaway("id", CreateRequest{Channel: "#Chan", Command: "!join", Duration: 10})

	assert.Equal(t, "chan", g.Channel)
	assert.True(t, g.Record(Entry{Username: "alice"}))
	assert.False(t, g.Record(Entry{Username: "Alice"}))
	assert.False(t, g.Record(Entry{Username: ""}))
	assert.True(t, g.Record(Entry{Username: "bob", SubTier: SubTier2}))

	assert.Len(t, g.Snapshot(), 2)
}

func TestGiveaway_NoEntriesAfterConcluding(t *testing.T) {
	g := NewGiveaway("id", CreateRequest{Channel: "chan", Command: "!join", Duration: 10})
	g.Record(Entry{Username: "alice"})

	entries, ok := g.BeginConcluding()
	assert.True(t, ok)
	assert.Len(t, entries, 1)
	assert.Equal(t, GiveawayStateConcluding, g.State())

	assert.False(t, g.Record(Entry{Username: "bob"}))

	_, ok = g.BeginConcluding()
	assert.False(t, ok)

	g.MarkConcluded()
	assert.Equal(t, GiveawayStateConcluded, g.State())
}

func TestGiveaway_SnapshotIsCopy(t *testing.T) {
	g := NewGiveaway("id", CreateRequest{Channel: "chan", Command: "!join", Duration: 10})
	g.Record(Entry{Username: "alice"})

	snap := g.Snapshot()
	snap[0].Username = "mallory"

	assert.Equal(t, "alice", g.Snapshot()[0].Username)
}
