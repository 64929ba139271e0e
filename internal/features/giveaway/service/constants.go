package service

import "time"

const (
	// DefaultStatusInterval is how often the entry count is broadcast while a giveaway is open.
	DefaultStatusInterval = 30 * time.Second
	// DefaultJoinTimeout bounds the wait for the chat server to confirm a join.
	DefaultJoinTimeout = 10 * time.Second

	reasonExpired    = "expired"
	reasonEndedEarly = "ended_early"
)

const (
	openingMessage = "🎉 Giveaway for %s started! Type %s to enter!"
	statusMessage  = "📢 There are currently %d entries! Type %s to join!"
	winnerMessage  = "🏆 Winner is @%s!"
	noEntryMessage = "No one entered the giveaway :("
)
