package service

import (
	"context"

	"twitch-giveaway-backend/internal/features/giveaway/models"
)

// ChatClient is the chat transport the collector listens and speaks on.
type ChatClient interface {
	// Join blocks until the server confirms the join or ctx is done.
	Join(ctx context.Context, channel string) error
	Say(channel, message string)
	// Subscribe delivers every non-self message in channel to fn until the
	// returned function is called.
	Subscribe(channel string, fn func(models.ChatMessage)) (unsubscribe func())
}

// Announcer posts the opening announcement.
type Announcer interface {
	Announce(ctx context.Context, broadcasterID, channel, message string) error
}

// WebhookSender delivers the conclusion payload.
type WebhookSender interface {
	Send(ctx context.Context, url string, payload models.EndedPayload) error
}
