package twitch

import (
	"context"
	"sync"

	"golang.org/x/oauth2"
)

// BotIdentity is the bot account used for Helix chat messages. Its user id is
// looked up once and cached for the life of the process.
type BotIdentity struct {
	helix  *HelixClient
	tokens oauth2.TokenSource
	login  string

	mu sync.Mutex
	id string
}

func NewBotIdentity(helix *HelixClient, tokens oauth2.TokenSource, login string) *BotIdentity {
	return &BotIdentity{helix: helix, tokens: tokens, login: login}
}

// ID returns the bot's user id. Failed lookups are not cached.
func (b *BotIdentity) ID(ctx context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.id != "" {
		return b.id, nil
	}
	id, err := b.helix.GetUserID(ctx, b.tokens, b.login)
	if err != nil {
		return "", err
	}
	b.id = id
	return id, nil
}

// Send posts message to broadcasterID's chat as the bot.
func (b *BotIdentity) Send(ctx context.Context, broadcasterID, message string) error {
	senderID, err := b.ID(ctx)
	if err != nil {
		return err
	}
	return b.helix.SendChatMessage(ctx, b.tokens, broadcasterID, senderID, message)
}

// BroadcasterIdentity speaks as the broadcaster with their own token.
type BroadcasterIdentity struct {
	helix *HelixClient
}

func NewBroadcasterIdentity(helix *HelixClient) *BroadcasterIdentity {
	return &BroadcasterIdentity{helix: helix}
}

// Send posts message to broadcasterID's chat as the broadcaster.
func (b *BroadcasterIdentity) Send(ctx context.Context, broadcasterID, accessToken, message string) error {
	return b.helix.SendChatMessage(ctx, StaticToken(accessToken), broadcasterID, broadcasterID, message)
}
