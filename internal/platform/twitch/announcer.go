package twitch

import (
	"context"

	"twitch-giveaway-backend/internal/common/metrics"
)

// Sayer sends plain IRC chat lines.
type Sayer interface {
	Say(channel, message string)
}

// ChatAnnouncer posts announcements through the bot's Helix identity and
// falls back to IRC when Helix is not configured or the broadcaster id is unknown.
type ChatAnnouncer struct {
	bot  *BotIdentity
	chat Sayer
}

// NewChatAnnouncer returns an announcer; bot may be nil.
func NewChatAnnouncer(bot *BotIdentity, chat Sayer) *ChatAnnouncer {
	return &ChatAnnouncer{bot: bot, chat: chat}
}

func (a *ChatAnnouncer) Announce(ctx context.Context, broadcasterID, channel, message string) error {
	if a.bot == nil || broadcasterID == "" {
		a.chat.Say(channel, message)
		metrics.Announcements.WithLabelValues("irc", "success").Inc()
		return nil
	}

	err := a.bot.Send(ctx, broadcasterID, message)
	metrics.Announcements.WithLabelValues("bot", metrics.Result(err)).Inc()
	return err
}
