package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"twitch-giveaway-backend/internal/common/logger"
	"twitch-giveaway-backend/internal/common/metrics"
	"twitch-giveaway-backend/internal/features/settings/models"
)

// BotSender speaks in a broadcaster's chat as the bot account.
type BotSender interface {
	Send(ctx context.Context, broadcasterID, message string) error
}

// BroadcasterSender speaks in a broadcaster's chat with their own token.
type BroadcasterSender interface {
	Send(ctx context.Context, broadcasterID, accessToken, message string) error
}

// WinnerAnnouncer tries the bot identity first and falls back to the
// broadcaster's own identity.
type WinnerAnnouncer struct {
	bot         BotSender
	broadcaster BroadcasterSender
	logger      zerolog.Logger
}

// NewWinnerAnnouncer returns an announcer; either sender may be nil.
func NewWinnerAnnouncer(bot BotSender, broadcaster BroadcasterSender) *WinnerAnnouncer {
	return &WinnerAnnouncer{
		bot:         bot,
		broadcaster: broadcaster,
		logger:      logger.Component("announcer"),
	}
}

func (a *WinnerAnnouncer) Announce(ctx context.Context, profile *models.Profile, message string) error {
	var botErr error
	if a.bot != nil {
		botErr = a.bot.Send(ctx, profile.BroadcasterID, message)
		metrics.Announcements.WithLabelValues("bot", metrics.Result(botErr)).Inc()
		if botErr == nil {
			return nil
		}
		a.logger.Warn().Err(botErr).
			Str("broadcaster_id", profile.BroadcasterID).
			Msg("Bot announcement failed, falling back to broadcaster identity")
	}

	if a.broadcaster == nil || profile.AccessToken == "" {
		if botErr != nil {
			return botErr
		}
		return ErrNoAnnouncer
	}

	err := a.broadcaster.Send(ctx, profile.BroadcasterID, profile.AccessToken, message)
	metrics.Announcements.WithLabelValues("broadcaster", metrics.Result(err)).Inc()
	if err != nil {
		return errors.Join(botErr, err)
	}
	return nil
}

// RenderWinnerMessage fills {user}/{winner} in template, or falls back to a
// plain winner line when the template names neither.
func RenderWinnerMessage(template, username string) string {
	if !strings.Contains(template, "{user}") && !strings.Contains(template, "{winner}") {
		return fmt.Sprintf("🎉 Winner is @%s!", username)
	}
	return strings.NewReplacer("{user}", username, "{winner}", username).Replace(template)
}
