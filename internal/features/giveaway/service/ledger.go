package service

import (
	"twitch-giveaway-backend/internal/common/metrics"
	"twitch-giveaway-backend/internal/features/giveaway/models"
)

// RecordAttempt adds the sender of msg to giveaway id when the message is the
// trigger command, the giveaway is OPEN and the user has not entered yet.
func (s *GiveawayService) RecordAttempt(id string, msg models.ChatMessage) bool {
	g, ok := s.registry.Get(id)
	if !ok {
		return false
	}
	if !models.MatchesCommand(g.Command, msg.Text) {
		return false
	}

	added := g.Record(models.Entry{
		Username: msg.Username,
		Badges:   msg.Badges,
		SubTier:  msg.SubTier,
	})
	if added {
		metrics.EntriesRecorded.Inc()
		s.logger.Debug().
			Str("giveaway_id", id).
			Str("username", msg.Username).
			Msg("Entry recorded")
	}
	return added
}

// Snapshot returns the entries of an open giveaway.
func (s *GiveawayService) Snapshot(id string) ([]models.Entry, error) {
	g, ok := s.registry.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return g.Snapshot(), nil
}
