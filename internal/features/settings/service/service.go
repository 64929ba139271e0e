package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"twitch-giveaway-backend/internal/common/logger"
	"twitch-giveaway-backend/internal/common/metrics"
	"twitch-giveaway-backend/internal/common/validation"
	"twitch-giveaway-backend/internal/features/settings/collector"
	"twitch-giveaway-backend/internal/features/settings/models"
	"twitch-giveaway-backend/internal/features/settings/repository"
)

// CollectorClient is the orchestrator's view of the entry collector.
type CollectorClient interface {
	Create(ctx context.Context, req collector.CreateRequest) (string, error)
	End(ctx context.Context, id string) error
}

// Announcer posts the winner line to the broadcaster's chat.
type Announcer interface {
	Announce(ctx context.Context, profile *models.Profile, message string) error
}

// SettingsService owns broadcaster profiles and reconciles them with the
// collector: it starts giveaways, and on the conclusion webhook either
// restarts the loop or draws and announces the weighted winner.
type SettingsService struct {
	repo       repository.ProfileRepository
	collector  CollectorClient
	announcer  Announcer
	lottery    *Lottery
	webhookURL string
	locks      *keyedMutex
	logger     zerolog.Logger
}

func NewSettingsService(
	repo repository.ProfileRepository,
	collector CollectorClient,
	announcer Announcer,
	lottery *Lottery,
	webhookURL string,
) *SettingsService {
	return &SettingsService{
		repo:       repo,
		collector:  collector,
		announcer:  announcer,
		lottery:    lottery,
		webhookURL: webhookURL,
		locks:      newKeyedMutex(),
		logger:     logger.Component("orchestrator"),
	}
}

// RegisterIdentity records the broadcaster's channel login and access token.
func (s *SettingsService) RegisterIdentity(ctx context.Context, broadcasterID string, req models.IdentityRequest) (*models.Profile, error) {
	name := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(req.BroadcasterName), "#"))
	if err := validation.ValidateChannel(name); err != nil {
		return nil, fmt.Errorf("%w: broadcaster_name: %v", ErrInvalidInput, err)
	}

	unlock := s.locks.Lock(broadcasterID)
	defer unlock()

	return s.repo.Upsert(ctx, broadcasterID, func(p *models.Profile) error {
		p.BroadcasterName = strings.TrimSpace(req.BroadcasterName)
		if req.AccessToken != "" {
			p.AccessToken = req.AccessToken
		}
		return nil
	})
}

// GetWeights returns the saved weight table or the defaults.
func (s *SettingsService) GetWeights(ctx context.Context, broadcasterID string) (models.Weights, error) {
	p, err := s.repo.Get(ctx, broadcasterID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return models.DefaultWeights(), nil
	}
	if err != nil {
		return nil, err
	}
	return p.EffectiveWeights(), nil
}

// SaveWeights replaces the weight table.
func (s *SettingsService) SaveWeights(ctx context.Context, broadcasterID string, weights models.Weights) error {
	for category, v := range weights {
		if err := validation.ValidateWeight(category, v); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	unlock := s.locks.Lock(broadcasterID)
	defer unlock()

	_, err := s.repo.Upsert(ctx, broadcasterID, func(p *models.Profile) error {
		p.Weights = weights
		return nil
	})
	return err
}

// Start persists the requested configuration, opens a giveaway at the
// collector and records the returned id as active.
func (s *SettingsService) Start(ctx context.Context, broadcasterID string, req models.StartRequest) (string, error) {
	req.Command = strings.TrimSpace(req.Command)
	if err := validateStart(req); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	unlock := s.locks.Lock(broadcasterID)
	defer unlock()

	profile, err := s.repo.Upsert(ctx, broadcasterID, func(p *models.Profile) error {
		p.IsLooping = req.IsLooping
		p.CurrentPrize = req.Prize
		p.CurrentCommand = req.Command
		p.CurrentDuration = req.Duration
		p.CurrentMessage = req.Message
		if req.Channel != "" {
			p.BroadcasterName = strings.TrimPrefix(strings.TrimSpace(req.Channel), "#")
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if profile.Channel() == "" {
		return "", ErrNoChannel
	}

	id, err := s.collector.Create(ctx, collector.CreateRequest{
		Channel:       profile.Channel(),
		Command:       req.Command,
		Duration:      req.Duration,
		WebhookURL:    s.webhookURL,
		BroadcasterID: broadcasterID,
		Prize:         req.Prize,
		IsLooping:     req.IsLooping,
	})
	if err != nil {
		return "", err
	}

	if err := s.setActive(ctx, broadcasterID, &id); err != nil {
		return "", err
	}

	s.logger.Info().
		Str("broadcaster_id", broadcasterID).
		Str("giveaway_id", id).
		Bool("is_looping", req.IsLooping).
		Msg("Giveaway started")
	return id, nil
}

// End asks the collector to conclude giveawayID, or the active giveaway when empty.
func (s *SettingsService) End(ctx context.Context, broadcasterID, giveawayID string) error {
	unlock := s.locks.Lock(broadcasterID)
	defer unlock()

	if giveawayID == "" {
		p, err := s.repo.Get(ctx, broadcasterID)
		if err != nil {
			return err
		}
		giveawayID = p.ActiveID()
		if giveawayID == "" {
			return ErrNoActiveGiveaway
		}
	}

	return s.collector.End(ctx, giveawayID)
}

// Status returns the active giveaway id, nil when none.
func (s *SettingsService) Status(ctx context.Context, broadcasterID string) (*string, error) {
	p, err := s.repo.Get(ctx, broadcasterID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p.ActiveGiveawayID, nil
}

// StopLoop turns looping off; the running giveaway concludes normally.
func (s *SettingsService) StopLoop(ctx context.Context, broadcasterID string) error {
	unlock := s.locks.Lock(broadcasterID)
	defer unlock()

	_, err := s.repo.Update(ctx, broadcasterID, func(p *models.Profile) error {
		p.IsLooping = false
		return nil
	})
	return err
}

// HandleGiveawayEnded reconciles a conclusion report from the collector.
// Announcement and loop restart failures are logged only.
func (s *SettingsService) HandleGiveawayEnded(ctx context.Context, event models.GiveawayEndedEvent) error {
	unlock := s.locks.Lock(event.BroadcasterID)
	defer unlock()

	log := s.logger.With().
		Str("broadcaster_id", event.BroadcasterID).
		Str("giveaway_id", event.GiveawayID).
		Int("entries", len(event.Entries)).
		Logger()

	profile, err := s.repo.Get(ctx, event.BroadcasterID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		log.Info().Msg("Webhook for unknown broadcaster ignored")
		return nil
	}
	if err != nil {
		return err
	}

	if profile.IsLooping {
		s.restartLoop(ctx, profile, log)
		return nil
	}

	if err := s.setActive(ctx, event.BroadcasterID, nil); err != nil {
		return err
	}

	if len(event.Entries) == 0 {
		log.Info().Msg("Giveaway ended without entries")
		return nil
	}

	winner, err := s.lottery.Draw(event.Entries, profile.EffectiveWeights())
	if err != nil {
		log.Error().Err(err).Msg("Lottery draw failed")
		return nil
	}
	if winner == nil {
		log.Info().Msg("No eligible entrant after weighting")
		return nil
	}

	log.Info().Str("winner", winner.Username).Str("category", Category(*winner)).Msg("Winner drawn")

	msg := RenderWinnerMessage(profile.CurrentMessage, winner.Username)
	if err := s.announcer.Announce(ctx, profile, msg); err != nil {
		log.Error().Err(err).Str("winner", winner.Username).Msg("Failed to announce winner")
	}
	return nil
}

// restartLoop re-opens the giveaway with the saved parameters. On failure
// the loop stops until an operator starts it again.
func (s *SettingsService) restartLoop(ctx context.Context, profile *models.Profile, log zerolog.Logger) {
	prize, command, duration, _ := profile.LoopParams()

	id, err := s.collector.Create(ctx, collector.CreateRequest{
		Channel:       profile.Channel(),
		Command:       command,
		Duration:      duration,
		WebhookURL:    s.webhookURL,
		BroadcasterID: profile.BroadcasterID,
		Prize:         prize,
		IsLooping:     true,
	})
	metrics.LoopRestarts.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		log.Error().Err(err).Msg("Failed to restart looping giveaway")
		return
	}

	if err := s.setActive(ctx, profile.BroadcasterID, &id); err != nil {
		log.Error().Err(err).Str("new_giveaway_id", id).Msg("Failed to record restarted giveaway")
		return
	}
	log.Info().Str("new_giveaway_id", id).Msg("Looping giveaway restarted")
}

func (s *SettingsService) setActive(ctx context.Context, broadcasterID string, id *string) error {
	_, err := s.repo.Update(ctx, broadcasterID, func(p *models.Profile) error {
		p.ActiveGiveawayID = id
		return nil
	})
	return err
}

func validateStart(req models.StartRequest) error {
	if err := validation.ValidateCommand(req.Command); err != nil {
		return err
	}
	if err := validation.ValidateDuration(req.Duration); err != nil {
		return err
	}
	if err := validation.ValidateWinnerMessage(req.Message); err != nil {
		return err
	}
	return validation.ValidatePrize(req.Prize)
}
