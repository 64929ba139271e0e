package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"twitch-giveaway-backend/internal/common/logger"
	"twitch-giveaway-backend/internal/common/metrics"
	"twitch-giveaway-backend/internal/common/validation"
	"twitch-giveaway-backend/internal/features/giveaway/models"
	"twitch-giveaway-backend/internal/utils/random"
)

// Options tunes the collector's timers.
type Options struct {
	StatusInterval time.Duration
	JoinTimeout    time.Duration
}

// GiveawayService runs giveaways on the chat transport: it opens entry
// windows, collects entries, concludes each giveaway exactly once and reports
// the result through the webhook.
type GiveawayService struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	registry  *Registry
	chat      ChatClient
	announcer Announcer
	webhooks  WebhookSender
	clock     clockwork.Clock
	opts      Options
	logger    zerolog.Logger
}

func NewGiveawayService(
	registry *Registry,
	chat ChatClient,
	announcer Announcer,
	webhooks WebhookSender,
	clock clockwork.Clock,
	opts Options,
) *GiveawayService {
	if opts.StatusInterval <= 0 {
		opts.StatusInterval = DefaultStatusInterval
	}
	if opts.JoinTimeout <= 0 {
		opts.JoinTimeout = DefaultJoinTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &GiveawayService{
		ctx:       ctx,
		cancel:    cancel,
		registry:  registry,
		chat:      chat,
		announcer: announcer,
		webhooks:  webhooks,
		clock:     clock,
		opts:      opts,
		logger:    logger.Component("collector"),
	}
}

// Create opens a giveaway in req.Channel and returns its id.
func (s *GiveawayService) Create(ctx context.Context, req models.CreateRequest) (string, error) {
	channel := models.NormalizeChannel(req.Channel)
	if err := validateCreate(channel, req); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	uid, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate giveaway id: %w", err)
	}
	id := uid.String()

	if err := s.registry.Reserve(channel, id); err != nil {
		return "", err
	}

	joinCtx, cancel := context.WithTimeout(ctx, s.opts.JoinTimeout)
	err = s.chat.Join(joinCtx, channel)
	cancel()
	if err != nil {
		s.registry.Unreserve(channel, id)
		return "", fmt.Errorf("%w %s: %v", ErrChatJoin, channel, err)
	}

	g := models.NewGiveaway(id, req)
	res := &Resources{}
	s.registry.Activate(g, res)

	res.SetUnsubscribe(s.chat.Subscribe(channel, func(msg models.ChatMessage) {
		s.RecordAttempt(id, msg)
	}))
	res.SetCountdown(s.clock.AfterFunc(time.Duration(req.Duration)*time.Second, func() {
		s.conclude(id, reasonExpired)
	}))
	res.SetStatusStop(s.startStatusBroadcast(g))

	metrics.GiveawaysOpened.Inc()
	metrics.OpenGiveaways.Inc()

	s.logger.Info().
		Str("giveaway_id", id).
		Str("channel", channel).
		Str("command", g.Command).
		Int("duration", g.Duration).
		Str("broadcaster_id", g.BroadcasterID).
		Msg("Giveaway opened")

	msg := fmt.Sprintf(openingMessage, g.Prize, g.Command)
	if err := s.announcer.Announce(ctx, g.BroadcasterID, channel, msg); err != nil {
		s.logger.Warn().Err(err).Str("giveaway_id", id).Msg("Failed to announce giveaway start")
	}

	return id, nil
}

// EndEarly concludes giveaway id now. It returns ErrNotFound when the
// giveaway does not exist or has already concluded.
func (s *GiveawayService) EndEarly(id string) error {
	live, ok := s.registry.Claim(id)
	if !ok {
		return ErrNotFound
	}
	s.finish(live, reasonEndedEarly)
	return nil
}

func (s *GiveawayService) conclude(id, reason string) {
	live, ok := s.registry.Claim(id)
	if !ok {
		return
	}
	s.finish(live, reason)
}

// finish runs once per giveaway, on whichever path won the Claim.
func (s *GiveawayService) finish(live *liveGiveaway, reason string) {
	live.resources.Release()

	g := live.giveaway
	entries, ok := g.BeginConcluding()
	if !ok {
		return
	}

	metrics.OpenGiveaways.Dec()
	metrics.GiveawaysConcluded.WithLabelValues(reason).Inc()

	s.logger.Info().
		Str("giveaway_id", g.ID).
		Str("channel", g.Channel).
		Str("reason", reason).
		Int("entries", len(entries)).
		Msg("Giveaway concluding")

	s.announceLocalWinner(g, entries)
	s.dispatchWebhook(g, entries)

	g.MarkConcluded()
}

func (s *GiveawayService) announceLocalWinner(g *models.Giveaway, entries []models.Entry) {
	winner, err := random.Pick(entries)
	if err != nil {
		s.chat.Say(g.Channel, noEntryMessage)
		return
	}
	s.chat.Say(g.Channel, fmt.Sprintf(winnerMessage, winner.Username))
}

func (s *GiveawayService) dispatchWebhook(g *models.Giveaway, entries []models.Entry) {
	if g.WebhookURL == "" {
		s.logger.Debug().Str("giveaway_id", g.ID).Msg("No webhook url, skipping report")
		return
	}

	payload := models.EndedPayload{
		Type:            models.EventGiveawayEnded,
		GiveawayID:      g.ID,
		Entries:         entries,
		BroadcasterID:   g.BroadcasterID,
		OriginalCommand: g.Command,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		err := s.webhooks.Send(s.ctx, g.WebhookURL, payload)
		metrics.WebhookDeliveries.WithLabelValues(metrics.Result(err)).Inc()
		if err != nil {
			s.logger.Error().Err(err).
				Str("giveaway_id", g.ID).
				Str("webhook_url", g.WebhookURL).
				Msg("Failed to deliver giveaway webhook")
			return
		}
		s.logger.Info().Str("giveaway_id", g.ID).Int("entries", len(entries)).Msg("Giveaway webhook delivered")
	}()
}

// startStatusBroadcast announces the entry count every StatusInterval while
// the giveaway is live. The loop also exits on its own once the giveaway has
// left the registry.
func (s *GiveawayService) startStatusBroadcast(g *models.Giveaway) func() {
	ticker := s.clock.NewTicker(s.opts.StatusInterval)
	done := make(chan struct{})
	var once sync.Once

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer ticker.Stop()

		for {
			select {
			case <-ticker.Chan():
				if _, ok := s.registry.Get(g.ID); !ok {
					return
				}
				if g.State() != models.GiveawayStateOpen {
					continue
				}
				if n := len(g.Snapshot()); n > 0 {
					s.chat.Say(g.Channel, fmt.Sprintf(statusMessage, n, g.Command))
				}
			case <-done:
				return
			case <-s.ctx.Done():
				return
			}
		}
	}()

	return func() { once.Do(func() { close(done) }) }
}

// Open reports whether id is live.
func (s *GiveawayService) Open(id string) bool {
	_, ok := s.registry.Get(id)
	return ok
}

// Shutdown drops every live giveaway without reporting it and waits for
// in-flight webhook deliveries.
func (s *GiveawayService) Shutdown(ctx context.Context) error {
	for _, id := range s.registry.IDs() {
		if live, ok := s.registry.Claim(id); ok {
			live.resources.Release()
			metrics.OpenGiveaways.Dec()
		}
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.cancel()
		return nil
	case <-ctx.Done():
		s.cancel()
		return ctx.Err()
	}
}

func validateCreate(channel string, req models.CreateRequest) error {
	if err := validation.ValidateChannel(channel); err != nil {
		return err
	}
	if err := validation.ValidateCommand(req.Command); err != nil {
		return err
	}
	if err := validation.ValidateDuration(req.Duration); err != nil {
		return err
	}
	return validation.ValidatePrize(req.Prize)
}
