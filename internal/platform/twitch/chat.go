// Package twitch connects the services to Twitch: IRC chat for listening and
// speaking, and the Helix API for identity lookups and bot chat messages.
package twitch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	twitch "github.com/gempir/go-twitch-irc/v4"
	"github.com/rs/zerolog"

	"twitch-giveaway-backend/internal/common/logger"
	"twitch-giveaway-backend/internal/features/giveaway/models"
)

// Chat wraps one IRC connection shared by every giveaway in the process.
type Chat struct {
	client   *twitch.Client
	username string
	logger   zerolog.Logger

	connected atomic.Bool

	mu      sync.Mutex
	joined  map[string]bool
	waiters map[string][]chan struct{}
	subs    map[string]map[uint64]func(models.ChatMessage)
	nextSub uint64
}

// NewChat prepares a client for username. oauth may carry the "oauth:" prefix or not.
func NewChat(username, oauth string) *Chat {
	if !strings.HasPrefix(oauth, "oauth:") {
		oauth = "oauth:" + oauth
	}

	c := &Chat{
		client:   twitch.NewClient(username, oauth),
		username: strings.ToLower(username),
		logger:   logger.Component("chat"),
		joined:   make(map[string]bool),
		waiters:  make(map[string][]chan struct{}),
		subs:     make(map[string]map[uint64]func(models.ChatMessage)),
	}

	c.client.OnConnect(func() {
		c.connected.Store(true)
		c.logger.Info().Str("username", c.username).Msg("Connected to Twitch chat")
	})
	c.client.OnSelfJoinMessage(c.handleSelfJoin)
	c.client.OnSelfPartMessage(c.handleSelfPart)
	c.client.OnPrivateMessage(c.handlePrivateMessage)

	return c
}

// Run holds the connection open until ctx is done.
func (c *Chat) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = c.client.Disconnect()
	}()

	err := c.client.Connect()
	c.connected.Store(false)
	if errors.Is(err, twitch.ErrClientDisconnected) {
		return nil
	}
	return err
}

// Connected reports whether the IRC session is up.
func (c *Chat) Connected() bool {
	return c.connected.Load()
}

// Join joins channel and waits for the server's confirmation.
func (c *Chat) Join(ctx context.Context, channel string) error {
	channel = models.NormalizeChannel(channel)

	c.mu.Lock()
	if c.joined[channel] {
		c.mu.Unlock()
		return nil
	}
	ready := make(chan struct{})
	c.waiters[channel] = append(c.waiters[channel], ready)
	c.mu.Unlock()

	c.client.Join(channel)

	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		c.dropWaiter(channel, ready)
		return fmt.Errorf("join %s: %w", channel, ctx.Err())
	}
}

func (c *Chat) dropWaiter(channel string, ready chan struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	waiters := c.waiters[channel]
	for i, w := range waiters {
		if w == ready {
			c.waiters[channel] = append(waiters[:i], waiters[i+1:]...)
			break
		}
	}
	if len(c.waiters[channel]) == 0 {
		delete(c.waiters, channel)
	}
}

func (c *Chat) Say(channel, message string) {
	c.client.Say(models.NormalizeChannel(channel), message)
}

// Subscribe delivers messages from channel to fn until the returned func is called.
func (c *Chat) Subscribe(channel string, fn func(models.ChatMessage)) func() {
	channel = models.NormalizeChannel(channel)

	c.mu.Lock()
	c.nextSub++
	id := c.nextSub
	if c.subs[channel] == nil {
		c.subs[channel] = make(map[uint64]func(models.ChatMessage))
	}
	c.subs[channel][id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs[channel], id)
		if len(c.subs[channel]) == 0 {
			delete(c.subs, channel)
		}
	}
}

func (c *Chat) handleSelfJoin(msg twitch.UserJoinMessage) {
	channel := models.NormalizeChannel(msg.Channel)

	c.mu.Lock()
	c.joined[channel] = true
	waiters := c.waiters[channel]
	delete(c.waiters, channel)
	c.mu.Unlock()

	for _, w := range waiters {
		close(w)
	}
	c.logger.Info().Str("channel", channel).Msg("Joined channel")
}

func (c *Chat) handleSelfPart(msg twitch.UserPartMessage) {
	channel := models.NormalizeChannel(msg.Channel)

	c.mu.Lock()
	delete(c.joined, channel)
	c.mu.Unlock()
}

func (c *Chat) handlePrivateMessage(msg twitch.PrivateMessage) {
	if strings.EqualFold(msg.User.Name, c.username) {
		return
	}

	channel := models.NormalizeChannel(msg.Channel)

	c.mu.Lock()
	fns := make([]func(models.ChatMessage), 0, len(c.subs[channel]))
	for _, fn := range c.subs[channel] {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	if len(fns) == 0 {
		return
	}

	out := models.ChatMessage{
		Channel:  channel,
		Username: strings.ToLower(msg.User.Name),
		Text:     msg.Message,
		Badges:   badgeFlags(msg.User.Badges),
		SubTier:  subTierFromBadges(msg.User.Badges),
	}
	for _, fn := range fns {
		fn(out)
	}
}

func badgeFlags(badges map[string]int) models.Badges {
	if len(badges) == 0 {
		return nil
	}
	out := make(models.Badges, len(badges))
	for name := range badges {
		out[name] = true
	}
	return out
}

// subTierFromBadges derives the subscription tier from the subscriber badge
// version: tier 2 and 3 badges are numbered from 2000 and 3000.
func subTierFromBadges(badges map[string]int) string {
	version, ok := badges["subscriber"]
	if !ok {
		if _, founder := badges["founder"]; !founder {
			return ""
		}
		return models.SubTier1
	}
	switch {
	case version >= 3000:
		return models.SubTier3
	case version >= 2000:
		return models.SubTier2
	default:
		return models.SubTier1
	}
}
