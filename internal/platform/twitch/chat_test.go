package twitch

import (
	"context"
	"sync"
	"testing"
	"time"

	twitch "github.com/gempir/go-twitch-irc/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twitch-giveaway-backend/internal/common/metrics"
	"twitch-giveaway-backend/internal/features/giveaway/models"
)

func privmsg(channel, user, text string, badges map[string]int) twitch.PrivateMessage {
	return twitch.PrivateMessage{
		User:    twitch.User{Name: user, Badges: badges},
		Channel: channel,
		Message: text,
	}
}

func TestChat_DispatchesToSubscribers(t *testing.T) {
	c := NewChat("GiveawayBot", "token")

	var mu sync.Mutex
	var got []models.ChatMessage
	unsubscribe := c.Subscribe("#Chan", func(m models.ChatMessage) {
		mu.Lock()
		got = append(got, m)
		mu.Unlock()
	})

	c.handlePrivateMessage(privmsg("chan", "Alice", "!join", map[string]int{"subscriber": 3012, "vip": 1}))
	c.handlePrivateMessage(privmsg("chan", "giveawaybot", "!join", nil))
	c.handlePrivateMessage(privmsg("other", "bob", "!join", nil))

	unsubscribe()
	c.handlePrivateMessage(privmsg("chan", "carol", "!join", nil))

	require.Len(t, got, 1)
	assert.Equal(t, "chan", got[0].Channel)
	assert.Equal(t, "alice", got[0].Username)
	assert.Equal(t, models.SubTier3, got[0].SubTier)
	assert.Equal(t, models.Badges{"subscriber": true, "vip": true}, got[0].Badges)
}

func TestChat_JoinWaitsForConfirmation(t *testing.T) {
	c := NewChat("bot", "token")

	errc := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		errc <- c.Join(ctx, "Chan")
	}()

	require.Eventually(t, func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		return len(c.waiters["chan"]) == 1
	}, time.Second, 5*time.Millisecond)

	c.handleSelfJoin(twitch.UserJoinMessage{Channel: "chan", User: "bot"})
	require.NoError(t, <-errc)

	// already joined: no wait
	require.NoError(t, c.Join(context.Background(), "chan"))
}

func TestChat_JoinTimeout(t *testing.T) {
	c := NewChat("bot", "token")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := c.Join(ctx, "chan")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	c.mu.Lock()
	defer c.mu.Unlock()
	assert.Empty(t, c.waiters)
}

func TestSubTierFromBadges(t *testing.T) {
	assert.Equal(t, "", subTierFromBadges(nil))
	assert.Equal(t, "", subTierFromBadges(map[string]int{"vip": 1}))
	assert.Equal(t, models.SubTier1, subTierFromBadges(map[string]int{"subscriber": 12}))
	assert.Equal(t, models.SubTier1, subTierFromBadges(map[string]int{"founder": 0}))
	assert.Equal(t, models.SubTier2, subTierFromBadges(map[string]int{"subscriber": 2006}))
	assert.Equal(t, models.SubTier3, subTierFromBadges(map[string]int{"subscriber": 3000}))
}

type recordingSayer struct {
	lines []string
}

func (r *recordingSayer) Say(channel, message string) {
	r.lines = append(r.lines, channel+": "+message)
}

func TestChatAnnouncer(t *testing.T) {
	t.Run("irc without helix", func(t *testing.T) {
		sayer := &recordingSayer{}
		before := testutil.ToFloat64(metrics.Announcements.WithLabelValues("irc", "success"))

		require.NoError(t, NewChatAnnouncer(nil, sayer).Announce(context.Background(), "42", "chan", "hi"))
		assert.Equal(t, []string{"chan: hi"}, sayer.lines)
		assert.Equal(t, before+1, testutil.ToFloat64(metrics.Announcements.WithLabelValues("irc", "success")))
	})

	t.Run("bot identity", func(t *testing.T) {
		f := newFakeHelix(t)
		sayer := &recordingSayer{}
		bot := NewBotIdentity(f.client(), StaticToken("tok"), "giveawaybot")

		require.NoError(t, NewChatAnnouncer(bot, sayer).Announce(context.Background(), "42", "chan", "hi"))
		assert.Empty(t, sayer.lines)
		assert.Equal(t, "hi", f.lastSend["message"])
	})

	t.Run("bot failure is returned", func(t *testing.T) {
		f := newFakeHelix(t)
		f.failSend = true
		bot := NewBotIdentity(f.client(), StaticToken("tok"), "giveawaybot")

		before := testutil.ToFloat64(metrics.Announcements.WithLabelValues("bot", "failure"))

		err := NewChatAnnouncer(bot, &recordingSayer{}).Announce(context.Background(), "42", "chan", "hi")
		assert.Error(t, err)
		assert.Equal(t, before+1, testutil.ToFloat64(metrics.Announcements.WithLabelValues("bot", "failure")))
	})
}
