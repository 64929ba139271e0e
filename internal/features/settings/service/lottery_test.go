package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twitch-giveaway-backend/internal/features/settings/models"
)

func TestCategory(t *testing.T) {
	tests := []struct {
		name  string
		entry models.Entry
		want  string
	}{
		{"viewer", models.Entry{Username: "a"}, models.WeightViewer},
		{"tier beats badges", models.Entry{SubTier: "2000", Badges: map[string]bool{"moderator": true}}, models.WeightTier2},
		{"tier 1", models.Entry{SubTier: "1000"}, models.WeightTier1},
		{"tier 3", models.Entry{SubTier: "3000"}, models.WeightTier3},
		{"broadcaster beats moderator", models.Entry{Badges: map[string]bool{"moderator": true, "broadcaster": true}}, models.WeightBroadcaster},
		{"moderator beats vip", models.Entry{Badges: map[string]bool{"vip": true, "moderator": true}}, models.WeightModerator},
		{"vip", models.Entry{Badges: map[string]bool{"vip": true}}, models.WeightVIP},
		{"unknown tier", models.Entry{SubTier: "prime", Badges: map[string]bool{"vip": true}}, models.WeightVIP},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Category(tt.entry))
		})
	}
}

func weightedEntries() []models.Entry {
	return []models.Entry{
		{Username: "a", SubTier: "3000"},
		{Username: "b", Badges: map[string]bool{"moderator": true}},
	}
}

func TestTickets_PoolSize(t *testing.T) {
	tickets, total := Tickets(weightedEntries(), models.Weights{"t3": 1, "moderator": 5, "viewer": 1})

	assert.Equal(t, 6, total)
	assert.Equal(t, []int{1, 5}, tickets)
}

func TestTickets_MissingWeightCountsOnce(t *testing.T) {
	_, total := Tickets([]models.Entry{{Username: "a"}, {Username: "b", SubTier: "1000"}}, models.Weights{})
	assert.Equal(t, 2, total)
}

func TestTickets_ZeroAndNegativeWeightsExclude(t *testing.T) {
	entries := []models.Entry{{Username: "a"}, {Username: "b", Badges: map[string]bool{"vip": true}}}

	tickets, total := Tickets(entries, models.Weights{"viewer": 0, "vip": 1})
	assert.Equal(t, []int{0, 1}, tickets)
	assert.Equal(t, 1, total)

	tickets, _ = Tickets(entries, models.Weights{"viewer": -3})
	assert.Equal(t, []int{0, 1}, tickets)
}

func TestDraw_TicketBoundaries(t *testing.T) {
	weights := models.Weights{"t3": 1, "moderator": 5}
	for n, want := range map[int]string{0: "a", 1: "b", 5: "b"} {
		n := n
		l := &Lottery{intn: func(int) (int, error) { return n, nil }}

		winner, err := l.Draw(weightedEntries(), weights)
		require.NoError(t, err)
		assert.Equal(t, want, winner.Username, "ticket %d", n)
	}
}

func TestDraw_LargeWeightsDoNotAllocatePerTicket(t *testing.T) {
	entries := make([]models.Entry, 5)
	for i := range entries {
		entries[i] = models.Entry{Username: fmt.Sprintf("user%d", i)}
	}
	weights := models.Weights{"viewer": 10_000_000}

	allocs := testing.AllocsPerRun(10, func() {
		_, _ = NewLottery().Draw(entries, weights)
	})
	assert.Less(t, allocs, 20.0)
}

func TestDraw_Empty(t *testing.T) {
	winner, err := NewLottery().Draw(nil, models.DefaultWeights())
	require.NoError(t, err)
	assert.Nil(t, winner)

	winner, err = NewLottery().Draw([]models.Entry{{Username: "a"}}, models.Weights{"viewer": 0})
	require.NoError(t, err)
	assert.Nil(t, winner)
}

func TestDraw_Deterministic(t *testing.T) {
	l := &Lottery{intn: func(n int) (int, error) { return n - 1, nil }}

	winner, err := l.Draw(weightedEntries(), models.Weights{"t3": 1, "moderator": 5})
	require.NoError(t, err)
	assert.Equal(t, "b", winner.Username)
}

func TestDraw_Distribution(t *testing.T) {
	const trials = 30000
	l := NewLottery()
	weights := models.Weights{"t3": 1, "moderator": 5, "viewer": 1}

	wins := map[string]int{}
	for i := 0; i < trials; i++ {
		w, err := l.Draw(weightedEntries(), weights)
		require.NoError(t, err)
		wins[w.Username]++
	}

	assert.InDelta(t, 1.0/6, float64(wins["a"])/trials, 0.02)
	assert.InDelta(t, 5.0/6, float64(wins["b"])/trials, 0.02)
}
