package service

import (
	"fmt"

	"twitch-giveaway-backend/internal/common/metrics"
	"twitch-giveaway-backend/internal/features/settings/models"
	"twitch-giveaway-backend/internal/utils/random"
)

// Category returns the weight key an entry draws with. Subscriber tier wins
// over badges; broadcaster beats moderator beats vip; everyone else is a viewer.
func Category(e models.Entry) string {
	switch e.SubTier {
	case "3000":
		return models.WeightTier3
	case "2000":
		return models.WeightTier2
	case "1000":
		return models.WeightTier1
	}

	switch {
	case e.Badges[models.WeightBroadcaster]:
		return models.WeightBroadcaster
	case e.Badges[models.WeightModerator]:
		return models.WeightModerator
	case e.Badges[models.WeightVIP]:
		return models.WeightVIP
	}
	return models.WeightViewer
}

// Lottery draws one winner with probability proportional to weight.
type Lottery struct {
	intn func(n int) (int, error)
}

func NewLottery() *Lottery {
	return &Lottery{intn: random.Intn}
}

// Tickets returns how many tickets each entry holds and their sum.
func Tickets(entries []models.Entry, weights models.Weights) ([]int, int) {
	tickets := make([]int, len(entries))
	total := 0
	for i, e := range entries {
		tickets[i] = weights.Of(Category(e))
		total += tickets[i]
	}
	return tickets, total
}

// Draw returns the winning entry, or nil when no entry holds a ticket.
// Ticket n belongs to the entry whose cumulative count first exceeds n.
func (l *Lottery) Draw(entries []models.Entry, weights models.Weights) (*models.Entry, error) {
	tickets, total := Tickets(entries, weights)
	if total == 0 {
		return nil, nil
	}

	n, err := l.intn(total)
	if err != nil {
		return nil, err
	}
	metrics.LotteryDraws.Inc()

	for i, count := range tickets {
		if n < count {
			winner := entries[i]
			return &winner, nil
		}
		n -= count
	}
	return nil, fmt.Errorf("ticket %d outside pool of %d", n, total)
}
