package models

import "strings"

// Weight table keys.
const (
	WeightBroadcaster = "broadcaster"
	WeightModerator   = "moderator"
	WeightVIP         = "vip"
	WeightTier1       = "t1"
	WeightTier2       = "t2"
	WeightTier3       = "t3"
	WeightFollower    = "follower"
	WeightViewer      = "viewer"
)

// Weights maps a category to its ticket multiplier. A missing category counts as 1.
type Weights map[string]int

// DefaultWeights applies to broadcasters without a saved table.
func DefaultWeights() Weights {
	return Weights{
		WeightBroadcaster: 1000,
		WeightModerator:   500,
		WeightVIP:         200,
		WeightTier3:       150,
		WeightTier2:       50,
		WeightTier1:       10,
		WeightFollower:    2,
		WeightViewer:      1,
	}
}

// Of returns the weight for category, 1 when unset and never below 0.
func (w Weights) Of(category string) int {
	v, ok := w[category]
	if !ok {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}

// Loop restart defaults for profiles that never saved a value.
const (
	DefaultPrize    = "Nothing"
	DefaultCommand  = "!join"
	DefaultDuration = 60
	DefaultMessage  = "Congrats {user}, you won!"
)

// Profile is the durable per-broadcaster giveaway configuration.
type Profile struct {
	BroadcasterID    string  `json:"broadcaster_id"`
	BroadcasterName  string  `json:"broadcaster_name"`
	AccessToken      string  `json:"access_token,omitempty"`
	Weights          Weights `json:"weights,omitempty"`
	IsLooping        bool    `json:"is_looping"`
	CurrentPrize     string  `json:"current_prize"`
	CurrentCommand   string  `json:"current_command"`
	CurrentDuration  int     `json:"current_duration"`
	CurrentMessage   string  `json:"current_message"`
	ActiveGiveawayID *string `json:"active_giveaway_id"`
}

// Channel is the chat channel the broadcaster's giveaways run in.
// EffectiveWeights is the table draws use and dashboards see: the saved one,
// or DefaultWeights when none was saved.
func (p *Profile) EffectiveWeights() Weights {
	if p.Weights == nil {
		return DefaultWeights()
	}
	return p.Weights
}

func (p *Profile) Channel() string {
	return strings.ToLower(p.BroadcasterName)
}

// LoopParams returns the saved parameters with defaults filled in.
func (p *Profile) LoopParams() (prize, command string, duration int, message string) {
	prize, command, duration, message = p.CurrentPrize, p.CurrentCommand, p.CurrentDuration, p.CurrentMessage
	if prize == "" {
		prize = DefaultPrize
	}
	if command == "" {
		command = DefaultCommand
	}
	if duration <= 0 {
		duration = DefaultDuration
	}
	if message == "" {
		message = DefaultMessage
	}
	return prize, command, duration, message
}

// ActiveID returns the active giveaway id or "".
func (p *Profile) ActiveID() string {
	if p.ActiveGiveawayID == nil {
		return ""
	}
	return *p.ActiveGiveawayID
}

// Entry mirrors the collector's entry record as received on the webhook.
type Entry struct {
	Username string          `json:"username"`
	Badges   map[string]bool `json:"badges,omitempty"`
	SubTier  string          `json:"sub_tier,omitempty"`
}

// GiveawayEndedEvent is the webhook body sent by the collector.
type GiveawayEndedEvent struct {
	Type            string  `json:"type"`
	GiveawayID      string  `json:"giveaway_id,omitempty"`
	Entries         []Entry `json:"entries"`
	BroadcasterID   string  `json:"broadcaster_id"`
	OriginalCommand string  `json:"original_command"`
}

const EventGiveawayEnded = "giveaway_ended"

// StartRequest is the dashboard's start call.
type StartRequest struct {
	Command   string `json:"command"`
	Duration  int    `json:"duration"`
	Message   string `json:"message"`
	Prize     string `json:"prize"`
	IsLooping bool   `json:"is_looping"`
	Channel   string `json:"channel,omitempty"`
}

// EndRequest optionally names the giveaway to end; the active one otherwise.
type EndRequest struct {
	GiveawayID string `json:"giveaway_id,omitempty"`
}

// IdentityRequest registers the broadcaster's channel login and token.
type IdentityRequest struct {
	BroadcasterName string `json:"broadcaster_name" binding:"required"`
	AccessToken     string `json:"access_token"`
}

// StatusResponse reports the active giveaway id, null when none.
type StatusResponse struct {
	ActiveID *string `json:"active_id"`
}

// StartResponse carries the new giveaway id.
type StartResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}
