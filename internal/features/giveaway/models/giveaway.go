package models

import (
	"strings"
	"sync"
)

// GiveawayState is the lifecycle position of a live giveaway.
type GiveawayState string

const (
	GiveawayStateOpen       GiveawayState = "OPEN"
	GiveawayStateConcluding GiveawayState = "CONCLUDING"
	GiveawayStateConcluded  GiveawayState = "CONCLUDED"
)

// Subscriber tiers as reported by Twitch.
const (
	SubTier1 = "1000"
	SubTier2 = "2000"
	SubTier3 = "3000"
)

// Badges holds the chat badges an entrant displayed when entering.
type Badges map[string]bool

// Entry is one unique participant.
type Entry struct {
	Username string `json:"username"`
	Badges   Badges `json:"badges,omitempty"`
	SubTier  string `json:"sub_tier,omitempty"`
}

// ChatMessage is a chat line delivered by the transport.
type ChatMessage struct {
	Channel  string
	Username string
	Text     string
	Badges   Badges
	SubTier  string
}

// Giveaway is one open entry window owned by the collector.
//
// Entries and State are guarded by mu; everything else is immutable after creation.
type Giveaway struct {
	ID            string
	Channel       string
	Command       string
	Duration      int
	Prize         string
	WebhookURL    string
	BroadcasterID string

	mu      sync.Mutex
	state   GiveawayState
	entries []Entry
	index   map[string]struct{}
}

// NewGiveaway returns a giveaway in the OPEN state.
func NewGiveaway(id string, req CreateRequest) *Giveaway {
	return &Giveaway{
		ID:            id,
		Channel:       NormalizeChannel(req.Channel),
		Command:       strings.TrimSpace(req.Command),
		Duration:      req.Duration,
		Prize:         req.Prize,
		WebhookURL:    req.WebhookURL,
		BroadcasterID: req.BroadcasterID,
		state:         GiveawayStateOpen,
		index:         make(map[string]struct{}),
	}
}

// NormalizeChannel lower-cases a channel login and strips a leading '#'.
func NormalizeChannel(channel string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(channel), "#"))
}

// CreateRequest is the body of POST /create.
type CreateRequest struct {
	Channel       string `json:"channel" binding:"required"`
	Command       string `json:"command" binding:"required"`
	Duration      int    `json:"duration" binding:"required,gt=0"`
	Prize         string `json:"prize"`
	WebhookURL    string `json:"webhook_url"`
	BroadcasterID string `json:"broadcaster_id"`
	IsLooping     bool   `json:"is_looping,omitempty"`
}

// CreateResponse is the body of a successful POST /create.
type CreateResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// EndResponse is the body of a successful POST /end/:id.
type EndResponse struct {
	Success bool `json:"success"`
}

// EventGiveawayEnded is the webhook payload type.
const EventGiveawayEnded = "giveaway_ended"

// EndedPayload is POSTed to the webhook URL once per concluded giveaway.
type EndedPayload struct {
	Type            string  `json:"type"`
	GiveawayID      string  `json:"giveaway_id,omitempty"`
	Entries         []Entry `json:"entries"`
	BroadcasterID   string  `json:"broadcaster_id"`
	OriginalCommand string  `json:"original_command"`
}

// MatchesCommand reports whether text triggers command: the first
// whitespace-separated token must equal the command, ignoring case.
func MatchesCommand(command, text string) bool {
	fields := strings.Fields(text)
	if len(fields) == 0 || command == "" {
		return false
	}
	return strings.EqualFold(fields[0], command)
}

// Record appends entry unless the giveaway has left OPEN or the username
// already entered. It reports whether the entry was added.
func (g *Giveaway) Record(entry Entry) bool {
	key := strings.ToLower(entry.Username)
	if key == "" {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != GiveawayStateOpen {
		return false
	}
	if _, ok := g.index[key]; ok {
		return false
	}
	g.index[key] = struct{}{}
	g.entries = append(g.entries, entry)
	return true
}

// Snapshot returns a copy of the entries at one point in time.
func (g *Giveaway) Snapshot() []Entry {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

func (g *Giveaway) snapshotLocked() []Entry {
	out := make([]Entry, len(g.entries))
	copy(out, g.entries)
	return out
}

// State returns the current lifecycle state.
func (g *Giveaway) State() GiveawayState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// BeginConcluding moves an OPEN giveaway to CONCLUDING and returns the final
// entry list. ok is false if the giveaway was not OPEN.
func (g *Giveaway) BeginConcluding() (entries []Entry, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != GiveawayStateOpen {
		return nil, false
	}
	g.state = GiveawayStateConcluding
	return g.snapshotLocked(), true
}

// MarkConcluded is the terminal transition.
func (g *Giveaway) MarkConcluded() {
	g.mu.Lock()
	g.state = GiveawayStateConcluded
	g.mu.Unlock()
}
