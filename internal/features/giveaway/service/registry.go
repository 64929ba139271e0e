package service

import (
	"sync"

	"twitch-giveaway-backend/internal/features/giveaway/models"
)

type liveGiveaway struct {
	giveaway  *models.Giveaway
	resources *Resources
}

// Registry is the live table of open giveaways. Presence in the table is the
// single source of truth for "not yet concluded".
type Registry struct {
	mu        sync.Mutex
	byID      map[string]*liveGiveaway
	byChannel map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		byID:      make(map[string]*liveGiveaway),
		byChannel: make(map[string]string),
	}
}

// Reserve claims channel for id before the chat join starts.
func (r *Registry) Reserve(channel, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, busy := r.byChannel[channel]; busy {
		return ErrChannelBusy
	}
	r.byChannel[channel] = id
	return nil
}

// Unreserve drops a reservation that never became live.
func (r *Registry) Unreserve(channel, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.byChannel[channel] == id {
		if _, live := r.byID[id]; !live {
			delete(r.byChannel, channel)
		}
	}
}

// Activate makes a reserved giveaway visible to lookups and claims.
func (r *Registry) Activate(g *models.Giveaway, res *Resources) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[g.ID] = &liveGiveaway{giveaway: g, resources: res}
	r.byChannel[g.Channel] = g.ID
}

func (r *Registry) Get(id string) (*models.Giveaway, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	live, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return live.giveaway, true
}

// Claim removes id from the table and frees its channel. Exactly one caller
// per id gets ok == true.
func (r *Registry) Claim(id string) (*liveGiveaway, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	live, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	delete(r.byID, id)
	if r.byChannel[live.giveaway.Channel] == id {
		delete(r.byChannel, live.giveaway.Channel)
	}
	return live, true
}

// IDs lists the live giveaway ids.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	return ids
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}
