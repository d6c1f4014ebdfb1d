package session

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meadowmc/economyd/internal/domain/shared"
)

// Registry is the process-wide session table. It is the authority for the
// online count and session weights; the repository persists rows behind it.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*PlayerSession
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*PlayerSession)}
}

// OnLogin creates or refreshes a session. A re-login resets the login time
// and drops the weight back to the instant tier.
func (r *Registry) OnLogin(playerID shared.PlayerID, name string, now time.Time, tiers WeightTiers) *PlayerSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := NewPlayerSession(playerID, name, now, tiers)
	r.sessions[playerID.Value()] = s
	return s
}

// OnActivity updates last-activity and recomputes the weight. Unknown
// players are ignored; the game server logs them in first.
func (r *Registry) OnActivity(playerID shared.PlayerID, now time.Time, tiers WeightTiers) *PlayerSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[playerID.Value()]
	if !ok || !s.online {
		return nil
	}
	s.Touch(now, tiers)
	return s
}

// OnLogout marks the session offline and freezes its weight.
func (r *Registry) OnLogout(playerID shared.PlayerID) *PlayerSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[playerID.Value()]
	if !ok {
		return nil
	}
	s.Close()
	return s
}

// OnlineCount returns the number of online sessions.
func (r *Registry) OnlineCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, s := range r.sessions {
		if s.online {
			n++
		}
	}
	return n
}

// Online returns the currently online sessions.
func (r *Registry) Online() []*PlayerSession {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*PlayerSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		if s.online {
			out = append(out, s)
		}
	}
	return out
}

// WeightFor returns the session weight for a player as of the given instant.
// Unknown players get the instant tier.
func (r *Registry) WeightFor(playerID shared.PlayerID, at time.Time, tiers WeightTiers) decimal.Decimal {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[playerID.Value()]
	if !ok {
		return tiers.Instant
	}
	return s.WeightAt(at, tiers)
}

// Find returns the session for a player, or nil.
func (r *Registry) Find(playerID shared.PlayerID) *PlayerSession {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[playerID.Value()]
}

// Restore seeds the registry from persisted sessions at startup.
func (r *Registry) Restore(sessions []*PlayerSession) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range sessions {
		r.sessions[s.playerID.Value()] = s
	}
}
