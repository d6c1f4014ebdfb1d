package session

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/meadowmc/economyd/internal/domain/shared"
)

// PlayerSession tracks one player's presence. The weight field holds the
// tier last derived from the session age; it freezes on logout.
type PlayerSession struct {
	playerID     shared.PlayerID
	name         string
	loginTime    time.Time
	lastActivity time.Time
	online       bool
	weight       decimal.Decimal
}

// NewPlayerSession creates a fresh session at login time.
func NewPlayerSession(playerID shared.PlayerID, name string, now time.Time, tiers WeightTiers) *PlayerSession {
	return &PlayerSession{
		playerID:     playerID,
		name:         name,
		loginTime:    now,
		lastActivity: now,
		online:       true,
		weight:       tiers.Instant,
	}
}

// ReconstructPlayerSession rebuilds a session from persistence.
func ReconstructPlayerSession(
	playerID shared.PlayerID,
	name string,
	loginTime time.Time,
	lastActivity time.Time,
	online bool,
	weight decimal.Decimal,
) *PlayerSession {
	return &PlayerSession{
		playerID:     playerID,
		name:         name,
		loginTime:    loginTime,
		lastActivity: lastActivity,
		online:       online,
		weight:       weight,
	}
}

func (s *PlayerSession) PlayerID() shared.PlayerID { return s.playerID }
func (s *PlayerSession) Name() string              { return s.name }
func (s *PlayerSession) LoginTime() time.Time      { return s.loginTime }
func (s *PlayerSession) LastActivity() time.Time   { return s.lastActivity }
func (s *PlayerSession) IsOnline() bool            { return s.online }
func (s *PlayerSession) Weight() decimal.Decimal   { return s.weight }

// Touch records activity and recomputes the weight from the session age.
func (s *PlayerSession) Touch(now time.Time, tiers WeightTiers) {
	s.lastActivity = now
	s.weight = tiers.ForAge(now.Sub(s.loginTime))
}

// Close marks the session offline, freezing the last weight.
func (s *PlayerSession) Close() {
	s.online = false
}

// WeightAt returns the weight tier as of the given instant without mutating
// the session. Offline sessions keep their frozen weight.
func (s *PlayerSession) WeightAt(at time.Time, tiers WeightTiers) decimal.Decimal {
	if !s.online {
		return s.weight
	}
	return tiers.ForAge(at.Sub(s.loginTime))
}
