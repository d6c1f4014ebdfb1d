package shared

import (
	"fmt"
	"strings"
)

// MaxPlayerIDLength matches the storage column width for player ids.
const MaxPlayerIDLength = 36

// PlayerID is a value object wrapping the UUID-shaped player identifier
// assigned by the game server.
type PlayerID struct {
	value string
}

// NewPlayerID validates and creates a PlayerID.
func NewPlayerID(value string) (PlayerID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return PlayerID{}, &ErrInvalidPlayerID{Value: value, Reason: "player id cannot be empty"}
	}
	if len(trimmed) > MaxPlayerIDLength {
		return PlayerID{}, &ErrInvalidPlayerID{
			Value:  value,
			Reason: fmt.Sprintf("player id exceeds %d characters", MaxPlayerIDLength),
		}
	}
	return PlayerID{value: trimmed}, nil
}

// Value returns the underlying identifier.
func (p PlayerID) Value() string {
	return p.value
}

// IsZero reports whether the id is unset.
func (p PlayerID) IsZero() bool {
	return p.value == ""
}

func (p PlayerID) String() string {
	return p.value
}

// ErrInvalidPlayerID signals a malformed player identifier.
type ErrInvalidPlayerID struct {
	Value  string
	Reason string
}

func (e *ErrInvalidPlayerID) Error() string {
	return fmt.Sprintf("invalid player id %q: %s", e.Value, e.Reason)
}
