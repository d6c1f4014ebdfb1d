package ledger

import "fmt"

// Direction is the two-valued trade tag, from the player's point of view.
type Direction string

const (
	// PlayerBuys means the player obtains an item and is debited.
	PlayerBuys Direction = "BUY"
	// PlayerSells means the player offloads an item and is credited.
	PlayerSells Direction = "SELL"
)

// ParseDirection converts a string to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case PlayerBuys:
		return PlayerBuys, nil
	case PlayerSells:
		return PlayerSells, nil
	default:
		return "", fmt.Errorf("invalid transaction direction: %q", s)
	}
}

// IsValid reports whether the direction is one of the two known values.
func (d Direction) IsValid() bool {
	return d == PlayerBuys || d == PlayerSells
}

func (d Direction) String() string {
	return string(d)
}
