package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/meadowmc/economyd/internal/domain/shared"
)

// PlayerBalance is the per-player account row. Mutations go through the
// repository's atomic Commit; this type only carries the snapshot.
type PlayerBalance struct {
	playerID  shared.PlayerID
	balance   decimal.Decimal
	updatedAt time.Time
}

// NewPlayerBalance creates a balance snapshot.
func NewPlayerBalance(playerID shared.PlayerID, balance decimal.Decimal, updatedAt time.Time) *PlayerBalance {
	return &PlayerBalance{playerID: playerID, balance: balance, updatedAt: updatedAt}
}

func (b *PlayerBalance) PlayerID() shared.PlayerID { return b.playerID }
func (b *PlayerBalance) Balance() decimal.Decimal  { return b.balance }
func (b *PlayerBalance) UpdatedAt() time.Time      { return b.updatedAt }

// CanAfford reports whether a debit of the given amount keeps the balance
// non-negative.
func (b *PlayerBalance) CanAfford(amount decimal.Decimal) bool {
	return b.balance.GreaterThanOrEqual(amount)
}
