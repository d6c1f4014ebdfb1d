package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meadowmc/economyd/internal/domain/shared"
)

// Repository defines persistence for balances and the append-only
// transaction log.
type Repository interface {
	// Balance reads the current balance, creating the account with the
	// configured initial balance on first touch.
	Balance(ctx context.Context, playerID shared.PlayerID) (*PlayerBalance, error)

	// Commit atomically persists the transaction row and the new balance in
	// one durable operation. A failure leaves both untouched.
	Commit(ctx context.Context, txn *Transaction, newBalance decimal.Decimal) error

	// SetBalance overwrites a player's balance (admin path).
	SetBalance(ctx context.Context, playerID shared.PlayerID, balance decimal.Decimal) error

	// FindByPlayer retrieves transactions for a player, newest first.
	FindByPlayer(ctx context.Context, playerID shared.PlayerID, opts QueryOptions) ([]*Transaction, error)

	// CountByPlayer returns the count of transactions matching the criteria.
	CountByPlayer(ctx context.Context, playerID shared.PlayerID, opts QueryOptions) (int, error)

	// CountByItemSince counts transactions for an item with the given
	// direction created at or after the cutoff. Used by tick accounting
	// checks and tests.
	CountByItemSince(ctx context.Context, itemID string, direction Direction, since time.Time) (int, error)
}

// QueryOptions defines filtering and pagination for transaction queries.
type QueryOptions struct {
	Direction *Direction
	Limit     int
	Offset    int
}

// DefaultQueryOptions returns the default page shape.
func DefaultQueryOptions() QueryOptions {
	return QueryOptions{Limit: 50, Offset: 0}
}
