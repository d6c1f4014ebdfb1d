package pricing

import (
	"context"

	"github.com/shopspring/decimal"
)

// HistoryRepository persists the price-history log.
type HistoryRepository interface {
	// Append persists one history entry.
	Append(ctx context.Context, entry *PriceHistoryEntry) error

	// Recent returns the newest entries for an item, newest first.
	Recent(ctx context.Context, itemID string, limit int) ([]*PriceHistoryEntry, error)
}

// Publisher atomically persists a tick step: the item's new current price
// and its history entry in one durable operation.
type Publisher interface {
	PublishTick(ctx context.Context, itemID string, price decimal.Decimal, entry *PriceHistoryEntry) error
}

// QuoteMirror pushes published quotes to an external cache for out-of-process
// readers. Best effort; failures never affect the tick.
type QuoteMirror interface {
	Mirror(ctx context.Context, quotes []Quote) error
}
