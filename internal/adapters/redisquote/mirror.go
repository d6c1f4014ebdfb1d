package redisquote

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/meadowmc/economyd/internal/domain/pricing"
)

// quoteTTL bounds how long a mirrored quote outlives its tick. Two default
// tick intervals gives readers slack across a missed tick.
const quoteTTL = 20 * time.Minute

// Mirror pushes published quotes into redis for out-of-process readers
// (scoreboards, the game server's HUD). It implements pricing.QuoteMirror.
// Writes are best effort; the in-process cache stays authoritative.
type Mirror struct {
	client    *redis.Client
	keyPrefix string
}

// quotePayload is the mirrored wire shape.
type quotePayload struct {
	ItemID    string    `json:"itemId"`
	BuyPrice  string    `json:"buyPrice"`
	SellPrice string    `json:"sellPrice"`
	Tick      time.Time `json:"tick"`
}

// NewMirror creates a mirror from a redis connection URL.
func NewMirror(url, keyPrefix string) (*Mirror, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return &Mirror{client: redis.NewClient(opts), keyPrefix: keyPrefix}, nil
}

// Mirror writes all quotes in one pipeline.
func (m *Mirror) Mirror(ctx context.Context, quotes []pricing.Quote) error {
	pipe := m.client.Pipeline()
	for _, q := range quotes {
		payload, err := json.Marshal(quotePayload{
			ItemID:    q.ItemID,
			BuyPrice:  q.BuyPrice.StringFixed(2),
			SellPrice: q.SellPrice.StringFixed(2),
			Tick:      q.Tick,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal quote for %s: %w", q.ItemID, err)
		}
		pipe.Set(ctx, m.keyPrefix+q.ItemID, payload, quoteTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to mirror quotes: %w", err)
	}
	return nil
}

// Close releases the redis connection.
func (m *Mirror) Close() error {
	return m.client.Close()
}
