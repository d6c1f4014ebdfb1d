package services

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/meadowmc/economyd/internal/domain/catalog"
	"github.com/meadowmc/economyd/internal/domain/pricing"
	"github.com/meadowmc/economyd/internal/domain/session"
	"github.com/meadowmc/economyd/internal/domain/settings"
	"github.com/meadowmc/economyd/internal/domain/shared"
)

// TickObserver receives per-item tick outcomes, for metrics.
type TickObserver interface {
	ObserveTick(result *pricing.TickResult)
	ObserveTickDuration(d time.Duration, items int)
	SetOnlinePlayers(n int)
}

// RepriceService runs the repricing loop: every price_update_interval
// (jittered +/-5%) it drains the accumulator per active item, computes the
// new price, persists price + history atomically, and republishes the quote
// cache in one swap.
type RepriceService struct {
	items       catalog.ItemRepository
	publisher   pricing.Publisher
	accumulator *pricing.Accumulator
	cache       *pricing.PriceCache
	sessions    *session.Registry
	settings    settings.Repository
	clock       shared.Clock
	location    *time.Location
	mirror      pricing.QuoteMirror
	observer    TickObserver
	rng         *rand.Rand
}

// NewRepriceService wires the loop. mirror and observer may be nil.
func NewRepriceService(
	items catalog.ItemRepository,
	publisher pricing.Publisher,
	accumulator *pricing.Accumulator,
	cache *pricing.PriceCache,
	sessions *session.Registry,
	settingsRepo settings.Repository,
	clock shared.Clock,
	location *time.Location,
	mirror pricing.QuoteMirror,
	observer TickObserver,
) *RepriceService {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if location == nil {
		location = time.Local
	}
	return &RepriceService{
		items:       items,
		publisher:   publisher,
		accumulator: accumulator,
		cache:       cache,
		sessions:    sessions,
		settings:    settingsRepo,
		clock:       clock,
		location:    location,
		mirror:      mirror,
		observer:    observer,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run drives the tick loop until the context is cancelled. Shutdown lets
// the in-flight item finish before returning.
func (s *RepriceService) Run(ctx context.Context) error {
	for {
		interval := s.nextInterval(ctx)
		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			if err := s.TickOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("repricing tick failed")
			}
		}
	}
}

// nextInterval reads the configured interval and applies +/-5% jitter to
// avoid herd effects across deployments.
func (s *RepriceService) nextInterval(ctx context.Context) time.Duration {
	interval := settings.DefaultParams().PriceUpdateInterval
	if snap, err := s.settings.All(ctx); err == nil {
		interval = snap.Params().PriceUpdateInterval
	}
	jitter := 1 + (s.rng.Float64()*0.1 - 0.05)
	return time.Duration(float64(interval) * jitter)
}

// TickOnce reprices every active item. A failed item keeps its previous
// price and is skipped with a warning; the tick never retries within
// itself. Between items the shutdown signal is honored.
func (s *RepriceService) TickOnce(ctx context.Context) error {
	started := time.Now()
	now := s.clock.Now()

	snap, err := s.settings.All(ctx)
	if err != nil {
		return err
	}
	params := snap.Params()

	items, err := s.items.ListActive(ctx)
	if err != nil {
		return err
	}

	online := s.sessions.OnlineCount()
	if s.observer != nil {
		s.observer.SetOnlinePlayers(online)
	}
	quotes := make([]pricing.Quote, 0, len(items))

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			break
		}

		result, err := s.repriceItem(ctx, item, params, online, now)
		if err != nil {
			log.Warn().Err(err).Str("item", item.ID()).Msg("item kept previous price")
			continue
		}

		quotes = append(quotes, pricing.DeriveQuote(item, result.NewPrice, params.QuoteBasis, now))
		if s.observer != nil {
			s.observer.ObserveTick(result)
		}
	}

	s.cache.Publish(quotes)

	if s.mirror != nil && len(quotes) > 0 {
		if err := s.mirror.Mirror(ctx, quotes); err != nil {
			log.Warn().Err(err).Msg("quote mirror publish failed")
		}
	}

	if s.observer != nil {
		s.observer.ObserveTickDuration(time.Since(started), len(quotes))
	}
	log.Info().
		Int("items", len(quotes)).
		Int("online", online).
		Dur("elapsed", time.Since(started)).
		Msg("repricing tick complete")
	return ctx.Err()
}

// repriceItem drains the accumulator for one item and publishes its new
// price with the history entry in one durable operation. The drain happens
// only after the inputs are in hand; on a publish failure the drained
// pressure is restored so the next tick still accounts for it.
func (s *RepriceService) repriceItem(ctx context.Context, item *catalog.Item, params settings.EngineParams, online int, now time.Time) (*pricing.TickResult, error) {
	pressure := s.accumulator.Drain(item.ID())

	result, err := pricing.ComputeTick(pricing.TickInput{
		Item:          item,
		PreviousPrice: item.CurrentPrice(),
		Pressure:      pressure,
		Params:        params,
		OnlineCount:   online,
		Now:           now,
	})
	if err != nil {
		s.restore(item.ID(), pressure)
		return nil, err
	}

	entry := pricing.NewPriceHistoryEntry(result)
	if err := s.publisher.PublishTick(ctx, item.ID(), result.NewPrice, entry); err != nil {
		s.restore(item.ID(), pressure)
		return nil, err
	}

	item.SetCurrentPrice(result.NewPrice)
	return result, nil
}

// restore folds a drained pressure back into the accumulator after a failed
// publish, so the transactions it represents are not lost.
func (s *RepriceService) restore(itemID string, p pricing.ItemPressure) {
	if p.IsEmpty() && p.BuyCount == 0 && p.SellCount == 0 {
		return
	}
	s.accumulator.Merge(itemID, p)
}
