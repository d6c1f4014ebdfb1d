package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/meadowmc/economyd/internal/adapters/persistence"
	"github.com/meadowmc/economyd/internal/application/pricing/services"
	"github.com/meadowmc/economyd/internal/domain/ledger"
	"github.com/meadowmc/economyd/internal/domain/pricing"
	"github.com/meadowmc/economyd/internal/domain/session"
	"github.com/meadowmc/economyd/internal/domain/shared"
	"github.com/meadowmc/economyd/test/helpers"
)

var tickAt = time.Date(2025, 6, 2, 19, 0, 0, 0, time.UTC)

type repriceFixture struct {
	db          *gorm.DB
	service     *services.RepriceService
	items       *persistence.GormItemRepository
	history     *persistence.GormHistoryRepository
	accumulator *pricing.Accumulator
	cache       *pricing.PriceCache
	registry    *session.Registry
	clock       *shared.MockClock
}

func newRepriceFixture(t *testing.T, publisher pricing.Publisher, mirror pricing.QuoteMirror, observer services.TickObserver) *repriceFixture {
	t.Helper()
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(tickAt)

	f := &repriceFixture{
		db:          db,
		items:       persistence.NewGormItemRepository(db),
		history:     persistence.NewGormHistoryRepository(db, clock),
		accumulator: pricing.NewAccumulator(),
		cache:       pricing.NewPriceCache(),
		registry:    session.NewRegistry(),
		clock:       clock,
	}
	if publisher == nil {
		publisher = f.history
	}
	f.service = services.NewRepriceService(
		f.items, publisher, f.accumulator, f.cache, f.registry,
		persistence.NewGormSettingsRepository(db), clock, time.UTC, mirror, observer,
	)

	require.NoError(t, f.items.Create(context.Background(), helpers.NewTestItem(t, "bread")))
	return f
}

type failingPublisher struct{}

func (failingPublisher) PublishTick(ctx context.Context, itemID string, price decimal.Decimal, entry *pricing.PriceHistoryEntry) error {
	return errors.New("disk full")
}

type failingMirror struct{ calls int }

func (m *failingMirror) Mirror(ctx context.Context, quotes []pricing.Quote) error {
	m.calls++
	return errors.New("redis unreachable")
}

type countingObserver struct {
	ticks     int
	durations int
	online    int
}

func (o *countingObserver) ObserveTick(result *pricing.TickResult)         { o.ticks++ }
func (o *countingObserver) ObserveTickDuration(d time.Duration, items int) { o.durations++ }
func (o *countingObserver) SetOnlinePlayers(n int)                         { o.online = n }

func TestRepriceService_DemandTickRaisesPrice(t *testing.T) {
	f := newRepriceFixture(t, nil, nil, nil)
	f.accumulator.Record("bread", ledger.PlayerBuys, 50, decimal.NewFromInt(1))

	err := f.service.TickOnce(context.Background())
	require.NoError(t, err)

	// 50.0/25 = 2.000 demand, clamped to the 10% per-tick bound.
	item, err := f.items.FindByID(context.Background(), "bread")
	require.NoError(t, err)
	assert.Equal(t, "11.00", item.CurrentPrice().StringFixed(2))

	entries, err := f.history.Recent(context.Background(), "bread", 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "10.000", entries[0].ChangePercent().StringFixed(3))
	assert.Equal(t, 1, entries[0].BuyCount())

	q, ok := f.cache.Get("bread")
	require.True(t, ok)
	assert.Equal(t, "11.00", q.BuyPrice.StringFixed(2))
	assert.Equal(t, "8.80", q.SellPrice.StringFixed(2))

	// The tick drained the period.
	assert.True(t, f.accumulator.Peek("bread").IsEmpty())
}

func TestRepriceService_IdleItemDecaysTowardBase(t *testing.T) {
	f := newRepriceFixture(t, nil, nil, nil)
	drifted := helpers.NewTestItem(t, "cheese")
	drifted.SetCurrentPrice(decimal.RequireFromString("20.00"))
	require.NoError(t, f.items.Create(context.Background(), drifted))

	err := f.service.TickOnce(context.Background())
	require.NoError(t, err)

	item, err := f.items.FindByID(context.Background(), "cheese")
	require.NoError(t, err)
	assert.Equal(t, "19.50", item.CurrentPrice().StringFixed(2))
}

func TestRepriceService_PublishFailureRestoresPressure(t *testing.T) {
	f := newRepriceFixture(t, failingPublisher{}, nil, nil)
	f.accumulator.Record("bread", ledger.PlayerBuys, 50, decimal.NewFromInt(1))

	err := f.service.TickOnce(context.Background())
	require.NoError(t, err)

	// The item kept its previous price and the drained pressure was folded
	// back for the next tick.
	item, findErr := f.items.FindByID(context.Background(), "bread")
	require.NoError(t, findErr)
	assert.Equal(t, "10.00", item.CurrentPrice().StringFixed(2))

	p := f.accumulator.Peek("bread")
	assert.Equal(t, 1, p.BuyCount)
	assert.Equal(t, "50.0", p.BuyVolume.StringFixed(1))

	// A failed item publishes no quote.
	_, ok := f.cache.Get("bread")
	assert.False(t, ok)
}

func TestRepriceService_SkipsInactiveItems(t *testing.T) {
	f := newRepriceFixture(t, nil, nil, nil)
	require.NoError(t, f.items.Deactivate(context.Background(), "bread"))

	err := f.service.TickOnce(context.Background())
	require.NoError(t, err)

	entries, err := f.history.Recent(context.Background(), "bread", 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRepriceService_MirrorFailureDoesNotFailTick(t *testing.T) {
	mirror := &failingMirror{}
	f := newRepriceFixture(t, nil, mirror, nil)

	err := f.service.TickOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, mirror.calls)
	item, err := f.items.FindByID(context.Background(), "bread")
	require.NoError(t, err)
	assert.Equal(t, "10.00", item.CurrentPrice().StringFixed(2))
}

func TestRepriceService_NotifiesObserver(t *testing.T) {
	observer := &countingObserver{}
	f := newRepriceFixture(t, nil, nil, observer)
	require.NoError(t, f.items.Create(context.Background(), helpers.NewTestItem(t, "apple")))
	f.registry.OnLogin(helpers.MustPlayerID(t, "player-1"), "Steve", tickAt, session.DefaultWeightTiers())

	err := f.service.TickOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, observer.ticks)
	assert.Equal(t, 1, observer.durations)
	assert.Equal(t, 1, observer.online)
}

func TestRepriceService_CancelledContextStopsBetweenItems(t *testing.T) {
	f := newRepriceFixture(t, nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.service.TickOnce(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	entries, histErr := f.history.Recent(context.Background(), "bread", 10)
	require.NoError(t, histErr)
	assert.Empty(t, entries)
}

func TestRepriceService_RunStopsOnCancel(t *testing.T) {
	f := newRepriceFixture(t, nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- f.service.Run(ctx)
	}()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("repricing loop did not stop on cancel")
	}
}
