package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meadowmc/economyd/internal/adapters/persistence"
	"github.com/meadowmc/economyd/internal/application/shop/services"
	"github.com/meadowmc/economyd/internal/domain/catalog"
	"github.com/meadowmc/economyd/internal/domain/ledger"
	"github.com/meadowmc/economyd/internal/domain/pricing"
	"github.com/meadowmc/economyd/internal/domain/session"
	"github.com/meadowmc/economyd/internal/domain/shared"
	"github.com/meadowmc/economyd/test/helpers"
)

// Monday evening: the time-of-day weight is at its 1.0 peak, which keeps
// the accumulator arithmetic in the assertions simple.
var tradeTime = time.Date(2025, 6, 2, 19, 0, 0, 0, time.UTC)

type executorFixture struct {
	executor    *services.TradeExecutor
	items       *persistence.GormItemRepository
	ledger      *persistence.GormLedgerRepository
	registry    *session.Registry
	accumulator *pricing.Accumulator
	cache       *pricing.PriceCache
	clock       *shared.MockClock
}

func newExecutorFixture(t *testing.T) *executorFixture {
	t.Helper()
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(tradeTime)

	f := &executorFixture{
		items:       persistence.NewGormItemRepository(db),
		ledger:      persistence.NewGormLedgerRepository(db, clock, decimal.RequireFromString("100.00")),
		registry:    session.NewRegistry(),
		accumulator: pricing.NewAccumulator(),
		cache:       pricing.NewPriceCache(),
		clock:       clock,
	}
	f.executor = services.NewTradeExecutor(
		f.items, f.ledger, f.registry, f.accumulator, f.cache,
		persistence.NewGormSettingsRepository(db), clock, time.UTC, 0,
	)

	require.NoError(t, f.items.Create(context.Background(), helpers.NewTestItem(t, "bread")))
	return f
}

func buyRequest(t *testing.T, player string, quantity int) services.TradeRequest {
	t.Helper()
	return services.TradeRequest{
		PlayerID:   helpers.MustPlayerID(t, player),
		PlayerName: "Steve",
		ItemID:     "bread",
		Direction:  ledger.PlayerBuys,
		Quantity:   quantity,
	}
}

func TestTradeExecutor_BuyDebitsBalance(t *testing.T) {
	f := newExecutorFixture(t)

	result, err := f.executor.Execute(context.Background(), buyRequest(t, "player-1", 3))

	require.NoError(t, err)
	assert.Equal(t, "10.00", result.UnitPrice.StringFixed(2))
	assert.Equal(t, "30.00", result.Total.StringFixed(2))
	assert.Equal(t, "70.00", result.NewBalance.StringFixed(2))
	assert.NotEmpty(t, result.TransactionID)

	balance, err := f.ledger.Balance(context.Background(), helpers.MustPlayerID(t, "player-1"))
	require.NoError(t, err)
	assert.Equal(t, "70.00", balance.Balance().StringFixed(2))

	rows, err := f.ledger.FindByPlayer(context.Background(), helpers.MustPlayerID(t, "player-1"), ledger.DefaultQueryOptions())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, ledger.PlayerBuys, rows[0].Direction())
}

func TestTradeExecutor_SellCreditsBalance(t *testing.T) {
	f := newExecutorFixture(t)

	result, err := f.executor.Execute(context.Background(), services.TradeRequest{
		PlayerID:   helpers.MustPlayerID(t, "player-1"),
		PlayerName: "Steve",
		ItemID:     "bread",
		Direction:  ledger.PlayerSells,
		Quantity:   2,
	})

	require.NoError(t, err)
	// Sellers receive the bid-derived quote: 10.00 * 0.8 = 8.00.
	assert.Equal(t, "8.00", result.UnitPrice.StringFixed(2))
	assert.Equal(t, "116.00", result.NewBalance.StringFixed(2))
}

func TestTradeExecutor_InsufficientFundsLeavesStateUntouched(t *testing.T) {
	f := newExecutorFixture(t)

	_, err := f.executor.Execute(context.Background(), buyRequest(t, "player-1", 11))

	require.Error(t, err)
	var insufficient *ledger.ErrInsufficientFunds
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "100.00", insufficient.Balance.StringFixed(2))
	assert.Equal(t, "110.00", insufficient.Required.StringFixed(2))

	balance, balErr := f.ledger.Balance(context.Background(), helpers.MustPlayerID(t, "player-1"))
	require.NoError(t, balErr)
	assert.Equal(t, "100.00", balance.Balance().StringFixed(2))

	rows, rowErr := f.ledger.FindByPlayer(context.Background(), helpers.MustPlayerID(t, "player-1"), ledger.DefaultQueryOptions())
	require.NoError(t, rowErr)
	assert.Empty(t, rows)
	assert.True(t, f.accumulator.Peek("bread").IsEmpty())
}

func TestTradeExecutor_FeedsAccumulatorAfterCommit(t *testing.T) {
	f := newExecutorFixture(t)

	_, err := f.executor.Execute(context.Background(), buyRequest(t, "player-1", 10))
	require.NoError(t, err)

	p := f.accumulator.Peek("bread")
	assert.Equal(t, 1, p.BuyCount)
	// No session and an empty server: instant weight 0.3, peak hour 1.0,
	// correction capped at 2.0, so 10 units contribute 6.0.
	assert.Equal(t, "6.0", p.BuyVolume.StringFixed(1))
}

func TestTradeExecutor_SessionWeightScalesContribution(t *testing.T) {
	f := newExecutorFixture(t)
	playerID := helpers.MustPlayerID(t, "player-1")
	tiers := session.DefaultWeightTiers()
	f.registry.OnLogin(playerID, "Steve", tradeTime.Add(-3*time.Hour), tiers)

	_, err := f.executor.Execute(context.Background(), buyRequest(t, "player-1", 10))
	require.NoError(t, err)

	// Long session (1.0), peak hour (1.0), one player online against a base
	// of 25 caps the correction at 2.0: contribution 20.0.
	p := f.accumulator.Peek("bread")
	assert.Equal(t, "20.0", p.BuyVolume.StringFixed(1))
}

func TestTradeExecutor_RejectsBadQuantity(t *testing.T) {
	f := newExecutorFixture(t)

	for _, quantity := range []int{0, -5, 10001} {
		_, err := f.executor.Execute(context.Background(), buyRequest(t, "player-1", quantity))
		require.Error(t, err, "quantity %d", quantity)
		var invalid *ledger.ErrInvalidQuantity
		assert.ErrorAs(t, err, &invalid)
	}
}

func TestTradeExecutor_UnknownItem(t *testing.T) {
	f := newExecutorFixture(t)

	req := buyRequest(t, "player-1", 1)
	req.ItemID = "nothing"
	_, err := f.executor.Execute(context.Background(), req)

	require.Error(t, err)
	var notFound *catalog.ErrItemNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestTradeExecutor_InactiveItem(t *testing.T) {
	f := newExecutorFixture(t)
	require.NoError(t, f.items.Deactivate(context.Background(), "bread"))

	_, err := f.executor.Execute(context.Background(), buyRequest(t, "player-1", 1))

	require.Error(t, err)
	var inactive *catalog.ErrItemInactive
	assert.ErrorAs(t, err, &inactive)
}

func TestTradeExecutor_UsesPublishedQuote(t *testing.T) {
	f := newExecutorFixture(t)
	f.cache.Publish([]pricing.Quote{{
		ItemID:    "bread",
		BuyPrice:  decimal.RequireFromString("12.00"),
		SellPrice: decimal.RequireFromString("9.60"),
		Tick:      tradeTime,
	}})

	result, err := f.executor.Execute(context.Background(), buyRequest(t, "player-1", 1))

	require.NoError(t, err)
	assert.Equal(t, "12.00", result.UnitPrice.StringFixed(2))
}

func TestTradeExecutor_CacheMissInstallsQuote(t *testing.T) {
	f := newExecutorFixture(t)

	_, ok := f.cache.Get("bread")
	require.False(t, ok)

	_, err := f.executor.Execute(context.Background(), buyRequest(t, "player-1", 1))
	require.NoError(t, err)

	q, ok := f.cache.Get("bread")
	require.True(t, ok)
	assert.Equal(t, "10.00", q.BuyPrice.StringFixed(2))
}

func TestTradeExecutor_CancelledContextStopsBeforeCommit(t *testing.T) {
	f := newExecutorFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.executor.Execute(ctx, buyRequest(t, "player-1", 1))

	require.Error(t, err)
	rows, rowErr := f.ledger.FindByPlayer(context.Background(), helpers.MustPlayerID(t, "player-1"), ledger.DefaultQueryOptions())
	require.NoError(t, rowErr)
	assert.Empty(t, rows)
}

func TestTradeExecutor_BatchPartialSuccess(t *testing.T) {
	f := newExecutorFixture(t)
	playerID := helpers.MustPlayerID(t, "player-1")

	entries := []services.TradeRequest{
		{ItemID: "bread", Direction: ledger.PlayerBuys, Quantity: 5},   // 50.00, ok
		{ItemID: "bread", Direction: ledger.PlayerBuys, Quantity: 8},   // 80.00 > 50.00 left
		{ItemID: "nothing", Direction: ledger.PlayerBuys, Quantity: 1}, // unknown item
		{ItemID: "bread", Direction: ledger.PlayerBuys, Quantity: 2},   // 20.00, ok
	}

	results, err := f.executor.ExecuteBatch(context.Background(), playerID, "Steve", entries)

	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.Error(t, results[2].Err)
	assert.NoError(t, results[3].Err)

	// Earlier successes persist even though later entries failed.
	balance, balErr := f.ledger.Balance(context.Background(), playerID)
	require.NoError(t, balErr)
	assert.Equal(t, "30.00", balance.Balance().StringFixed(2))

	count, countErr := f.ledger.CountByPlayer(context.Background(), playerID, ledger.QueryOptions{})
	require.NoError(t, countErr)
	assert.Equal(t, 2, count)
}

func TestTradeExecutor_BatchBounds(t *testing.T) {
	f := newExecutorFixture(t)
	playerID := helpers.MustPlayerID(t, "player-1")

	_, err := f.executor.ExecuteBatch(context.Background(), playerID, "Steve", nil)
	assert.Error(t, err)

	oversize := make([]services.TradeRequest, services.MaxBatchSize+1)
	for i := range oversize {
		oversize[i] = services.TradeRequest{ItemID: "bread", Direction: ledger.PlayerBuys, Quantity: 1}
	}
	_, err = f.executor.ExecuteBatch(context.Background(), playerID, "Steve", oversize)
	assert.Error(t, err)
}

func TestTradeExecutor_ConcurrentBuysNeverOverdraw(t *testing.T) {
	f := newExecutorFixture(t)

	// 20 competing buys of 10.00 each against a 100.00 balance: exactly ten
	// can commit, the rest bounce off the balance check under the lock.
	var wg sync.WaitGroup
	errs := make([]error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.executor.Execute(context.Background(), buyRequest(t, "player-1", 1))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			var insufficient *ledger.ErrInsufficientFunds
			assert.ErrorAs(t, err, &insufficient)
		}
	}
	assert.Equal(t, 10, succeeded)

	balance, err := f.ledger.Balance(context.Background(), helpers.MustPlayerID(t, "player-1"))
	require.NoError(t, err)
	assert.Equal(t, "0.00", balance.Balance().StringFixed(2))

	assert.Equal(t, 10, f.accumulator.Peek("bread").BuyCount)
}

func TestTradeExecutor_ConcurrentPlayersOneItem(t *testing.T) {
	f := newExecutorFixture(t)

	// Distinct players contend only on the shared item and the ledger
	// store, not on a player lock: every buy must commit and every
	// contribution must land in the accumulator exactly once.
	players := 1000
	if testing.Short() {
		players = 50
	}
	var wg sync.WaitGroup
	errs := make([]error, players)
	for i := 0; i < players; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.executor.Execute(context.Background(), buyRequest(t, fmt.Sprintf("player-%d", i), 2))
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "player %d", i)
	}

	p := f.accumulator.Peek("bread")
	assert.Equal(t, players, p.BuyCount)

	balance, err := f.ledger.Balance(context.Background(), helpers.MustPlayerID(t, "player-7"))
	require.NoError(t, err)
	assert.Equal(t, "80.00", balance.Balance().StringFixed(2))

	count, err := f.ledger.CountByItemSince(context.Background(), "bread", ledger.PlayerBuys, tradeTime.Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, players, count)
}

func TestTradeExecutor_QuoteEndpointReadPath(t *testing.T) {
	f := newExecutorFixture(t)

	q, err := f.executor.Quote(context.Background(), "bread")
	require.NoError(t, err)
	assert.Equal(t, "10.00", q.BuyPrice.StringFixed(2))
	assert.Equal(t, "8.00", q.SellPrice.StringFixed(2))

	_, err = f.executor.Quote(context.Background(), "nothing")
	assert.Error(t, err)
}
