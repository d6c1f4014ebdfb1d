package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/meadowmc/economyd/internal/domain/catalog"
	"github.com/meadowmc/economyd/internal/domain/ledger"
	"github.com/meadowmc/economyd/internal/domain/pricing"
	"github.com/meadowmc/economyd/internal/domain/session"
	"github.com/meadowmc/economyd/internal/domain/settings"
	"github.com/meadowmc/economyd/internal/domain/shared"
)

// DefaultCommitTimeout bounds one ledger commit, retries included.
const DefaultCommitTimeout = 2 * time.Second

// MaxBatchSize bounds one batch request.
const MaxBatchSize = 50

// TradeRequest describes one trade to execute.
type TradeRequest struct {
	PlayerID   shared.PlayerID
	PlayerName string
	ItemID     string
	Direction  ledger.Direction
	Quantity   int
}

// TradeResult reports a committed trade.
type TradeResult struct {
	TransactionID string
	ItemID        string
	Direction     ledger.Direction
	Quantity      int
	UnitPrice     decimal.Decimal
	Total         decimal.Decimal
	NewBalance    decimal.Decimal
	CreatedAt     time.Time
}

// BatchEntryResult reports one entry of a batch. Err is nil on success.
type BatchEntryResult struct {
	Index  int
	Result *TradeResult
	Err    error
}

// TradeExecutor is the transaction path: quote, balance check, atomic
// ledger commit, accumulator feed, all under a per-player lock.
type TradeExecutor struct {
	items         catalog.ItemRepository
	ledger        ledger.Repository
	sessions      *session.Registry
	accumulator   *pricing.Accumulator
	cache         *pricing.PriceCache
	settings      settings.Repository
	clock         shared.Clock
	location      *time.Location
	commitTimeout time.Duration
	locks         *playerLocks
}

// NewTradeExecutor wires the executor. location is the zone used for the
// time-of-day weight; a zero commitTimeout falls back to the default.
func NewTradeExecutor(
	items catalog.ItemRepository,
	ledgerRepo ledger.Repository,
	sessions *session.Registry,
	accumulator *pricing.Accumulator,
	cache *pricing.PriceCache,
	settingsRepo settings.Repository,
	clock shared.Clock,
	location *time.Location,
	commitTimeout time.Duration,
) *TradeExecutor {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if location == nil {
		location = time.Local
	}
	if commitTimeout <= 0 {
		commitTimeout = DefaultCommitTimeout
	}
	return &TradeExecutor{
		items:         items,
		ledger:        ledgerRepo,
		sessions:      sessions,
		accumulator:   accumulator,
		cache:         cache,
		settings:      settingsRepo,
		clock:         clock,
		location:      location,
		commitTimeout: commitTimeout,
		locks:         newPlayerLocks(),
	}
}

// Execute runs a single trade. Any failure leaves balance, transaction log
// and accumulator untouched.
func (e *TradeExecutor) Execute(ctx context.Context, req TradeRequest) (*TradeResult, error) {
	item, params, err := e.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	lock := e.locks.forPlayer(req.PlayerID.Value())
	lock.Lock()
	defer lock.Unlock()

	return e.executeLocked(ctx, req, item, params)
}

// ExecuteBatch runs up to MaxBatchSize trades for one player under a single
// lock acquisition. Entries execute in order; earlier successes persist even
// when a later entry fails.
func (e *TradeExecutor) ExecuteBatch(ctx context.Context, playerID shared.PlayerID, playerName string, entries []TradeRequest) ([]BatchEntryResult, error) {
	if len(entries) == 0 {
		return nil, &ledger.ErrInvalidTransaction{Field: "transactions", Reason: "batch cannot be empty"}
	}
	if len(entries) > MaxBatchSize {
		return nil, &ledger.ErrInvalidTransaction{Field: "transactions", Reason: "batch exceeds 50 entries"}
	}

	lock := e.locks.forPlayer(playerID.Value())
	lock.Lock()
	defer lock.Unlock()

	results := make([]BatchEntryResult, 0, len(entries))
	for i, entry := range entries {
		entry.PlayerID = playerID
		entry.PlayerName = playerName

		item, params, err := e.prepare(ctx, entry)
		if err != nil {
			results = append(results, BatchEntryResult{Index: i, Err: err})
			continue
		}
		res, err := e.executeLocked(ctx, entry, item, params)
		results = append(results, BatchEntryResult{Index: i, Result: res, Err: err})
	}
	return results, nil
}

// prepare validates the request and reads the item and settings snapshot.
// Runs outside the per-player lock; nothing here mutates state.
func (e *TradeExecutor) prepare(ctx context.Context, req TradeRequest) (*catalog.Item, settings.EngineParams, error) {
	var params settings.EngineParams

	if req.Quantity < ledger.MinQuantity || req.Quantity > ledger.MaxQuantity {
		return nil, params, &ledger.ErrInvalidQuantity{Quantity: req.Quantity}
	}
	if !req.Direction.IsValid() {
		return nil, params, &ledger.ErrInvalidTransaction{Field: "direction", Reason: "unknown direction"}
	}

	item, err := e.items.FindByID(ctx, req.ItemID)
	if err != nil {
		return nil, params, err
	}
	if !item.IsActive() {
		return nil, params, &catalog.ErrItemInactive{ID: item.ID()}
	}

	snap, err := e.settings.All(ctx)
	if err != nil {
		return nil, params, &ledger.ErrStorage{Op: "settings read", Err: err}
	}
	return item, snap.Params(), nil
}

// executeLocked runs the mutating part of a trade. The caller holds the
// player's lock.
func (e *TradeExecutor) executeLocked(ctx context.Context, req TradeRequest, item *catalog.Item, params settings.EngineParams) (*TradeResult, error) {
	now := e.clock.Now()

	balance, err := e.ledger.Balance(ctx, req.PlayerID)
	if err != nil {
		return nil, &ledger.ErrStorage{Op: "balance read", Err: err}
	}

	quote := e.quoteFor(ctx, item, params, now)
	unit := quote.BuyPrice
	if req.Direction == ledger.PlayerSells {
		unit = quote.SellPrice
	}
	total := shared.RoundMoney(unit.Mul(decimal.NewFromInt(int64(req.Quantity))))

	var newBalance decimal.Decimal
	if req.Direction == ledger.PlayerBuys {
		if !balance.CanAfford(total) {
			return nil, &ledger.ErrInsufficientFunds{
				PlayerID: req.PlayerID.Value(),
				Balance:  balance.Balance(),
				Required: total,
			}
		}
		newBalance = balance.Balance().Sub(total)
	} else {
		newBalance = balance.Balance().Add(total)
	}

	scale := decimal.NewFromInt(int64(max(1, params.BaseOnlinePlayers)))
	demand, supply := e.accumulator.Pressures(item.ID(), scale)
	online := e.sessions.OnlineCount()

	txn, err := ledger.NewTransaction(
		req.PlayerID, req.PlayerName, item.ID(), req.Direction, req.Quantity,
		unit, total, demand, supply, online, now,
	)
	if err != nil {
		return nil, err
	}

	// Request-scoped cancellation stops the trade only up to this point.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Once the commit starts it runs to completion, detached from the
	// caller's cancellation, bounded only by the commit deadline.
	commitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.commitTimeout)
	defer cancel()
	if err := e.ledger.Commit(commitCtx, txn, newBalance); err != nil {
		return nil, err
	}

	// The transaction exists; account it to the current tick period. The
	// per-player lock orders this feed against the drain.
	weight := pricing.ContributionWeight(
		e.sessions.WeightFor(req.PlayerID, now, params.WeightTiers),
		pricing.TimeOfDayWeight(now.In(e.location)),
		pricing.PlayerCorrection(online, params.BaseOnlinePlayers),
	)
	e.accumulator.Record(item.ID(), req.Direction, req.Quantity, weight)

	log.Info().
		Str("player", req.PlayerID.Value()).
		Str("item", item.ID()).
		Str("direction", req.Direction.String()).
		Int("quantity", req.Quantity).
		Str("unit", unit.String()).
		Str("total", total.String()).
		Str("balance", newBalance.String()).
		Msg("trade committed")

	return &TradeResult{
		TransactionID: txn.ID().String(),
		ItemID:        item.ID(),
		Direction:     req.Direction,
		Quantity:      req.Quantity,
		UnitPrice:     unit,
		Total:         total,
		NewBalance:    newBalance,
		CreatedAt:     now,
	}, nil
}

// quoteFor reads the published quote, computing and installing one from the
// item's tracked price on a miss.
func (e *TradeExecutor) quoteFor(ctx context.Context, item *catalog.Item, params settings.EngineParams, now time.Time) pricing.Quote {
	if q, ok := e.cache.Get(item.ID()); ok {
		return q
	}
	q := pricing.DeriveQuote(item, item.CurrentPrice(), params.QuoteBasis, now)
	e.cache.Install(q)
	return q
}

// Quote exposes the read path used by the price endpoint.
func (e *TradeExecutor) Quote(ctx context.Context, itemID string) (pricing.Quote, error) {
	if q, ok := e.cache.Get(itemID); ok {
		return q, nil
	}

	item, err := e.items.FindByID(ctx, itemID)
	if err != nil {
		return pricing.Quote{}, err
	}
	snap, err := e.settings.All(ctx)
	if err != nil {
		return pricing.Quote{}, &ledger.ErrStorage{Op: "settings read", Err: err}
	}
	q := pricing.DeriveQuote(item, item.CurrentPrice(), snap.Params().QuoteBasis, e.clock.Now())
	e.cache.Install(q)
	return q, nil
}
