package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/meadowmc/economyd/internal/domain/catalog"
	"github.com/meadowmc/economyd/internal/domain/shared"
)

// QuoteBasis values for the quote_basis runtime setting. The default, ask,
// debits buyers at the tracked (ask-derived) price so the vendor spread
// always favors the vendor; bid debits buyers at the bid-derived price.
const (
	QuoteBasisAsk = "ask"
	QuoteBasisBid = "bid"
)

// Quote is the pair of prices the executor applies to a trade, derived from
// the published current price at a tick.
type Quote struct {
	ItemID    string
	BuyPrice  decimal.Decimal // what a player pays per unit when buying
	SellPrice decimal.Decimal // what a player receives per unit when selling
	Tick      time.Time
}

// DeriveQuote computes both quotes from the tracked current price. The sell
// quote preserves the item's configured bid/ask ratio; both sides are
// clamped into the item's absolute band.
func DeriveQuote(item *catalog.Item, current decimal.Decimal, basis string, tick time.Time) Quote {
	bidDerived := item.ClampPrice(shared.RoundMoney(current.Mul(item.BidAskRatio())))
	askDerived := item.ClampPrice(shared.RoundMoney(current))

	buy := askDerived
	if basis == QuoteBasisBid {
		buy = bidDerived
	}

	return Quote{
		ItemID:    item.ID(),
		BuyPrice:  buy,
		SellPrice: bidDerived,
		Tick:      tick,
	}
}
