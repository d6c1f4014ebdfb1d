package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/meadowmc/economyd/internal/domain/shared"
)

// TrendHint is the read-only linear extrapolation of an item's next price,
// computed from its two most recent history rows. It is a hint, not a
// forecast: the engine never acts on it.
type TrendHint struct {
	ItemID        string
	CurrentPrice  decimal.Decimal
	PredictedNext decimal.Decimal
	Slope         decimal.Decimal // price delta per tick
	SampleCount   int
}

// ComputeTrend derives the hint from history entries ordered newest first.
// With fewer than two samples the slope is zero and the prediction is the
// latest price.
func ComputeTrend(itemID string, entries []*PriceHistoryEntry) TrendHint {
	hint := TrendHint{ItemID: itemID, SampleCount: len(entries)}
	if len(entries) == 0 {
		return hint
	}

	latest := entries[0]
	hint.CurrentPrice = latest.NewPrice()
	hint.PredictedNext = latest.NewPrice()
	if len(entries) < 2 {
		return hint
	}

	hint.Slope = latest.NewPrice().Sub(entries[1].NewPrice())
	hint.PredictedNext = shared.RoundMoney(latest.NewPrice().Add(hint.Slope))
	return hint
}
