package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/meadowmc/economyd/internal/domain/catalog"
	"github.com/meadowmc/economyd/internal/domain/settings"
	"github.com/meadowmc/economyd/internal/domain/shared"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
	four    = decimal.NewFromInt(4)
)

// TickInput is everything one item's repricing step reads. All values are
// snapshots taken at tick entry, so the computation is deterministic.
type TickInput struct {
	Item          *catalog.Item
	PreviousPrice decimal.Decimal
	Pressure      ItemPressure
	Params        settings.EngineParams
	OnlineCount   int
	Now           time.Time
}

// TickResult is the outcome of one item's repricing step.
type TickResult struct {
	ItemID        string
	TickTime      time.Time
	PreviousPrice decimal.Decimal
	NewPrice      decimal.Decimal
	ChangePercent decimal.Decimal
	Demand        decimal.Decimal
	Supply        decimal.Decimal
	Net           decimal.Decimal
	Pressure      ItemPressure
	OnlineCount   int
	Correction    decimal.Decimal
}

// ComputeTick folds one tick interval's pressure into a new price:
//
//  1. demand = buy_volume/S, supply = sell_volume/S with S = max(1, base
//     online players), both at three fractional digits
//  2. change = clamp(demand - supply, +/-max_price_change)
//  3. candidate = previous * (1 + change)
//  4. candidate is projected into the ratio band around the base ask
//     intersected with the absolute [min, max] band, then rounded half-up
//     to cents
//
// A zero net pressure holds the price. An empty period instead decays the
// price toward the base ask by at most max_price_change/4.
func ComputeTick(in TickInput) (*TickResult, error) {
	item := in.Item
	prev := in.PreviousPrice
	if prev.Sign() <= 0 {
		// Unset price: first activation defaults to the base ask.
		prev = item.BaseSellPrice()
	}

	lo, hi := item.PriceBand(in.Params.MinPriceRatio, in.Params.MaxPriceRatio)
	if lo.GreaterThan(hi) {
		return nil, &ErrEngineFault{
			ItemID: item.ID(),
			Reason: "effective price band is empty: floor " + lo.String() + " above ceiling " + hi.String(),
		}
	}

	scale := decimal.NewFromInt(int64(max(1, in.Params.BaseOnlinePlayers)))
	demand := shared.RoundPressure(in.Pressure.BuyVolume.Div(scale))
	supply := shared.RoundPressure(in.Pressure.SellVolume.Div(scale))
	net := demand.Sub(supply)

	var candidate decimal.Decimal
	switch {
	case in.Pressure.IsEmpty():
		candidate = decayTowardBase(prev, item.BaseSellPrice(), in.Params.MaxPriceChange)
	case net.IsZero():
		candidate = prev
	default:
		change := clampChange(net, in.Params.MaxPriceChange)
		candidate = prev.Mul(one.Add(change))
	}

	newPrice := shared.RoundMoney(clampTo(candidate, lo, hi))
	if newPrice.Sign() <= 0 {
		return nil, &ErrEngineFault{ItemID: item.ID(), Reason: "repricing produced a non-positive price"}
	}

	return &TickResult{
		ItemID:        item.ID(),
		TickTime:      in.Now,
		PreviousPrice: prev,
		NewPrice:      newPrice,
		ChangePercent: percentChange(prev, newPrice),
		Demand:        demand,
		Supply:        supply,
		Net:           net,
		Pressure:      in.Pressure,
		OnlineCount:   in.OnlineCount,
		Correction:    PlayerCorrection(in.OnlineCount, in.Params.BaseOnlinePlayers),
	}, nil
}

// decayTowardBase moves an idle price one step toward the base ask, with
// the step capped at a quarter of the per-tick change bound.
func decayTowardBase(prev, base, maxChange decimal.Decimal) decimal.Decimal {
	diff := base.Sub(prev)
	if diff.IsZero() {
		return prev
	}
	step := prev.Mul(maxChange.Div(four))
	if diff.Abs().LessThanOrEqual(step) {
		return base
	}
	if diff.Sign() > 0 {
		return prev.Add(step)
	}
	return prev.Sub(step)
}

func clampChange(net, maxChange decimal.Decimal) decimal.Decimal {
	if net.GreaterThan(maxChange) {
		return maxChange
	}
	if net.LessThan(maxChange.Neg()) {
		return maxChange.Neg()
	}
	return net
}

func clampTo(p, lo, hi decimal.Decimal) decimal.Decimal {
	if p.LessThan(lo) {
		return lo
	}
	if p.GreaterThan(hi) {
		return hi
	}
	return p
}

func percentChange(prev, next decimal.Decimal) decimal.Decimal {
	if prev.IsZero() {
		return decimal.Zero
	}
	return shared.RoundPressure(next.Sub(prev).Div(prev).Mul(hundred))
}
