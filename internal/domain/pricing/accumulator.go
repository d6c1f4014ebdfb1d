package pricing

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/meadowmc/economyd/internal/domain/ledger"
	"github.com/meadowmc/economyd/internal/domain/shared"
)

// ItemPressure carries the four per-item aggregates accumulated since the
// last repricing tick. Raw counts are transaction counts; weighted volumes
// carry one fractional digit.
type ItemPressure struct {
	BuyCount   int
	SellCount  int
	BuyVolume  decimal.Decimal
	SellVolume decimal.Decimal
}

// IsEmpty reports whether no weighted volume accumulated in the period.
func (p ItemPressure) IsEmpty() bool {
	return p.BuyVolume.IsZero() && p.SellVolume.IsZero()
}

// Accumulator is the process-wide pressure store. The executor appends
// contributions under its per-player lock; the tick drains per item with an
// atomic exchange, so every transaction is counted in exactly one tick.
type Accumulator struct {
	mu    sync.Mutex
	items map[string]*ItemPressure
}

// NewAccumulator creates an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{items: make(map[string]*ItemPressure)}
}

// Record adds one transaction's contribution. weight is the combined
// session * time-of-day * player-correction multiplier; the contribution is
// quantity * weight rounded to one fractional digit.
func (a *Accumulator) Record(itemID string, direction ledger.Direction, quantity int, weight decimal.Decimal) {
	contribution := shared.RoundVolume(decimal.NewFromInt(int64(quantity)).Mul(weight))

	a.mu.Lock()
	defer a.mu.Unlock()

	p, ok := a.items[itemID]
	if !ok {
		p = &ItemPressure{}
		a.items[itemID] = p
	}
	if direction == ledger.PlayerBuys {
		p.BuyCount++
		p.BuyVolume = p.BuyVolume.Add(contribution)
	} else {
		p.SellCount++
		p.SellVolume = p.SellVolume.Add(contribution)
	}
}

// Merge folds aggregates back into the item's slot. Used when a tick step
// fails after draining, so the drained transactions reach the next tick.
func (a *Accumulator) Merge(itemID string, in ItemPressure) {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, ok := a.items[itemID]
	if !ok {
		cp := in
		a.items[itemID] = &cp
		return
	}
	p.BuyCount += in.BuyCount
	p.SellCount += in.SellCount
	p.BuyVolume = p.BuyVolume.Add(in.BuyVolume)
	p.SellVolume = p.SellVolume.Add(in.SellVolume)
}

// Drain returns the item's aggregates and zeroes them in one atomic
// exchange.
func (a *Accumulator) Drain(itemID string) ItemPressure {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, ok := a.items[itemID]
	if !ok {
		return ItemPressure{}
	}
	out := *p
	delete(a.items, itemID)
	return out
}

// Peek reads the item's aggregates without resetting them. Used for the
// market snapshot on transaction rows.
func (a *Accumulator) Peek(itemID string) ItemPressure {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, ok := a.items[itemID]
	if !ok {
		return ItemPressure{}
	}
	return *p
}

// Pressures normalizes the current aggregates by the neutral scale,
// returning (demand, supply) at three fractional digits.
func (a *Accumulator) Pressures(itemID string, scale decimal.Decimal) (demand, supply decimal.Decimal) {
	p := a.Peek(itemID)
	return shared.RoundPressure(p.BuyVolume.Div(scale)), shared.RoundPressure(p.SellVolume.Div(scale))
}
