package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/meadowmc/economyd/internal/domain/shared"
)

// Item is the catalog aggregate for a tradable good. Prices use vendor-side
// polarity: BaseSellPrice is the vendor ask (what a player pays when buying),
// BaseBuyPrice is the vendor bid (what a player receives when selling).
// Invariants: min <= base_sell <= max, min <= base_buy <= max, and
// base_buy <= base_sell so the spread always favors the vendor.
type Item struct {
	id            string
	name          string
	category      Category
	hunger        int
	saturation    float64
	complexity    Complexity
	baseSellPrice decimal.Decimal
	baseBuyPrice  decimal.Decimal
	minPrice      decimal.Decimal
	maxPrice      decimal.Decimal
	currentPrice  decimal.Decimal
	active        bool
	createdAt     time.Time
}

// NewItem creates an item with validation. The current price starts at the
// base sell price; only repricing ticks move it afterwards.
func NewItem(
	id string,
	name string,
	category Category,
	hunger int,
	saturation float64,
	complexity Complexity,
	baseSellPrice decimal.Decimal,
	baseBuyPrice decimal.Decimal,
	minPrice decimal.Decimal,
	maxPrice decimal.Decimal,
	createdAt time.Time,
) (*Item, error) {
	if id == "" {
		return nil, &ErrInvalidItem{Field: "id", Reason: "item id cannot be empty"}
	}
	if name == "" {
		return nil, &ErrInvalidItem{Field: "name", Reason: "display name cannot be empty"}
	}
	if !category.IsValid() {
		return nil, &ErrInvalidItem{Field: "category", Reason: "unknown category " + category.String()}
	}
	if !validComplexities[complexity] {
		return nil, &ErrInvalidItem{Field: "complexity", Reason: "unknown complexity " + complexity.String()}
	}
	if hunger < 0 {
		return nil, &ErrInvalidItem{Field: "hunger", Reason: "hunger cannot be negative"}
	}
	if minPrice.Sign() <= 0 {
		return nil, &ErrInvalidItem{Field: "min_price", Reason: "floor must be positive"}
	}
	if maxPrice.LessThan(minPrice) {
		return nil, &ErrInvalidItem{Field: "max_price", Reason: "ceiling below floor"}
	}
	if baseSellPrice.LessThan(minPrice) || baseSellPrice.GreaterThan(maxPrice) {
		return nil, &ErrInvalidItem{Field: "base_sell_price", Reason: "base sell price outside [min, max]"}
	}
	if baseBuyPrice.LessThan(minPrice) || baseBuyPrice.GreaterThan(maxPrice) {
		return nil, &ErrInvalidItem{Field: "base_buy_price", Reason: "base buy price outside [min, max]"}
	}
	if baseBuyPrice.GreaterThan(baseSellPrice) {
		return nil, &ErrInvalidItem{Field: "base_buy_price", Reason: "vendor bid above vendor ask"}
	}

	return &Item{
		id:            id,
		name:          name,
		category:      category,
		hunger:        hunger,
		saturation:    saturation,
		complexity:    complexity,
		baseSellPrice: shared.RoundMoney(baseSellPrice),
		baseBuyPrice:  shared.RoundMoney(baseBuyPrice),
		minPrice:      shared.RoundMoney(minPrice),
		maxPrice:      shared.RoundMoney(maxPrice),
		currentPrice:  shared.RoundMoney(baseSellPrice),
		active:        true,
		createdAt:     createdAt,
	}, nil
}

// ReconstructItem rebuilds an item from persistence, bypassing creation
// validation. Used by the repository only.
func ReconstructItem(
	id string,
	name string,
	category Category,
	hunger int,
	saturation float64,
	complexity Complexity,
	baseSellPrice decimal.Decimal,
	baseBuyPrice decimal.Decimal,
	minPrice decimal.Decimal,
	maxPrice decimal.Decimal,
	currentPrice decimal.Decimal,
	active bool,
	createdAt time.Time,
) *Item {
	return &Item{
		id:            id,
		name:          name,
		category:      category,
		hunger:        hunger,
		saturation:    saturation,
		complexity:    complexity,
		baseSellPrice: baseSellPrice,
		baseBuyPrice:  baseBuyPrice,
		minPrice:      minPrice,
		maxPrice:      maxPrice,
		currentPrice:  currentPrice,
		active:        active,
		createdAt:     createdAt,
	}
}

func (i *Item) ID() string                     { return i.id }
func (i *Item) Name() string                   { return i.name }
func (i *Item) Category() Category             { return i.category }
func (i *Item) Hunger() int                    { return i.hunger }
func (i *Item) Saturation() float64            { return i.saturation }
func (i *Item) Complexity() Complexity         { return i.complexity }
func (i *Item) BaseSellPrice() decimal.Decimal { return i.baseSellPrice }
func (i *Item) BaseBuyPrice() decimal.Decimal  { return i.baseBuyPrice }
func (i *Item) MinPrice() decimal.Decimal      { return i.minPrice }
func (i *Item) MaxPrice() decimal.Decimal      { return i.maxPrice }
func (i *Item) CurrentPrice() decimal.Decimal  { return i.currentPrice }
func (i *Item) IsActive() bool                 { return i.active }
func (i *Item) CreatedAt() time.Time           { return i.createdAt }

// ClampPrice projects p into the item's absolute [min, max] band.
func (i *Item) ClampPrice(p decimal.Decimal) decimal.Decimal {
	if p.LessThan(i.minPrice) {
		return i.minPrice
	}
	if p.GreaterThan(i.maxPrice) {
		return i.maxPrice
	}
	return p
}

// PriceBand returns the effective [lo, hi] band for repricing: the ratio
// band around the base ask intersected with the absolute [min, max] band.
func (i *Item) PriceBand(minRatio, maxRatio decimal.Decimal) (lo, hi decimal.Decimal) {
	lo = shared.RoundMoney(i.baseSellPrice.Mul(minRatio))
	hi = shared.RoundMoney(i.baseSellPrice.Mul(maxRatio))
	if lo.LessThan(i.minPrice) {
		lo = i.minPrice
	}
	if hi.GreaterThan(i.maxPrice) {
		hi = i.maxPrice
	}
	return lo, hi
}

// BidAskRatio returns base_buy / base_sell, the multiplier applied to the
// tracked price when quoting a player sale.
func (i *Item) BidAskRatio() decimal.Decimal {
	return i.baseBuyPrice.Div(i.baseSellPrice)
}

// Deactivate soft-deletes the item: invisible to the executor, still
// resolvable by price-history lookups.
func (i *Item) Deactivate() {
	i.active = false
}

// SetCurrentPrice installs the price published by a repricing tick.
func (i *Item) SetCurrentPrice(p decimal.Decimal) {
	i.currentPrice = shared.RoundMoney(p)
}
