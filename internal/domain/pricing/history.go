package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

// Price direction classifications derived from a history row.
const (
	DirectionRising  = "RISING"
	DirectionFalling = "FALLING"
	DirectionStable  = "STABLE"
)

// Market condition classifications derived from a history row.
const (
	ConditionCalm     = "CALM"
	ConditionActive   = "ACTIVE"
	ConditionVolatile = "VOLATILE"
)

var (
	conditionActiveNet   = decimal.NewFromFloat(0.1)
	conditionVolatileNet = decimal.NewFromFloat(0.5)
)

// PriceHistoryEntry records one item's repricing step. Entries reference
// items by id only and are immutable once appended.
type PriceHistoryEntry struct {
	id            int64
	itemID        string
	tickTime      time.Time
	previousPrice decimal.Decimal
	newPrice      decimal.Decimal
	changePercent decimal.Decimal
	demand        decimal.Decimal
	supply        decimal.Decimal
	net           decimal.Decimal
	buyCount      int
	sellCount     int
	buyVolume     decimal.Decimal
	sellVolume    decimal.Decimal
	onlineCount   int
	correction    decimal.Decimal
}

// NewPriceHistoryEntry builds the history row for a completed tick step.
func NewPriceHistoryEntry(r *TickResult) *PriceHistoryEntry {
	return &PriceHistoryEntry{
		itemID:        r.ItemID,
		tickTime:      r.TickTime,
		previousPrice: r.PreviousPrice,
		newPrice:      r.NewPrice,
		changePercent: r.ChangePercent,
		demand:        r.Demand,
		supply:        r.Supply,
		net:           r.Net,
		buyCount:      r.Pressure.BuyCount,
		sellCount:     r.Pressure.SellCount,
		buyVolume:     r.Pressure.BuyVolume,
		sellVolume:    r.Pressure.SellVolume,
		onlineCount:   r.OnlineCount,
		correction:    r.Correction,
	}
}

// ReconstructPriceHistoryEntry rebuilds an entry from persistence.
func ReconstructPriceHistoryEntry(
	id int64,
	itemID string,
	tickTime time.Time,
	previousPrice decimal.Decimal,
	newPrice decimal.Decimal,
	changePercent decimal.Decimal,
	demand decimal.Decimal,
	supply decimal.Decimal,
	net decimal.Decimal,
	buyCount int,
	sellCount int,
	buyVolume decimal.Decimal,
	sellVolume decimal.Decimal,
	onlineCount int,
	correction decimal.Decimal,
) *PriceHistoryEntry {
	return &PriceHistoryEntry{
		id:            id,
		itemID:        itemID,
		tickTime:      tickTime,
		previousPrice: previousPrice,
		newPrice:      newPrice,
		changePercent: changePercent,
		demand:        demand,
		supply:        supply,
		net:           net,
		buyCount:      buyCount,
		sellCount:     sellCount,
		buyVolume:     buyVolume,
		sellVolume:    sellVolume,
		onlineCount:   onlineCount,
		correction:    correction,
	}
}

func (h *PriceHistoryEntry) ID() int64                      { return h.id }
func (h *PriceHistoryEntry) ItemID() string                 { return h.itemID }
func (h *PriceHistoryEntry) TickTime() time.Time            { return h.tickTime }
func (h *PriceHistoryEntry) PreviousPrice() decimal.Decimal { return h.previousPrice }
func (h *PriceHistoryEntry) NewPrice() decimal.Decimal      { return h.newPrice }
func (h *PriceHistoryEntry) ChangePercent() decimal.Decimal { return h.changePercent }
func (h *PriceHistoryEntry) Demand() decimal.Decimal        { return h.demand }
func (h *PriceHistoryEntry) Supply() decimal.Decimal        { return h.supply }
func (h *PriceHistoryEntry) Net() decimal.Decimal           { return h.net }
func (h *PriceHistoryEntry) BuyCount() int                  { return h.buyCount }
func (h *PriceHistoryEntry) SellCount() int                 { return h.sellCount }
func (h *PriceHistoryEntry) BuyVolume() decimal.Decimal     { return h.buyVolume }
func (h *PriceHistoryEntry) SellVolume() decimal.Decimal    { return h.sellVolume }
func (h *PriceHistoryEntry) OnlineCount() int               { return h.onlineCount }
func (h *PriceHistoryEntry) Correction() decimal.Decimal    { return h.correction }

// PriceDirection classifies the row's price move.
func (h *PriceHistoryEntry) PriceDirection() string {
	switch h.changePercent.Sign() {
	case 1:
		return DirectionRising
	case -1:
		return DirectionFalling
	default:
		return DirectionStable
	}
}

// MarketCondition buckets the row's net pressure magnitude.
func (h *PriceHistoryEntry) MarketCondition() string {
	mag := h.net.Abs()
	switch {
	case mag.GreaterThanOrEqual(conditionVolatileNet):
		return ConditionVolatile
	case mag.GreaterThanOrEqual(conditionActiveNet):
		return ConditionActive
	default:
		return ConditionCalm
	}
}
