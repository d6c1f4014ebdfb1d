package httpapi

import (
	"time"

	"github.com/meadowmc/economyd/internal/application/shop/services"
	"github.com/meadowmc/economyd/internal/domain/catalog"
	"github.com/meadowmc/economyd/internal/domain/ledger"
	"github.com/meadowmc/economyd/internal/domain/pricing"
)

// Monetary values serialize as fixed-point strings so clients never see
// float artifacts.

type itemDTO struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Hunger        int     `json:"hunger"`
	Saturation    float64 `json:"saturation"`
	Complexity    string  `json:"complexity"`
	BaseSellPrice string  `json:"baseSellPrice"`
	BaseBuyPrice  string  `json:"baseBuyPrice"`
	MinPrice      string  `json:"minPrice"`
	MaxPrice      string  `json:"maxPrice"`
	CurrentPrice  string  `json:"currentPrice"`
	Active        bool    `json:"active"`
}

func toItemDTO(item *catalog.Item) itemDTO {
	return itemDTO{
		ID:            item.ID(),
		Name:          item.Name(),
		Category:      item.Category().String(),
		Hunger:        item.Hunger(),
		Saturation:    item.Saturation(),
		Complexity:    item.Complexity().String(),
		BaseSellPrice: item.BaseSellPrice().StringFixed(2),
		BaseBuyPrice:  item.BaseBuyPrice().StringFixed(2),
		MinPrice:      item.MinPrice().StringFixed(2),
		MaxPrice:      item.MaxPrice().StringFixed(2),
		CurrentPrice:  item.CurrentPrice().StringFixed(2),
		Active:        item.IsActive(),
	}
}

type tradeResultDTO struct {
	TransactionID string    `json:"transactionId"`
	ItemID        string    `json:"itemId"`
	Type          string    `json:"type"`
	Quantity      int       `json:"quantity"`
	UnitPrice     string    `json:"unitPrice"`
	Total         string    `json:"total"`
	NewBalance    string    `json:"newBalance"`
	Timestamp     time.Time `json:"timestamp"`
}

func toTradeResultDTO(r *services.TradeResult) tradeResultDTO {
	return tradeResultDTO{
		TransactionID: r.TransactionID,
		ItemID:        r.ItemID,
		Type:          r.Direction.String(),
		Quantity:      r.Quantity,
		UnitPrice:     r.UnitPrice.StringFixed(2),
		Total:         r.Total.StringFixed(2),
		NewBalance:    r.NewBalance.StringFixed(2),
		Timestamp:     r.CreatedAt,
	}
}

type batchEntryDTO struct {
	Index  int             `json:"index"`
	OK     bool            `json:"ok"`
	Error  string          `json:"error,omitempty"`
	Result *tradeResultDTO `json:"result,omitempty"`
}

func toBatchEntryDTOs(results []services.BatchEntryResult) []batchEntryDTO {
	out := make([]batchEntryDTO, len(results))
	for i, r := range results {
		dto := batchEntryDTO{Index: r.Index, OK: r.Err == nil}
		if r.Err != nil {
			dto.Error = r.Err.Error()
		}
		if r.Result != nil {
			res := toTradeResultDTO(r.Result)
			dto.Result = &res
		}
		out[i] = dto
	}
	return out
}

type transactionDTO struct {
	ID             string    `json:"id"`
	PlayerID       string    `json:"playerId"`
	PlayerName     string    `json:"playerName"`
	ItemID         string    `json:"itemId"`
	Type           string    `json:"type"`
	Quantity       int       `json:"quantity"`
	UnitPrice      string    `json:"unitPrice"`
	Total          string    `json:"total"`
	DemandPressure string    `json:"demandPressure"`
	SupplyPressure string    `json:"supplyPressure"`
	OnlineCount    int       `json:"onlineCount"`
	Timestamp      time.Time `json:"timestamp"`
}

func toTransactionDTOs(txns []*ledger.Transaction) []transactionDTO {
	out := make([]transactionDTO, len(txns))
	for i, t := range txns {
		out[i] = transactionDTO{
			ID:             t.ID().String(),
			PlayerID:       t.PlayerID().Value(),
			PlayerName:     t.PlayerName(),
			ItemID:         t.ItemID(),
			Type:           t.Direction().String(),
			Quantity:       t.Quantity(),
			UnitPrice:      t.UnitPrice().StringFixed(2),
			Total:          t.Total().StringFixed(2),
			DemandPressure: t.DemandPressure().StringFixed(3),
			SupplyPressure: t.SupplyPressure().StringFixed(3),
			OnlineCount:    t.OnlineCount(),
			Timestamp:      t.CreatedAt(),
		}
	}
	return out
}

type quoteDTO struct {
	ItemID      string    `json:"itemId"`
	BuyPrice    string    `json:"buyPrice"`
	SellPrice   string    `json:"sellPrice"`
	LastUpdated time.Time `json:"lastUpdated"`
}

func toQuoteDTO(q pricing.Quote) quoteDTO {
	return quoteDTO{
		ItemID:      q.ItemID,
		BuyPrice:    q.BuyPrice.StringFixed(2),
		SellPrice:   q.SellPrice.StringFixed(2),
		LastUpdated: q.Tick,
	}
}

type historyEntryDTO struct {
	TickTime      time.Time `json:"tickTime"`
	PreviousPrice string    `json:"previousPrice"`
	NewPrice      string    `json:"newPrice"`
	ChangePercent string    `json:"changePercent"`
	Demand        string    `json:"demand"`
	Supply        string    `json:"supply"`
	Net           string    `json:"net"`
	BuyCount      int       `json:"buyCount"`
	SellCount     int       `json:"sellCount"`
	BuyVolume     string    `json:"buyVolume"`
	SellVolume    string    `json:"sellVolume"`
	OnlineCount   int       `json:"onlineCount"`
	Direction     string    `json:"direction"`
	Condition     string    `json:"condition"`
}

func toHistoryEntryDTOs(entries []*pricing.PriceHistoryEntry) []historyEntryDTO {
	out := make([]historyEntryDTO, len(entries))
	for i, e := range entries {
		out[i] = historyEntryDTO{
			TickTime:      e.TickTime(),
			PreviousPrice: e.PreviousPrice().StringFixed(2),
			NewPrice:      e.NewPrice().StringFixed(2),
			ChangePercent: e.ChangePercent().StringFixed(3),
			Demand:        e.Demand().StringFixed(3),
			Supply:        e.Supply().StringFixed(3),
			Net:           e.Net().StringFixed(3),
			BuyCount:      e.BuyCount(),
			SellCount:     e.SellCount(),
			BuyVolume:     e.BuyVolume().StringFixed(1),
			SellVolume:    e.SellVolume().StringFixed(1),
			OnlineCount:   e.OnlineCount(),
			Direction:     e.PriceDirection(),
			Condition:     e.MarketCondition(),
		}
	}
	return out
}

type trendDTO struct {
	ItemID        string `json:"itemId"`
	CurrentPrice  string `json:"currentPrice"`
	PredictedNext string `json:"predictedNext"`
	Slope         string `json:"slope"`
	SampleCount   int    `json:"sampleCount"`
}

func toTrendDTO(h pricing.TrendHint) trendDTO {
	return trendDTO{
		ItemID:        h.ItemID,
		CurrentPrice:  h.CurrentPrice.StringFixed(2),
		PredictedNext: h.PredictedNext.StringFixed(2),
		Slope:         h.Slope.StringFixed(2),
		SampleCount:   h.SampleCount,
	}
}
