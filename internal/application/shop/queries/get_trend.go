package queries

import (
	"context"
	"fmt"

	"github.com/meadowmc/economyd/internal/application/common"
	"github.com/meadowmc/economyd/internal/domain/catalog"
	"github.com/meadowmc/economyd/internal/domain/pricing"
)

// GetTrendQuery extrapolates an item's next price from recent history.
type GetTrendQuery struct {
	ItemID string
}

// GetTrendResponse carries the hint.
type GetTrendResponse struct {
	Hint pricing.TrendHint
}

// GetTrendHandler handles GetTrendQuery.
type GetTrendHandler struct {
	items   catalog.ItemRepository
	history pricing.HistoryRepository
}

// NewGetTrendHandler creates the handler.
func NewGetTrendHandler(items catalog.ItemRepository, history pricing.HistoryRepository) *GetTrendHandler {
	return &GetTrendHandler{items: items, history: history}
}

// Handle executes the query.
func (h *GetTrendHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	q, ok := request.(*GetTrendQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetTrendQuery")
	}

	item, err := h.items.FindByID(ctx, q.ItemID)
	if err != nil {
		return nil, err
	}

	entries, err := h.history.Recent(ctx, q.ItemID, 2)
	if err != nil {
		return nil, err
	}
	hint := pricing.ComputeTrend(q.ItemID, entries)
	if hint.SampleCount == 0 {
		// No ticks recorded yet; fall back to the stored price.
		hint.CurrentPrice = item.CurrentPrice()
		hint.PredictedNext = item.CurrentPrice()
	}
	return &GetTrendResponse{Hint: hint}, nil
}
