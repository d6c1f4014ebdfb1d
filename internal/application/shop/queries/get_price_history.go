package queries

import (
	"context"
	"fmt"

	"github.com/meadowmc/economyd/internal/application/common"
	"github.com/meadowmc/economyd/internal/domain/catalog"
	"github.com/meadowmc/economyd/internal/domain/pricing"
)

// GetPriceHistoryQuery reads recent repricing history for an item.
type GetPriceHistoryQuery struct {
	ItemID string
	Limit  int // defaults to 48, capped at 500
}

// GetPriceHistoryResponse carries the entries, newest first.
type GetPriceHistoryResponse struct {
	ItemID  string
	Entries []*pricing.PriceHistoryEntry
}

// GetPriceHistoryHandler handles GetPriceHistoryQuery.
type GetPriceHistoryHandler struct {
	items   catalog.ItemRepository
	history pricing.HistoryRepository
}

// NewGetPriceHistoryHandler creates the handler.
func NewGetPriceHistoryHandler(items catalog.ItemRepository, history pricing.HistoryRepository) *GetPriceHistoryHandler {
	return &GetPriceHistoryHandler{items: items, history: history}
}

// Handle executes the query.
func (h *GetPriceHistoryHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	q, ok := request.(*GetPriceHistoryQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetPriceHistoryQuery")
	}

	// Unknown items 404 rather than returning an empty log.
	if _, err := h.items.FindByID(ctx, q.ItemID); err != nil {
		return nil, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 48
	}
	if limit > 500 {
		limit = 500
	}

	entries, err := h.history.Recent(ctx, q.ItemID, limit)
	if err != nil {
		return nil, err
	}
	return &GetPriceHistoryResponse{ItemID: q.ItemID, Entries: entries}, nil
}
