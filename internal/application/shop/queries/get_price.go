package queries

import (
	"context"
	"fmt"

	"github.com/meadowmc/economyd/internal/application/common"
	"github.com/meadowmc/economyd/internal/application/shop/services"
	"github.com/meadowmc/economyd/internal/domain/catalog"
	"github.com/meadowmc/economyd/internal/domain/pricing"
)

// GetPriceQuery reads the live buy/sell quote for an item.
type GetPriceQuery struct {
	ItemID string
}

// GetPriceResponse carries the quote plus static band context.
type GetPriceResponse struct {
	Quote pricing.Quote
	Item  *catalog.Item
}

// GetPriceHandler handles GetPriceQuery.
type GetPriceHandler struct {
	executor *services.TradeExecutor
	items    catalog.ItemRepository
}

// NewGetPriceHandler creates the handler.
func NewGetPriceHandler(executor *services.TradeExecutor, items catalog.ItemRepository) *GetPriceHandler {
	return &GetPriceHandler{executor: executor, items: items}
}

// Handle executes the query. The quote comes from the same path trades price
// against, so a read here and an immediately following trade agree.
func (h *GetPriceHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	q, ok := request.(*GetPriceQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetPriceQuery")
	}

	item, err := h.items.FindByID(ctx, q.ItemID)
	if err != nil {
		return nil, err
	}
	quote, err := h.executor.Quote(ctx, q.ItemID)
	if err != nil {
		return nil, err
	}
	return &GetPriceResponse{Quote: quote, Item: item}, nil
}
