package queries

import (
	"context"
	"fmt"

	"github.com/meadowmc/economyd/internal/application/common"
	"github.com/meadowmc/economyd/internal/domain/catalog"
)

// GetItemsQuery lists active catalog items, optionally by category.
type GetItemsQuery struct {
	Category string // optional
}

// GetItemsResponse carries the listing.
type GetItemsResponse struct {
	Items []*catalog.Item
}

// GetItemsHandler handles GetItemsQuery.
type GetItemsHandler struct {
	items catalog.ItemRepository
}

// NewGetItemsHandler creates the handler.
func NewGetItemsHandler(items catalog.ItemRepository) *GetItemsHandler {
	return &GetItemsHandler{items: items}
}

// Handle executes the query.
func (h *GetItemsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	q, ok := request.(*GetItemsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetItemsQuery")
	}

	var category *catalog.Category
	if q.Category != "" {
		c, err := catalog.ParseCategory(q.Category)
		if err != nil {
			return nil, &catalog.ErrInvalidItem{Field: "category", Reason: err.Error()}
		}
		category = &c
	}

	items, err := h.items.FindAll(ctx, category, false)
	if err != nil {
		return nil, err
	}
	return &GetItemsResponse{Items: items}, nil
}

// GetItemQuery reads one item by id.
type GetItemQuery struct {
	ItemID string
}

// GetItemResponse carries the item.
type GetItemResponse struct {
	Item *catalog.Item
}

// GetItemHandler handles GetItemQuery.
type GetItemHandler struct {
	items catalog.ItemRepository
}

// NewGetItemHandler creates the handler.
func NewGetItemHandler(items catalog.ItemRepository) *GetItemHandler {
	return &GetItemHandler{items: items}
}

// Handle executes the query.
func (h *GetItemHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	q, ok := request.(*GetItemQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetItemQuery")
	}

	item, err := h.items.FindByID(ctx, q.ItemID)
	if err != nil {
		return nil, err
	}
	return &GetItemResponse{Item: item}, nil
}
