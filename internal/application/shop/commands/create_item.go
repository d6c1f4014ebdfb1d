package commands

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/meadowmc/economyd/internal/application/common"
	"github.com/meadowmc/economyd/internal/domain/catalog"
	"github.com/meadowmc/economyd/internal/domain/shared"
)

// CreateItemCommand registers a new tradable item (admin path).
type CreateItemCommand struct {
	ID            string
	Name          string
	Category      string
	Hunger        int
	Saturation    float64
	Complexity    string
	BaseSellPrice decimal.Decimal
	BaseBuyPrice  decimal.Decimal
	MinPrice      decimal.Decimal
	MaxPrice      decimal.Decimal
}

// CreateItemResponse carries the created item.
type CreateItemResponse struct {
	Item *catalog.Item
}

// CreateItemHandler handles CreateItemCommand.
type CreateItemHandler struct {
	items catalog.ItemRepository
	clock shared.Clock
}

// NewCreateItemHandler creates the handler.
func NewCreateItemHandler(items catalog.ItemRepository, clock shared.Clock) *CreateItemHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &CreateItemHandler{items: items, clock: clock}
}

// Handle executes the command.
func (h *CreateItemHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*CreateItemCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *CreateItemCommand")
	}

	category, err := catalog.ParseCategory(cmd.Category)
	if err != nil {
		return nil, &catalog.ErrInvalidItem{Field: "category", Reason: err.Error()}
	}
	complexity, err := catalog.ParseComplexity(cmd.Complexity)
	if err != nil {
		return nil, &catalog.ErrInvalidItem{Field: "complexity", Reason: err.Error()}
	}

	item, err := catalog.NewItem(
		cmd.ID, cmd.Name, category, cmd.Hunger, cmd.Saturation, complexity,
		cmd.BaseSellPrice, cmd.BaseBuyPrice, cmd.MinPrice, cmd.MaxPrice,
		h.clock.Now(),
	)
	if err != nil {
		return nil, err
	}

	if err := h.items.Create(ctx, item); err != nil {
		return nil, err
	}
	return &CreateItemResponse{Item: item}, nil
}
