package commands

import (
	"context"
	"fmt"

	"github.com/meadowmc/economyd/internal/application/common"
	"github.com/meadowmc/economyd/internal/application/shop/services"
	"github.com/meadowmc/economyd/internal/domain/ledger"
	"github.com/meadowmc/economyd/internal/domain/shared"
)

// BatchEntry is one operation inside a batch.
type BatchEntry struct {
	ItemID    string
	Direction string
	Quantity  int
}

// ExecuteBatchCommand executes up to 50 trades for one player under a single
// player lock. Partial success is allowed; the batch is not atomic.
type ExecuteBatchCommand struct {
	PlayerID   string
	PlayerName string
	Entries    []BatchEntry
}

// ExecuteBatchResponse reports per-entry outcomes.
type ExecuteBatchResponse struct {
	Results []services.BatchEntryResult
}

// ExecuteBatchHandler handles ExecuteBatchCommand.
type ExecuteBatchHandler struct {
	executor *services.TradeExecutor
}

// NewExecuteBatchHandler creates the handler.
func NewExecuteBatchHandler(executor *services.TradeExecutor) *ExecuteBatchHandler {
	return &ExecuteBatchHandler{executor: executor}
}

// Handle executes the command.
func (h *ExecuteBatchHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ExecuteBatchCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ExecuteBatchCommand")
	}

	playerID, err := shared.NewPlayerID(cmd.PlayerID)
	if err != nil {
		return nil, err
	}

	entries := make([]services.TradeRequest, 0, len(cmd.Entries))
	for _, entry := range cmd.Entries {
		direction, err := ledger.ParseDirection(entry.Direction)
		if err != nil {
			// An unparsable direction fails only its own entry, at the
			// position it occupies.
			direction = ledger.Direction(entry.Direction)
		}
		entries = append(entries, services.TradeRequest{
			ItemID:    entry.ItemID,
			Direction: direction,
			Quantity:  entry.Quantity,
		})
	}

	results, err := h.executor.ExecuteBatch(ctx, playerID, cmd.PlayerName, entries)
	if err != nil {
		return nil, err
	}
	return &ExecuteBatchResponse{Results: results}, nil
}
