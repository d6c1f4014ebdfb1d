package commands

import (
	"context"
	"fmt"

	"github.com/meadowmc/economyd/internal/application/common"
	"github.com/meadowmc/economyd/internal/application/shop/services"
	"github.com/meadowmc/economyd/internal/domain/ledger"
	"github.com/meadowmc/economyd/internal/domain/shared"
)

// ExecuteTradeCommand executes one trade against the vendor.
type ExecuteTradeCommand struct {
	PlayerID   string
	PlayerName string
	ItemID     string
	Direction  string
	Quantity   int
}

// ExecuteTradeResponse carries the committed trade.
type ExecuteTradeResponse struct {
	Result *services.TradeResult
}

// ExecuteTradeHandler handles ExecuteTradeCommand.
type ExecuteTradeHandler struct {
	executor *services.TradeExecutor
}

// NewExecuteTradeHandler creates the handler.
func NewExecuteTradeHandler(executor *services.TradeExecutor) *ExecuteTradeHandler {
	return &ExecuteTradeHandler{executor: executor}
}

// Handle executes the command.
func (h *ExecuteTradeHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ExecuteTradeCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ExecuteTradeCommand")
	}

	playerID, err := shared.NewPlayerID(cmd.PlayerID)
	if err != nil {
		return nil, err
	}
	direction, err := ledger.ParseDirection(cmd.Direction)
	if err != nil {
		return nil, &ledger.ErrInvalidTransaction{Field: "direction", Reason: err.Error()}
	}

	result, err := h.executor.Execute(ctx, services.TradeRequest{
		PlayerID:   playerID,
		PlayerName: cmd.PlayerName,
		ItemID:     cmd.ItemID,
		Direction:  direction,
		Quantity:   cmd.Quantity,
	})
	if err != nil {
		return nil, err
	}
	return &ExecuteTradeResponse{Result: result}, nil
}
