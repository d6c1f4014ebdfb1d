package commands

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/meadowmc/economyd/internal/application/common"
	"github.com/meadowmc/economyd/internal/domain/ledger"
	"github.com/meadowmc/economyd/internal/domain/shared"
)

// SetBalanceCommand overwrites a player's balance (admin path).
type SetBalanceCommand struct {
	PlayerID   string
	NewBalance decimal.Decimal
}

// SetBalanceResponse confirms the write.
type SetBalanceResponse struct {
	PlayerID string
	Balance  decimal.Decimal
}

// SetBalanceHandler handles SetBalanceCommand.
type SetBalanceHandler struct {
	ledger ledger.Repository
}

// NewSetBalanceHandler creates the handler.
func NewSetBalanceHandler(ledgerRepo ledger.Repository) *SetBalanceHandler {
	return &SetBalanceHandler{ledger: ledgerRepo}
}

// Handle executes the command.
func (h *SetBalanceHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*SetBalanceCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *SetBalanceCommand")
	}

	playerID, err := shared.NewPlayerID(cmd.PlayerID)
	if err != nil {
		return nil, err
	}
	if cmd.NewBalance.Sign() < 0 {
		return nil, &ledger.ErrInvalidTransaction{Field: "new_balance", Reason: "balance cannot be negative"}
	}

	rounded := shared.RoundMoney(cmd.NewBalance)
	if err := h.ledger.SetBalance(ctx, playerID, rounded); err != nil {
		return nil, err
	}
	return &SetBalanceResponse{PlayerID: playerID.Value(), Balance: rounded}, nil
}
