package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meadowmc/economyd/internal/application/common"
	"github.com/meadowmc/economyd/internal/domain/ledger"
	"github.com/meadowmc/economyd/internal/domain/shared"
)

// GetBalanceQuery reads a player's current balance.
type GetBalanceQuery struct {
	PlayerID string
}

// GetBalanceResponse carries the balance snapshot.
type GetBalanceResponse struct {
	PlayerID    string
	Balance     decimal.Decimal
	LastUpdated time.Time
}

// GetBalanceHandler handles GetBalanceQuery.
type GetBalanceHandler struct {
	ledger ledger.Repository
}

// NewGetBalanceHandler creates the handler.
func NewGetBalanceHandler(ledgerRepo ledger.Repository) *GetBalanceHandler {
	return &GetBalanceHandler{ledger: ledgerRepo}
}

// Handle executes the query.
func (h *GetBalanceHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	q, ok := request.(*GetBalanceQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetBalanceQuery")
	}

	playerID, err := shared.NewPlayerID(q.PlayerID)
	if err != nil {
		return nil, err
	}

	balance, err := h.ledger.Balance(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return &GetBalanceResponse{
		PlayerID:    playerID.Value(),
		Balance:     balance.Balance(),
		LastUpdated: balance.UpdatedAt(),
	}, nil
}
