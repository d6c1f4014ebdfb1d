package queries

import (
	"context"
	"fmt"

	"github.com/meadowmc/economyd/internal/application/common"
	"github.com/meadowmc/economyd/internal/domain/ledger"
	"github.com/meadowmc/economyd/internal/domain/shared"
)

// GetTransactionsQuery pages through a player's transaction history,
// newest first, optionally filtered by direction.
type GetTransactionsQuery struct {
	PlayerID  string
	Page      int    // 1-based
	Size      int    // defaults to 50, capped at 200
	Direction string // optional BUY or SELL
}

// GetTransactionsResponse is one page of history.
type GetTransactionsResponse struct {
	Transactions []*ledger.Transaction
	Page         int
	Size         int
	Total        int
}

// GetTransactionsHandler handles GetTransactionsQuery.
type GetTransactionsHandler struct {
	ledger ledger.Repository
}

// NewGetTransactionsHandler creates the handler.
func NewGetTransactionsHandler(ledgerRepo ledger.Repository) *GetTransactionsHandler {
	return &GetTransactionsHandler{ledger: ledgerRepo}
}

// Handle executes the query.
func (h *GetTransactionsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	q, ok := request.(*GetTransactionsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetTransactionsQuery")
	}

	playerID, err := shared.NewPlayerID(q.PlayerID)
	if err != nil {
		return nil, err
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	size := q.Size
	if size <= 0 {
		size = ledger.DefaultQueryOptions().Limit
	}
	if size > 200 {
		size = 200
	}

	opts := ledger.QueryOptions{Limit: size, Offset: (page - 1) * size}
	if q.Direction != "" {
		direction, err := ledger.ParseDirection(q.Direction)
		if err != nil {
			return nil, &ledger.ErrInvalidTransaction{Field: "type", Reason: err.Error()}
		}
		opts.Direction = &direction
	}

	txns, err := h.ledger.FindByPlayer(ctx, playerID, opts)
	if err != nil {
		return nil, err
	}
	total, err := h.ledger.CountByPlayer(ctx, playerID, opts)
	if err != nil {
		return nil, err
	}

	return &GetTransactionsResponse{Transactions: txns, Page: page, Size: size, Total: total}, nil
}
