package httpapi

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/meadowmc/economyd/internal/application/shop/commands"
	"github.com/meadowmc/economyd/internal/application/shop/queries"
	"github.com/meadowmc/economyd/internal/domain/ledger"
)

type tradeRequestBody struct {
	PlayerID   string `json:"playerId" binding:"required"`
	PlayerName string `json:"playerName"`
	ItemID     string `json:"itemId" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required"`
}

func (s *Server) handleBuy(c *gin.Context) {
	s.handleTrade(c, ledger.PlayerBuys)
}

func (s *Server) handleSell(c *gin.Context) {
	s.handleTrade(c, ledger.PlayerSells)
}

func (s *Server) handleTrade(c *gin.Context, direction ledger.Direction) {
	var body tradeRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	resp, err := s.mediator.Send(c.Request.Context(), &commands.ExecuteTradeCommand{
		PlayerID:   body.PlayerID,
		PlayerName: body.PlayerName,
		ItemID:     body.ItemID,
		Direction:  direction.String(),
		Quantity:   body.Quantity,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	result := resp.(*commands.ExecuteTradeResponse)
	respondOK(c, "trade executed", toTradeResultDTO(result.Result))
}

type batchRequestBody struct {
	PlayerID     string `json:"playerId" binding:"required"`
	PlayerName   string `json:"playerName"`
	Transactions []struct {
		ItemID   string `json:"itemId" binding:"required"`
		Type     string `json:"type" binding:"required"`
		Quantity int    `json:"quantity" binding:"required"`
	} `json:"transactions" binding:"required"`
}

func (s *Server) handleBatch(c *gin.Context) {
	var body batchRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	entries := make([]commands.BatchEntry, len(body.Transactions))
	for i, t := range body.Transactions {
		entries[i] = commands.BatchEntry{ItemID: t.ItemID, Direction: t.Type, Quantity: t.Quantity}
	}

	resp, err := s.mediator.Send(c.Request.Context(), &commands.ExecuteBatchCommand{
		PlayerID:   body.PlayerID,
		PlayerName: body.PlayerName,
		Entries:    entries,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	result := resp.(*commands.ExecuteBatchResponse)
	respondOK(c, "batch processed", toBatchEntryDTOs(result.Results))
}

func (s *Server) handleGetBalance(c *gin.Context) {
	resp, err := s.mediator.Send(c.Request.Context(), &queries.GetBalanceQuery{
		PlayerID: c.Param("playerId"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	balance := resp.(*queries.GetBalanceResponse)
	respondOK(c, "balance retrieved", gin.H{
		"playerId":    balance.PlayerID,
		"balance":     balance.Balance.StringFixed(2),
		"lastUpdated": balance.LastUpdated,
	})
}

func (s *Server) handleGetTransactions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "50"))

	resp, err := s.mediator.Send(c.Request.Context(), &queries.GetTransactionsQuery{
		PlayerID:  c.Param("playerId"),
		Page:      page,
		Size:      size,
		Direction: c.Query("type"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	result := resp.(*queries.GetTransactionsResponse)
	respondOK(c, "transactions retrieved", gin.H{
		"transactions": toTransactionDTOs(result.Transactions),
		"page":         result.Page,
		"size":         result.Size,
		"total":        result.Total,
	})
}

func (s *Server) handleGetItems(c *gin.Context) {
	resp, err := s.mediator.Send(c.Request.Context(), &queries.GetItemsQuery{
		Category: c.Query("category"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	result := resp.(*queries.GetItemsResponse)
	items := make([]itemDTO, len(result.Items))
	for i, item := range result.Items {
		items[i] = toItemDTO(item)
	}
	respondOK(c, "items retrieved", items)
}

func (s *Server) handleGetItem(c *gin.Context) {
	resp, err := s.mediator.Send(c.Request.Context(), &queries.GetItemQuery{
		ItemID: c.Param("itemId"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	result := resp.(*queries.GetItemResponse)
	respondOK(c, "item retrieved", toItemDTO(result.Item))
}

func (s *Server) handleGetPrice(c *gin.Context) {
	resp, err := s.mediator.Send(c.Request.Context(), &queries.GetPriceQuery{
		ItemID: c.Param("itemId"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	result := resp.(*queries.GetPriceResponse)
	respondOK(c, "price retrieved", gin.H{
		"quote":    toQuoteDTO(result.Quote),
		"minPrice": result.Item.MinPrice().StringFixed(2),
		"maxPrice": result.Item.MaxPrice().StringFixed(2),
	})
}

func (s *Server) handleGetPriceHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "48"))

	resp, err := s.mediator.Send(c.Request.Context(), &queries.GetPriceHistoryQuery{
		ItemID: c.Param("itemId"),
		Limit:  limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	result := resp.(*queries.GetPriceHistoryResponse)
	respondOK(c, "price history retrieved", gin.H{
		"itemId":  result.ItemID,
		"entries": toHistoryEntryDTOs(result.Entries),
	})
}

func (s *Server) handleGetTrend(c *gin.Context) {
	resp, err := s.mediator.Send(c.Request.Context(), &queries.GetTrendQuery{
		ItemID: c.Param("itemId"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	result := resp.(*queries.GetTrendResponse)
	respondOK(c, "trend retrieved", toTrendDTO(result.Hint))
}
