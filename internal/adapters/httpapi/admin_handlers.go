package httpapi

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/meadowmc/economyd/internal/application/shop/commands"
)

type setBalanceBody struct {
	PlayerID string `json:"playerId" binding:"required"`
	Balance  string `json:"newBalance" binding:"required"`
}

func (s *Server) handleSetBalance(c *gin.Context) {
	var body setBalanceBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	balance, err := decimal.NewFromString(body.Balance)
	if err != nil {
		respondBadRequest(c, "invalid balance: "+err.Error())
		return
	}

	resp, err := s.mediator.Send(c.Request.Context(), &commands.SetBalanceCommand{
		PlayerID:   body.PlayerID,
		NewBalance: balance,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	result := resp.(*commands.SetBalanceResponse)
	respondOK(c, "balance updated", gin.H{
		"playerId": result.PlayerID,
		"balance":  result.Balance.StringFixed(2),
	})
}

type createItemBody struct {
	ID            string  `json:"id" binding:"required"`
	Name          string  `json:"name" binding:"required"`
	Category      string  `json:"category" binding:"required"`
	Hunger        int     `json:"hunger"`
	Saturation    float64 `json:"saturation"`
	Complexity    string  `json:"complexity" binding:"required"`
	BaseSellPrice string  `json:"baseSellPrice" binding:"required"`
	BaseBuyPrice  string  `json:"baseBuyPrice" binding:"required"`
	MinPrice      string  `json:"minPrice" binding:"required"`
	MaxPrice      string  `json:"maxPrice" binding:"required"`
}

func (s *Server) handleCreateItem(c *gin.Context) {
	var body createItemBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	prices := make([]decimal.Decimal, 4)
	for i, raw := range []string{body.BaseSellPrice, body.BaseBuyPrice, body.MinPrice, body.MaxPrice} {
		p, err := decimal.NewFromString(raw)
		if err != nil {
			respondBadRequest(c, "invalid price: "+err.Error())
			return
		}
		prices[i] = p
	}

	resp, err := s.mediator.Send(c.Request.Context(), &commands.CreateItemCommand{
		ID:            body.ID,
		Name:          body.Name,
		Category:      body.Category,
		Hunger:        body.Hunger,
		Saturation:    body.Saturation,
		Complexity:    body.Complexity,
		BaseSellPrice: prices[0],
		BaseBuyPrice:  prices[1],
		MinPrice:      prices[2],
		MaxPrice:      prices[3],
	})
	if err != nil {
		respondError(c, err)
		return
	}

	result := resp.(*commands.CreateItemResponse)
	respondCreated(c, "item created", toItemDTO(result.Item))
}

type updateSettingBody struct {
	Value string `json:"value" binding:"required"`
}

func (s *Server) handleUpdateSetting(c *gin.Context) {
	var body updateSettingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	resp, err := s.mediator.Send(c.Request.Context(), &commands.UpdateSettingCommand{
		Key:   c.Param("key"),
		Value: body.Value,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	result := resp.(*commands.UpdateSettingResponse)
	respondOK(c, "setting updated", gin.H{
		"key":   result.Key,
		"value": result.Value,
	})
}
