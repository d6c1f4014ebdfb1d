package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/meadowmc/economyd/internal/application/shop/commands"
	"github.com/meadowmc/economyd/internal/application/shop/queries"
)

type sessionRequestBody struct {
	PlayerID   string `json:"playerId" binding:"required"`
	PlayerName string `json:"playerName"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var body sessionRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	resp, err := s.mediator.Send(c.Request.Context(), &commands.PlayerLoginCommand{
		PlayerID:   body.PlayerID,
		PlayerName: body.PlayerName,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "player logged in", sessionDTO(resp.(*commands.SessionResponse)))
}

func (s *Server) handleActivity(c *gin.Context) {
	var body sessionRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	resp, err := s.mediator.Send(c.Request.Context(), &commands.PlayerActivityCommand{
		PlayerID: body.PlayerID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "activity recorded", sessionDTO(resp.(*commands.SessionResponse)))
}

func (s *Server) handleLogout(c *gin.Context) {
	var body sessionRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	resp, err := s.mediator.Send(c.Request.Context(), &commands.PlayerLogoutCommand{
		PlayerID: body.PlayerID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "player logged out", sessionDTO(resp.(*commands.SessionResponse)))
}

func (s *Server) handleGetOnline(c *gin.Context) {
	resp, err := s.mediator.Send(c.Request.Context(), &queries.GetOnlineQuery{})
	if err != nil {
		respondError(c, err)
		return
	}

	result := resp.(*queries.GetOnlineResponse)
	players := make([]gin.H, len(result.Players))
	for i, p := range result.Players {
		players[i] = gin.H{
			"playerId":   p.PlayerID,
			"playerName": p.PlayerName,
			"weight":     p.Weight,
		}
	}
	respondOK(c, "online players retrieved", gin.H{
		"count":   result.Count,
		"players": players,
	})
}

func sessionDTO(r *commands.SessionResponse) gin.H {
	return gin.H{
		"playerId":    r.PlayerID,
		"online":      r.Online,
		"weight":      r.Weight,
		"onlineCount": r.OnlineCount,
	}
}
