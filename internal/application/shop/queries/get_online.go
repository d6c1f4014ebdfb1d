package queries

import (
	"context"
	"fmt"

	"github.com/meadowmc/economyd/internal/application/common"
	"github.com/meadowmc/economyd/internal/domain/session"
)

// GetOnlineQuery reads the current online-player roster.
type GetOnlineQuery struct{}

// OnlinePlayer is one roster row.
type OnlinePlayer struct {
	PlayerID   string
	PlayerName string
	Weight     string
}

// GetOnlineResponse carries the roster.
type GetOnlineResponse struct {
	Count   int
	Players []OnlinePlayer
}

// GetOnlineHandler handles GetOnlineQuery.
type GetOnlineHandler struct {
	registry *session.Registry
}

// NewGetOnlineHandler creates the handler.
func NewGetOnlineHandler(registry *session.Registry) *GetOnlineHandler {
	return &GetOnlineHandler{registry: registry}
}

// Handle executes the query.
func (h *GetOnlineHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	if _, ok := request.(*GetOnlineQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetOnlineQuery")
	}

	sessions := h.registry.Online()
	resp := &GetOnlineResponse{Count: len(sessions), Players: make([]OnlinePlayer, 0, len(sessions))}
	for _, s := range sessions {
		resp.Players = append(resp.Players, OnlinePlayer{
			PlayerID:   s.PlayerID().Value(),
			PlayerName: s.Name(),
			Weight:     s.Weight().String(),
		})
	}
	return resp, nil
}
