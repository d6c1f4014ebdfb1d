package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/meadowmc/economyd/internal/application/common"
	"github.com/meadowmc/economyd/internal/domain/session"
	"github.com/meadowmc/economyd/internal/domain/settings"
	"github.com/meadowmc/economyd/internal/domain/shared"
)

// Session lifecycle commands driven by the game server. The in-memory
// registry is authoritative; the repository write-through is best effort so
// a storage hiccup never blocks a login.

// PlayerLoginCommand registers a player as online.
type PlayerLoginCommand struct {
	PlayerID   string
	PlayerName string
}

// PlayerActivityCommand refreshes a player's last-activity time.
type PlayerActivityCommand struct {
	PlayerID string
}

// PlayerLogoutCommand marks a player offline.
type PlayerLogoutCommand struct {
	PlayerID string
}

// SessionResponse reports the affected session state.
type SessionResponse struct {
	PlayerID    string
	Online      bool
	Weight      string
	OnlineCount int
}

// SessionHandler handles all three session commands.
type SessionHandler struct {
	registry *session.Registry
	repo     session.Repository
	settings settings.Repository
	clock    shared.Clock
}

// NewSessionHandler creates the handler.
func NewSessionHandler(
	registry *session.Registry,
	repo session.Repository,
	settingsRepo settings.Repository,
	clock shared.Clock,
) *SessionHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &SessionHandler{registry: registry, repo: repo, settings: settingsRepo, clock: clock}
}

// Handle executes a session command.
func (h *SessionHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	switch cmd := request.(type) {
	case *PlayerLoginCommand:
		return h.login(ctx, cmd)
	case *PlayerActivityCommand:
		return h.activity(ctx, cmd)
	case *PlayerLogoutCommand:
		return h.logout(ctx, cmd)
	default:
		return nil, fmt.Errorf("invalid request type for session handler: %T", request)
	}
}

func (h *SessionHandler) login(ctx context.Context, cmd *PlayerLoginCommand) (common.Response, error) {
	playerID, err := shared.NewPlayerID(cmd.PlayerID)
	if err != nil {
		return nil, err
	}

	tiers, err := h.tiers(ctx)
	if err != nil {
		return nil, err
	}
	s := h.registry.OnLogin(playerID, cmd.PlayerName, h.clock.Now(), tiers)
	h.persist(ctx, s)
	return h.response(s), nil
}

func (h *SessionHandler) activity(ctx context.Context, cmd *PlayerActivityCommand) (common.Response, error) {
	playerID, err := shared.NewPlayerID(cmd.PlayerID)
	if err != nil {
		return nil, err
	}

	tiers, err := h.tiers(ctx)
	if err != nil {
		return nil, err
	}
	s := h.registry.OnActivity(playerID, h.clock.Now(), tiers)
	if s == nil {
		return nil, &ErrSessionNotFound{PlayerID: playerID.Value()}
	}
	h.persist(ctx, s)
	return h.response(s), nil
}

func (h *SessionHandler) logout(ctx context.Context, cmd *PlayerLogoutCommand) (common.Response, error) {
	playerID, err := shared.NewPlayerID(cmd.PlayerID)
	if err != nil {
		return nil, err
	}

	s := h.registry.OnLogout(playerID)
	if s == nil {
		return nil, &ErrSessionNotFound{PlayerID: playerID.Value()}
	}
	h.persist(ctx, s)
	return h.response(s), nil
}

func (h *SessionHandler) tiers(ctx context.Context) (session.WeightTiers, error) {
	snap, err := h.settings.All(ctx)
	if err != nil {
		return session.WeightTiers{}, err
	}
	return snap.Params().WeightTiers, nil
}

func (h *SessionHandler) persist(ctx context.Context, s *session.PlayerSession) {
	if err := h.repo.Upsert(ctx, s); err != nil {
		log.Warn().Err(err).Str("player", s.PlayerID().Value()).Msg("session write-through failed")
	}
}

func (h *SessionHandler) response(s *session.PlayerSession) *SessionResponse {
	return &SessionResponse{
		PlayerID:    s.PlayerID().Value(),
		Online:      s.IsOnline(),
		Weight:      s.Weight().String(),
		OnlineCount: h.registry.OnlineCount(),
	}
}

// ErrSessionNotFound signals activity or logout for an unknown player.
type ErrSessionNotFound struct {
	PlayerID string
}

func (e *ErrSessionNotFound) Error() string {
	return fmt.Sprintf("no session for player %s", e.PlayerID)
}
