package commands

import (
	"context"
	"fmt"

	"github.com/meadowmc/economyd/internal/application/common"
	"github.com/meadowmc/economyd/internal/domain/settings"
)

// UpdateSettingCommand writes one runtime engine setting (admin path). The
// next computation that snapshots the store observes the new value.
type UpdateSettingCommand struct {
	Key   string
	Value string
}

// UpdateSettingResponse confirms the write.
type UpdateSettingResponse struct {
	Key   string
	Value string
}

// UpdateSettingHandler handles UpdateSettingCommand.
type UpdateSettingHandler struct {
	settings settings.Repository
}

// NewUpdateSettingHandler creates the handler.
func NewUpdateSettingHandler(repo settings.Repository) *UpdateSettingHandler {
	return &UpdateSettingHandler{settings: repo}
}

// Handle executes the command.
func (h *UpdateSettingHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*UpdateSettingCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *UpdateSettingCommand")
	}

	if _, known := settings.Defaults[cmd.Key]; !known {
		return nil, &ErrUnknownSetting{Key: cmd.Key}
	}
	if err := h.settings.Set(ctx, cmd.Key, cmd.Value); err != nil {
		return nil, err
	}
	return &UpdateSettingResponse{Key: cmd.Key, Value: cmd.Value}, nil
}

// ErrUnknownSetting signals a write against an unrecognized setting key.
type ErrUnknownSetting struct {
	Key string
}

func (e *ErrUnknownSetting) Error() string {
	return fmt.Sprintf("unrecognized setting key: %q", e.Key)
}
