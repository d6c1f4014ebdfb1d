package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meadowmc/economyd/internal/adapters/persistence"
	"github.com/meadowmc/economyd/internal/application/shop/commands"
	"github.com/meadowmc/economyd/internal/domain/settings"
	"github.com/meadowmc/economyd/test/helpers"
)

func TestUpdateSettingHandler_WritesKnownKey(t *testing.T) {
	repo := persistence.NewGormSettingsRepository(helpers.NewTestDB(t))
	handler := commands.NewUpdateSettingHandler(repo)

	resp, err := handler.Handle(context.Background(), &commands.UpdateSettingCommand{
		Key:   settings.KeyMaxPriceChange,
		Value: "0.25",
	})

	require.NoError(t, err)
	assert.Equal(t, "0.25", resp.(*commands.UpdateSettingResponse).Value)

	snap, err := repo.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0.25", snap.Decimal(settings.KeyMaxPriceChange).StringFixed(2))
}

func TestUpdateSettingHandler_RejectsUnknownKey(t *testing.T) {
	repo := persistence.NewGormSettingsRepository(helpers.NewTestDB(t))
	handler := commands.NewUpdateSettingHandler(repo)

	_, err := handler.Handle(context.Background(), &commands.UpdateSettingCommand{
		Key:   "not_a_setting",
		Value: "1",
	})

	require.Error(t, err)
	var unknown *commands.ErrUnknownSetting
	assert.ErrorAs(t, err, &unknown)
}
