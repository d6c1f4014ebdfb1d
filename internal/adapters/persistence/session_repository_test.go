package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meadowmc/economyd/internal/adapters/persistence"
	"github.com/meadowmc/economyd/internal/domain/session"
	"github.com/meadowmc/economyd/test/helpers"
)

func TestSessionRepository_UpsertAndFindAll(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSessionRepository(db)
	tiers := session.DefaultWeightTiers()
	playerID := helpers.MustPlayerID(t, "player-1")

	s := session.NewPlayerSession(playerID, "Steve", testStart, tiers)
	require.NoError(t, repo.Upsert(context.Background(), s))

	sessions, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "player-1", sessions[0].PlayerID().Value())
	assert.Equal(t, "Steve", sessions[0].Name())
	assert.True(t, sessions[0].IsOnline())
	assert.Equal(t, "0.3", sessions[0].Weight().StringFixed(1))
}

func TestSessionRepository_UpsertReplacesExistingRow(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSessionRepository(db)
	tiers := session.DefaultWeightTiers()
	playerID := helpers.MustPlayerID(t, "player-1")

	s := session.NewPlayerSession(playerID, "Steve", testStart, tiers)
	require.NoError(t, repo.Upsert(context.Background(), s))

	s.Touch(testStart.Add(45*time.Minute), tiers)
	s.Close()
	require.NoError(t, repo.Upsert(context.Background(), s))

	sessions, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.False(t, sessions[0].IsOnline())
	assert.Equal(t, "0.8", sessions[0].Weight().StringFixed(1))
}
