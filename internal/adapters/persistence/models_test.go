package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meadowmc/economyd/internal/adapters/persistence"
	"github.com/meadowmc/economyd/test/helpers"
)

func TestDeletingItemCascadesToDependents(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	items := persistence.NewGormItemRepository(db)
	require.NoError(t, items.Create(context.Background(), helpers.NewTestItem(t, "bread")))

	now := time.Date(2025, 6, 2, 19, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&persistence.TransactionModel{
		ID:        "550e8400-e29b-41d4-a716-446655440000",
		PlayerID:  "player-1",
		ItemID:    "bread",
		Direction: "BUY",
		Quantity:  1,
		UnitPrice: decimal.RequireFromString("10.00"),
		Total:     decimal.RequireFromString("10.00"),
		CreatedAt: now,
	}).Error)
	require.NoError(t, db.Create(&persistence.PriceHistoryModel{
		ItemID:        "bread",
		TickTime:      now,
		PreviousPrice: decimal.RequireFromString("10.00"),
		NewPrice:      decimal.RequireFromString("11.00"),
	}).Error)

	// Act
	require.NoError(t, db.Delete(&persistence.ItemModel{ID: "bread"}).Error)

	// Assert
	var txns, history int64
	require.NoError(t, db.Model(&persistence.TransactionModel{}).Where("item_id = ?", "bread").Count(&txns).Error)
	require.NoError(t, db.Model(&persistence.PriceHistoryModel{}).Where("item_id = ?", "bread").Count(&history).Error)
	assert.Equal(t, int64(0), txns)
	assert.Equal(t, int64(0), history)
}

func TestTransactionRequiresExistingItem(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)

	// Act
	err := db.Create(&persistence.TransactionModel{
		ID:        "550e8400-e29b-41d4-a716-446655440001",
		PlayerID:  "player-1",
		ItemID:    "nothing",
		Direction: "BUY",
		Quantity:  1,
		UnitPrice: decimal.RequireFromString("10.00"),
		Total:     decimal.RequireFromString("10.00"),
		CreatedAt: time.Date(2025, 6, 2, 19, 0, 0, 0, time.UTC),
	}).Error

	// Assert
	assert.Error(t, err)
}
