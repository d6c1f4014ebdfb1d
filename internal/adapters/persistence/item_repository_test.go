package persistence_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meadowmc/economyd/internal/adapters/persistence"
	"github.com/meadowmc/economyd/internal/domain/catalog"
	"github.com/meadowmc/economyd/test/helpers"
)

func TestItemRepository_CreateAndFind(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormItemRepository(db)
	item := helpers.NewTestItem(t, "bread")

	// Act
	err := repo.Create(context.Background(), item)
	require.NoError(t, err)

	found, err := repo.FindByID(context.Background(), "bread")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, item.ID(), found.ID())
	assert.Equal(t, item.Name(), found.Name())
	assert.Equal(t, catalog.CategoryFoodCore, found.Category())
	assert.Equal(t, "10.00", found.CurrentPrice().StringFixed(2))
	assert.True(t, found.IsActive())
}

func TestItemRepository_DuplicateID(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormItemRepository(db)
	require.NoError(t, repo.Create(context.Background(), helpers.NewTestItem(t, "bread")))

	err := repo.Create(context.Background(), helpers.NewTestItem(t, "bread"))

	require.Error(t, err)
	var invalid *catalog.ErrInvalidItem
	assert.ErrorAs(t, err, &invalid)
}

func TestItemRepository_NotFound(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormItemRepository(db)

	_, err := repo.FindByID(context.Background(), "nothing")

	require.Error(t, err)
	var notFound *catalog.ErrItemNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestItemRepository_FindAllFiltersByCategory(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormItemRepository(db)
	require.NoError(t, repo.Create(context.Background(), helpers.NewTestItem(t, "bread")))
	require.NoError(t, repo.Create(context.Background(), helpers.NewTestItem(t, "apple")))

	category := catalog.CategoryFoodCore
	items, err := repo.FindAll(context.Background(), &category, false)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	// id ASC ordering
	assert.Equal(t, "apple", items[0].ID())

	other := catalog.CategoryTools
	items, err = repo.FindAll(context.Background(), &other, false)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestItemRepository_ListActiveSkipsDeactivated(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormItemRepository(db)
	require.NoError(t, repo.Create(context.Background(), helpers.NewTestItem(t, "bread")))
	require.NoError(t, repo.Create(context.Background(), helpers.NewTestItem(t, "apple")))

	require.NoError(t, repo.Deactivate(context.Background(), "apple"))

	active, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "bread", active[0].ID())

	// Deactivated items stay resolvable by id.
	found, err := repo.FindByID(context.Background(), "apple")
	require.NoError(t, err)
	assert.False(t, found.IsActive())
}

func TestItemRepository_CreatePersistsDriftedCurrentPrice(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormItemRepository(db)
	item := helpers.NewTestItem(t, "bread")
	item.SetCurrentPrice(decimal.RequireFromString("11.50"))

	require.NoError(t, repo.Create(context.Background(), item))

	found, err := repo.FindByID(context.Background(), "bread")
	require.NoError(t, err)
	assert.Equal(t, "11.50", found.CurrentPrice().StringFixed(2))
}
