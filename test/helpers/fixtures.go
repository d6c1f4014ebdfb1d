package helpers

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meadowmc/economyd/internal/domain/catalog"
	"github.com/meadowmc/economyd/internal/domain/shared"
)

// NewTestItem creates a valid item with sensible fixture prices: ask 10.00,
// bid 8.00, band [2.00, 50.00].
func NewTestItem(t *testing.T, id string) *catalog.Item {
	t.Helper()

	item, err := catalog.NewItem(
		id, "Test "+id, catalog.CategoryFoodCore, 4, 2.4, catalog.ComplexityLow,
		decimal.NewFromFloat(10.00),
		decimal.NewFromFloat(8.00),
		decimal.NewFromFloat(2.00),
		decimal.NewFromFloat(50.00),
		time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("failed to create test item: %v", err)
	}
	return item
}

// MustPlayerID builds a PlayerID or fails the test.
func MustPlayerID(t *testing.T, value string) shared.PlayerID {
	t.Helper()

	id, err := shared.NewPlayerID(value)
	if err != nil {
		t.Fatalf("failed to create player id: %v", err)
	}
	return id
}
