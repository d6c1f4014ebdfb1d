package catalog_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meadowmc/economyd/internal/domain/catalog"
)

var createdAt = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newItem(t *testing.T, ask, bid, min, max string) *catalog.Item {
	t.Helper()
	item, err := catalog.NewItem(
		"bread", "Bread", catalog.CategoryFoodCore, 4, 2.4, catalog.ComplexityLow,
		money(ask), money(bid), money(min), money(max), createdAt,
	)
	require.NoError(t, err)
	return item
}

func TestNewItem_StartsActiveAtBaseAsk(t *testing.T) {
	item := newItem(t, "10.00", "8.00", "2.00", "50.00")

	assert.True(t, item.IsActive())
	assert.Equal(t, "10.00", item.CurrentPrice().StringFixed(2))
	assert.Equal(t, "10.00", item.BaseSellPrice().StringFixed(2))
	assert.Equal(t, "8.00", item.BaseBuyPrice().StringFixed(2))
}

func TestNewItem_Validation(t *testing.T) {
	tests := []struct {
		name               string
		id, display        string
		category           catalog.Category
		ask, bid, min, max string
	}{
		{"empty id", "", "Bread", catalog.CategoryFoodCore, "10.00", "8.00", "2.00", "50.00"},
		{"empty name", "bread", "", catalog.CategoryFoodCore, "10.00", "8.00", "2.00", "50.00"},
		{"unknown category", "bread", "Bread", catalog.Category("JUNK"), "10.00", "8.00", "2.00", "50.00"},
		{"zero floor", "bread", "Bread", catalog.CategoryFoodCore, "10.00", "8.00", "0.00", "50.00"},
		{"ceiling below floor", "bread", "Bread", catalog.CategoryFoodCore, "10.00", "8.00", "20.00", "10.00"},
		{"ask above ceiling", "bread", "Bread", catalog.CategoryFoodCore, "60.00", "8.00", "2.00", "50.00"},
		{"bid below floor", "bread", "Bread", catalog.CategoryFoodCore, "10.00", "1.00", "2.00", "50.00"},
		{"bid above ask", "bread", "Bread", catalog.CategoryFoodCore, "10.00", "12.00", "2.00", "50.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.NewItem(
				tt.id, tt.display, tt.category, 4, 2.4, catalog.ComplexityLow,
				money(tt.ask), money(tt.bid), money(tt.min), money(tt.max), createdAt,
			)
			require.Error(t, err)
			var invalid *catalog.ErrInvalidItem
			assert.ErrorAs(t, err, &invalid)
		})
	}
}

func TestItem_ClampPrice(t *testing.T) {
	item := newItem(t, "10.00", "8.00", "2.00", "50.00")

	assert.Equal(t, "2.00", item.ClampPrice(money("1.00")).StringFixed(2))
	assert.Equal(t, "50.00", item.ClampPrice(money("99.00")).StringFixed(2))
	assert.Equal(t, "10.00", item.ClampPrice(money("10.00")).StringFixed(2))
}

func TestItem_PriceBand(t *testing.T) {
	item := newItem(t, "10.00", "8.00", "2.00", "50.00")

	// Ratio band [5.00, 30.00] sits inside the absolute band.
	lo, hi := item.PriceBand(money("0.50"), money("3.00"))
	assert.Equal(t, "5.00", lo.StringFixed(2))
	assert.Equal(t, "30.00", hi.StringFixed(2))

	// A wider ratio band is cut down to the absolute [2.00, 50.00].
	lo, hi = item.PriceBand(money("0.10"), money("10.00"))
	assert.Equal(t, "2.00", lo.StringFixed(2))
	assert.Equal(t, "50.00", hi.StringFixed(2))
}

func TestItem_BidAskRatio(t *testing.T) {
	item := newItem(t, "10.00", "8.00", "2.00", "50.00")

	assert.Equal(t, "0.80", item.BidAskRatio().StringFixed(2))
}

func TestItem_Deactivate(t *testing.T) {
	item := newItem(t, "10.00", "8.00", "2.00", "50.00")

	item.Deactivate()

	assert.False(t, item.IsActive())
}

func TestItem_SetCurrentPriceRoundsToCents(t *testing.T) {
	item := newItem(t, "10.00", "8.00", "2.00", "50.00")

	item.SetCurrentPrice(money("10.456"))

	assert.Equal(t, "10.46", item.CurrentPrice().StringFixed(2))
}

func TestParseCategory(t *testing.T) {
	c, err := catalog.ParseCategory("FOOD_CORE")
	require.NoError(t, err)
	assert.Equal(t, catalog.CategoryFoodCore, c)

	_, err = catalog.ParseCategory("JUNK")
	assert.Error(t, err)
}
