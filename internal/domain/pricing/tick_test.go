package pricing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meadowmc/economyd/internal/domain/pricing"
	"github.com/meadowmc/economyd/internal/domain/settings"
	"github.com/meadowmc/economyd/test/helpers"
)

var tickTime = time.Date(2025, 6, 2, 19, 0, 0, 0, time.UTC)

func volume(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeTick_DemandRaisesPrice(t *testing.T) {
	// Arrange: ask 10.00, band [5.00, 30.00] under the default ratios.
	item := helpers.NewTestItem(t, "bread")
	params := settings.DefaultParams()

	// Act: demand 50.0/25 = 2.000, clamped to the 10% per-tick bound.
	result, err := pricing.ComputeTick(pricing.TickInput{
		Item:          item,
		PreviousPrice: item.CurrentPrice(),
		Pressure:      pricing.ItemPressure{BuyCount: 5, BuyVolume: volume("50.0")},
		Params:        params,
		OnlineCount:   10,
		Now:           tickTime,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "11.00", result.NewPrice.StringFixed(2))
	assert.Equal(t, "10.000", result.ChangePercent.StringFixed(3))
	assert.Equal(t, "2.000", result.Demand.StringFixed(3))
	assert.Equal(t, "0.000", result.Supply.StringFixed(3))
}

func TestComputeTick_SupplyLowersPrice(t *testing.T) {
	item := helpers.NewTestItem(t, "bread")
	params := settings.DefaultParams()

	result, err := pricing.ComputeTick(pricing.TickInput{
		Item:          item,
		PreviousPrice: item.CurrentPrice(),
		Pressure:      pricing.ItemPressure{SellCount: 3, SellVolume: volume("25.0")},
		Params:        params,
		OnlineCount:   10,
		Now:           tickTime,
	})

	require.NoError(t, err)
	assert.Equal(t, "9.00", result.NewPrice.StringFixed(2))
	assert.Equal(t, "-10.000", result.ChangePercent.StringFixed(3))
}

func TestComputeTick_SmallNetBelowClamp(t *testing.T) {
	item := helpers.NewTestItem(t, "bread")
	params := settings.DefaultParams()

	// demand 1.0/25 = 0.040 -> candidate 10 * 1.040 = 10.40
	result, err := pricing.ComputeTick(pricing.TickInput{
		Item:          item,
		PreviousPrice: item.CurrentPrice(),
		Pressure:      pricing.ItemPressure{BuyCount: 1, BuyVolume: volume("1.0")},
		Params:        params,
		OnlineCount:   10,
		Now:           tickTime,
	})

	require.NoError(t, err)
	assert.Equal(t, "10.40", result.NewPrice.StringFixed(2))
	assert.Equal(t, "0.040", result.Net.StringFixed(3))
}

func TestComputeTick_BalancedPressureHoldsPrice(t *testing.T) {
	item := helpers.NewTestItem(t, "bread")
	params := settings.DefaultParams()

	result, err := pricing.ComputeTick(pricing.TickInput{
		Item:          item,
		PreviousPrice: item.CurrentPrice(),
		Pressure: pricing.ItemPressure{
			BuyCount: 2, SellCount: 2,
			BuyVolume: volume("10.0"), SellVolume: volume("10.0"),
		},
		Params:      params,
		OnlineCount: 10,
		Now:         tickTime,
	})

	require.NoError(t, err)
	assert.Equal(t, "10.00", result.NewPrice.StringFixed(2))
	assert.Equal(t, "0.000", result.ChangePercent.StringFixed(3))
	assert.True(t, result.Net.IsZero())
}

func TestComputeTick_EmptyPeriodDecaysTowardBase(t *testing.T) {
	item := helpers.NewTestItem(t, "bread")
	params := settings.DefaultParams()

	// Idle at 20.00: step = 20 * 0.10/4 = 0.50, moving down toward 10.00.
	result, err := pricing.ComputeTick(pricing.TickInput{
		Item:          item,
		PreviousPrice: decimal.RequireFromString("20.00"),
		Pressure:      pricing.ItemPressure{},
		Params:        params,
		OnlineCount:   10,
		Now:           tickTime,
	})

	require.NoError(t, err)
	assert.Equal(t, "19.50", result.NewPrice.StringFixed(2))
}

func TestComputeTick_DecaySnapsToBaseWithinOneStep(t *testing.T) {
	item := helpers.NewTestItem(t, "bread")
	params := settings.DefaultParams()

	// At 10.20 the step (0.255) exceeds the remaining gap, so the price
	// lands exactly on the base ask instead of oscillating around it.
	result, err := pricing.ComputeTick(pricing.TickInput{
		Item:          item,
		PreviousPrice: decimal.RequireFromString("10.20"),
		Pressure:      pricing.ItemPressure{},
		Params:        params,
		OnlineCount:   10,
		Now:           tickTime,
	})

	require.NoError(t, err)
	assert.Equal(t, "10.00", result.NewPrice.StringFixed(2))
}

func TestComputeTick_EmptyPeriodAtBaseHolds(t *testing.T) {
	item := helpers.NewTestItem(t, "bread")
	params := settings.DefaultParams()

	result, err := pricing.ComputeTick(pricing.TickInput{
		Item:          item,
		PreviousPrice: item.BaseSellPrice(),
		Pressure:      pricing.ItemPressure{},
		Params:        params,
		OnlineCount:   10,
		Now:           tickTime,
	})

	require.NoError(t, err)
	assert.Equal(t, "10.00", result.NewPrice.StringFixed(2))
}

func TestComputeTick_FloorLocksDecline(t *testing.T) {
	item := helpers.NewTestItem(t, "bread")
	params := settings.DefaultParams()

	// Already on the 5.00 floor; heavy supply cannot push below it.
	result, err := pricing.ComputeTick(pricing.TickInput{
		Item:          item,
		PreviousPrice: decimal.RequireFromString("5.00"),
		Pressure:      pricing.ItemPressure{SellCount: 10, SellVolume: volume("500.0")},
		Params:        params,
		OnlineCount:   10,
		Now:           tickTime,
	})

	require.NoError(t, err)
	assert.Equal(t, "5.00", result.NewPrice.StringFixed(2))
	assert.Equal(t, "0.000", result.ChangePercent.StringFixed(3))
}

func TestComputeTick_CeilingLocksRise(t *testing.T) {
	item := helpers.NewTestItem(t, "bread")
	params := settings.DefaultParams()

	result, err := pricing.ComputeTick(pricing.TickInput{
		Item:          item,
		PreviousPrice: decimal.RequireFromString("30.00"),
		Pressure:      pricing.ItemPressure{BuyCount: 10, BuyVolume: volume("500.0")},
		Params:        params,
		OnlineCount:   10,
		Now:           tickTime,
	})

	require.NoError(t, err)
	assert.Equal(t, "30.00", result.NewPrice.StringFixed(2))
}

func TestComputeTick_UnsetPriceDefaultsToBaseAsk(t *testing.T) {
	item := helpers.NewTestItem(t, "bread")
	params := settings.DefaultParams()

	result, err := pricing.ComputeTick(pricing.TickInput{
		Item:          item,
		PreviousPrice: decimal.Zero,
		Pressure:      pricing.ItemPressure{},
		Params:        params,
		OnlineCount:   10,
		Now:           tickTime,
	})

	require.NoError(t, err)
	assert.Equal(t, "10.00", result.PreviousPrice.StringFixed(2))
	assert.Equal(t, "10.00", result.NewPrice.StringFixed(2))
}

func TestComputeTick_EmptyBandIsEngineFault(t *testing.T) {
	item := helpers.NewTestItem(t, "bread")
	params := settings.DefaultParams()
	// Misconfigured ratios: floor 40.00 above ceiling 30.00.
	params.MinPriceRatio = decimal.RequireFromString("4.00")

	_, err := pricing.ComputeTick(pricing.TickInput{
		Item:          item,
		PreviousPrice: item.CurrentPrice(),
		Pressure:      pricing.ItemPressure{},
		Params:        params,
		OnlineCount:   10,
		Now:           tickTime,
	})

	require.Error(t, err)
	var fault *pricing.ErrEngineFault
	assert.ErrorAs(t, err, &fault)
}

func TestComputeTick_ResultCarriesSnapshot(t *testing.T) {
	item := helpers.NewTestItem(t, "bread")
	params := settings.DefaultParams()
	pressure := pricing.ItemPressure{BuyCount: 5, BuyVolume: volume("50.0")}

	result, err := pricing.ComputeTick(pricing.TickInput{
		Item:          item,
		PreviousPrice: item.CurrentPrice(),
		Pressure:      pressure,
		Params:        params,
		OnlineCount:   5,
		Now:           tickTime,
	})

	require.NoError(t, err)
	assert.Equal(t, "bread", result.ItemID)
	assert.Equal(t, tickTime, result.TickTime)
	assert.Equal(t, pressure, result.Pressure)
	assert.Equal(t, 5, result.OnlineCount)
	// 25 base / 5 online, capped at 2.0
	assert.Equal(t, "2.000", result.Correction.StringFixed(3))
}
