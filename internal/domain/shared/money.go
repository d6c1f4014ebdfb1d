package shared

import "github.com/shopspring/decimal"

// All engine arithmetic runs on fixed-point decimals. Rounding happens at
// exactly three scales:
//
//   - money (prices, totals, balances): 2 fractional digits
//   - pressures (demand/supply/net, correction factor): 3 fractional digits
//   - weighted volumes: 1 fractional digit
//
// decimal.Decimal.Round rounds half away from zero, which is half-up for the
// non-negative magnitudes the engine produces. This file is the single place
// where the rounding mode is chosen.

const (
	moneyScale    = 2
	pressureScale = 3
	volumeScale   = 1
)

// RoundMoney rounds a monetary amount to cents, half-up.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyScale)
}

// RoundPressure rounds a pressure value to three fractional digits.
func RoundPressure(d decimal.Decimal) decimal.Decimal {
	return d.Round(pressureScale)
}

// RoundVolume rounds a weighted volume to one fractional digit.
func RoundVolume(d decimal.Decimal) decimal.Decimal {
	return d.Round(volumeScale)
}
