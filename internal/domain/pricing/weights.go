package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/meadowmc/economyd/internal/domain/shared"
)

var (
	weightPeak    = decimal.NewFromInt(1)
	weightOff     = decimal.NewFromFloat(0.7)
	weightDead    = decimal.NewFromFloat(0.3)
	correctionCap = decimal.NewFromInt(2)
)

// TimeOfDayWeight returns the activity multiplier for a wall-clock instant.
// The caller converts t into the configured server zone first.
//
//	peak (1.0): weekday 18:00-24:00, weekend 10:00-24:00
//	dead (0.3): 02:00-08:00 every day, weekday 09:00-17:00
//	off  (0.7): everything else
func TimeOfDayWeight(t time.Time) decimal.Decimal {
	hour := t.Hour()
	weekend := t.Weekday() == time.Saturday || t.Weekday() == time.Sunday

	if hour >= 2 && hour < 8 {
		return weightDead
	}
	if weekend {
		if hour >= 10 {
			return weightPeak
		}
		return weightOff
	}
	if hour >= 18 {
		return weightPeak
	}
	if hour >= 9 && hour < 17 {
		return weightDead
	}
	return weightOff
}

// PlayerCorrection amplifies activity when few players are online:
// min(2.0, base / max(online, 1)), carried at three fractional digits.
func PlayerCorrection(online, baseOnlinePlayers int) decimal.Decimal {
	if online < 1 {
		online = 1
	}
	if baseOnlinePlayers < 1 {
		baseOnlinePlayers = 1
	}
	c := shared.RoundPressure(
		decimal.NewFromInt(int64(baseOnlinePlayers)).Div(decimal.NewFromInt(int64(online))))
	if c.GreaterThan(correctionCap) {
		return correctionCap
	}
	return c
}

// ContributionWeight combines the three per-transaction multipliers.
func ContributionWeight(sessionWeight, timeOfDayWeight, playerCorrection decimal.Decimal) decimal.Decimal {
	return sessionWeight.Mul(timeOfDayWeight).Mul(playerCorrection)
}
