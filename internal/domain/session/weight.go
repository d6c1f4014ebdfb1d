package session

import (
	"time"

	"github.com/shopspring/decimal"
)

// Session-age thresholds for the weight tiers.
const (
	shortSessionAge  = 10 * time.Minute
	mediumSessionAge = 30 * time.Minute
	longSessionAge   = 120 * time.Minute
)

// WeightTiers holds the four session-age multipliers. Values come from the
// runtime settings store; DefaultWeightTiers documents the defaults.
type WeightTiers struct {
	Instant decimal.Decimal // session age < 10 min
	Short   decimal.Decimal // 10-30 min
	Medium  decimal.Decimal // 30-120 min
	Long    decimal.Decimal // >= 120 min
}

// DefaultWeightTiers returns the documented default multipliers.
func DefaultWeightTiers() WeightTiers {
	return WeightTiers{
		Instant: decimal.NewFromFloat(0.3),
		Short:   decimal.NewFromFloat(0.6),
		Medium:  decimal.NewFromFloat(0.8),
		Long:    decimal.NewFromInt(1),
	}
}

// ForAge maps a session age onto its weight tier.
func (w WeightTiers) ForAge(age time.Duration) decimal.Decimal {
	switch {
	case age < shortSessionAge:
		return w.Instant
	case age < mediumSessionAge:
		return w.Short
	case age < longSessionAge:
		return w.Medium
	default:
		return w.Long
	}
}
