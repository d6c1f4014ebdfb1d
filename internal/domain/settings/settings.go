package settings

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/meadowmc/economyd/internal/domain/session"
)

// Recognized setting keys. Values are stored as strings and parsed by the
// typed accessors below.
const (
	KeyBaseOnlinePlayers    = "base_online_players"
	KeyPriceUpdateInterval  = "price_update_interval"
	KeyMaxPriceChange       = "max_price_change"
	KeyMinPriceRatio        = "min_price_ratio"
	KeyMaxPriceRatio        = "max_price_ratio"
	KeySessionWeightInstant = "session_weight_instant"
	KeySessionWeightShort   = "session_weight_short"
	KeySessionWeightMedium  = "session_weight_medium"
	KeySessionWeightLong    = "session_weight_long"
	KeyQuoteBasis           = "quote_basis"
)

// Defaults maps each recognized key to its documented default.
var Defaults = map[string]string{
	KeyBaseOnlinePlayers:    "25",
	KeyPriceUpdateInterval:  "600",
	KeyMaxPriceChange:       "0.10",
	KeyMinPriceRatio:        "0.50",
	KeyMaxPriceRatio:        "3.00",
	KeySessionWeightInstant: "0.3",
	KeySessionWeightShort:   "0.6",
	KeySessionWeightMedium:  "0.8",
	KeySessionWeightLong:    "1.0",
	KeyQuoteBasis:           "ask",
}

// Snapshot is an immutable read of the settings store. A computation (one
// tick, one transaction) reads a snapshot once at entry so every value it
// uses is consistent.
type Snapshot map[string]string

// get returns the stored value, falling back to the documented default and
// logging the omission.
func (s Snapshot) get(key string) string {
	if v, ok := s[key]; ok && v != "" {
		return v
	}
	def := Defaults[key]
	log.Debug().Str("key", key).Str("default", def).Msg("setting missing, using default")
	return def
}

// Int reads an integer setting.
func (s Snapshot) Int(key string) int {
	v := s.get(key)
	d, err := decimal.NewFromString(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("unparsable int setting, using default")
		d, _ = decimal.NewFromString(Defaults[key])
	}
	return int(d.IntPart())
}

// Decimal reads a fixed-point setting.
func (s Snapshot) Decimal(key string) decimal.Decimal {
	v := s.get(key)
	d, err := decimal.NewFromString(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("unparsable decimal setting, using default")
		d, _ = decimal.NewFromString(Defaults[key])
	}
	return d
}

// Seconds reads a duration setting stored as a second count.
func (s Snapshot) Seconds(key string) time.Duration {
	return time.Duration(s.Int(key)) * time.Second
}

// String reads a plain string setting.
func (s Snapshot) String(key string) string {
	return s.get(key)
}

// EngineParams is the decoded parameter block the pricing engine and the
// executor work from. Decoded once per computation from a Snapshot.
type EngineParams struct {
	BaseOnlinePlayers   int
	PriceUpdateInterval time.Duration
	MaxPriceChange      decimal.Decimal
	MinPriceRatio       decimal.Decimal
	MaxPriceRatio       decimal.Decimal
	WeightTiers         session.WeightTiers
	QuoteBasis          string
}

// Params decodes the engine parameter block from the snapshot.
func (s Snapshot) Params() EngineParams {
	return EngineParams{
		BaseOnlinePlayers:   s.Int(KeyBaseOnlinePlayers),
		PriceUpdateInterval: s.Seconds(KeyPriceUpdateInterval),
		MaxPriceChange:      s.Decimal(KeyMaxPriceChange),
		MinPriceRatio:       s.Decimal(KeyMinPriceRatio),
		MaxPriceRatio:       s.Decimal(KeyMaxPriceRatio),
		WeightTiers: session.WeightTiers{
			Instant: s.Decimal(KeySessionWeightInstant),
			Short:   s.Decimal(KeySessionWeightShort),
			Medium:  s.Decimal(KeySessionWeightMedium),
			Long:    s.Decimal(KeySessionWeightLong),
		},
		QuoteBasis: s.String(KeyQuoteBasis),
	}
}

// DefaultParams returns the parameter block built purely from defaults.
func DefaultParams() EngineParams {
	return Snapshot{}.Params()
}
