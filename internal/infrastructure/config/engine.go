package config

import "time"

// EngineConfig holds pricing engine and executor configuration that is fixed
// at process start. Tunables that admins adjust at runtime live in the
// settings store instead.
type EngineConfig struct {
	// Timezone used for time-of-day demand weighting
	Timezone string `mapstructure:"timezone"`

	// InitialBalance granted to a player account on first touch
	InitialBalance string `mapstructure:"initial_balance"`

	// CommitTimeout bounds the detached ledger commit of an in-flight trade
	CommitTimeout time.Duration `mapstructure:"commit_timeout"`
}
