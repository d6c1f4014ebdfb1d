package config

// RedisConfig holds the quote mirror configuration. The mirror pushes
// published quotes to redis for out-of-process readers; it is optional.
type RedisConfig struct {
	// Enabled controls whether quotes are mirrored at all
	Enabled bool `mapstructure:"enabled"`

	// Full connection URL, e.g. redis://localhost:6379/0
	URL string `mapstructure:"url"`

	// Key prefix for mirrored quotes
	KeyPrefix string `mapstructure:"key_prefix"`
}
