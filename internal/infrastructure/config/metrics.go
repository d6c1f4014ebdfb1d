package config

// MetricsConfig holds metrics collection and exposure configuration
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active
	Enabled bool `mapstructure:"enabled"`

	// Path for the Prometheus endpoint (default: /metrics)
	Path string `mapstructure:"path"`
}
