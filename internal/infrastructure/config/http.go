package config

import "time"

// HTTPConfig holds the control-plane HTTP server configuration
type HTTPConfig struct {
	// Host to bind (default: 0.0.0.0)
	Host string `mapstructure:"host"`

	// Port for the HTTP API
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535"`

	// APIKey required in the X-API-Key header. Empty disables auth,
	// intended for local development only.
	APIKey string `mapstructure:"api_key"`

	// Request rate limit (requests per second) and burst per client
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// Server timeouts
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// RateLimitConfig holds request rate limiting configuration
type RateLimitConfig struct {
	Requests float64 `mapstructure:"requests" validate:"min=0"`
	Burst    int     `mapstructure:"burst" validate:"min=0"`
}
