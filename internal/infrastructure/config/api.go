package config

import "time"

// APIConfig holds game API client configuration
type APIConfig struct {
	// Base URL for the game server
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	// Client version string sent with every request
	ClientVersion string `mapstructure:"client_version"`

	// Device token identifying this install; generated and persisted on first login
	DeviceToken string `mapstructure:"device_token"`

	// Rate limiting settings (a hard floor under the randomized pacing sleeps)
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// Request timeout
	Timeout time.Duration `mapstructure:"timeout" validate:"required"`

	// Retry configuration
	Retry RetryConfig `mapstructure:"retry"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	// Maximum requests per second
	Requests int `mapstructure:"requests" validate:"min=1"`

	// Burst size for token bucket
	Burst int `mapstructure:"burst" validate:"min=1"`
}

// RetryConfig holds retry configuration for failed requests
type RetryConfig struct {
	// Maximum number of retry attempts
	MaxAttempts int `mapstructure:"max_attempts" validate:"min=0"`

	// Base duration for exponential backoff
	BackoffBase time.Duration `mapstructure:"backoff_base"`
}
