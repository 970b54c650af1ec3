// Package config defines process configuration and its loading.
//
// Conventions:
// - Defaults live in New; Load layers an optional YAML file and env vars
//   on top.
// - All functions accept context.Context first.
package config

import "context"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// MetricsAddr is the Prometheus exposition listen address, e.g.
	// ":9090". Empty disables the listener.
	MetricsAddr string `koanf:"metrics_addr"`

	// GeneratorBaseURL is the base URL of the reasoning backend.
	GeneratorBaseURL string `koanf:"generator_base_url"`

	// GeneratorModel is the model requested on every exchange.
	GeneratorModel string `koanf:"generator_model"`

	// MaxConcurrentDays caps day tasks in flight during week
	// optimization.
	MaxConcurrentDays int `koanf:"max_concurrent_days"`

	// DayTimeoutSeconds bounds one day's generator exchange.
	DayTimeoutSeconds int `koanf:"day_timeout_seconds"`

	// SessionTTLMinutes is how long an idle prompt session survives.
	SessionTTLMinutes int `koanf:"session_ttl_minutes"`
}

// New returns the default configuration. Context is accepted to satisfy
// the package convention; it is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		MetricsAddr:       "",
		GeneratorBaseURL:  "http://localhost:11434",
		GeneratorModel:    "llama3.1",
		MaxConcurrentDays: 7,
		DayTimeoutSeconds: 45,
		SessionTTLMinutes: 30,
	}
}
