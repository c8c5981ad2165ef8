// Package config loads and validates the streamd daemon configuration
// from a YAML file with environment overrides, and supports hot reload.
package config

import (
	"time"

	"github.com/ottkit/streamd/internal/stream"
)

// Config is the full daemon configuration.
type Config struct {
	// Listen is the control API listen address.
	Listen string `yaml:"listen"`

	// DataDir holds daemon state: the lifecycle journal and the
	// shutdown snapshot.
	DataDir string `yaml:"data_dir"`

	// ScratchDir is pruned periodically by the janitor.
	ScratchDir string `yaml:"scratch_dir"`

	// LogLevel sets the zerolog level ("debug", "info", ...).
	LogLevel string `yaml:"log_level"`

	// LicenseKey is presented to workers in activate commands.
	LicenseKey string `yaml:"license_key"`

	Janitor   JanitorConfig   `yaml:"janitor"`
	API       APIConfig       `yaml:"api"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Streams are the statically configured stream descriptors.
	Streams []stream.Descriptor `yaml:"streams"`
}

// JanitorConfig controls periodic pruning of the scratch directory.
type JanitorConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Interval  time.Duration `yaml:"interval"`
	MaxAge    time.Duration `yaml:"max_age"`
	Pattern   string        `yaml:"pattern"`
	Recursive bool          `yaml:"recursive"`
}

// APIConfig controls the control API surface.
type APIConfig struct {
	// RateLimitPerMinute caps requests per client IP per minute.
	// Zero disables rate limiting.
	RateLimitPerMinute int `yaml:"rate_limit_per_minute"`
}

// TelemetryConfig controls OTLP trace export.
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled"`
	ExporterType string  `yaml:"exporter_type"` // "grpc" or "http"
	Endpoint     string  `yaml:"endpoint"`
	SamplingRate float64 `yaml:"sampling_rate"`
}

// Default returns the baseline configuration before file and env
// overrides are applied.
func Default() Config {
	return Config{
		Listen:     ":8044",
		DataDir:    "/var/lib/streamd",
		ScratchDir: "",
		LogLevel:   "info",
		Janitor: JanitorConfig{
			Enabled:   false,
			Interval:  time.Hour,
			MaxAge:    24 * time.Hour,
			Pattern:   "*.ts",
			Recursive: true,
		},
		API: APIConfig{
			RateLimitPerMinute: 600,
		},
		Telemetry: TelemetryConfig{
			Enabled:      false,
			ExporterType: "grpc",
			SamplingRate: 1.0,
		},
	}
}
