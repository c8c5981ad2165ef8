package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ottkit/streamd/internal/fsutil"
)

// Loader loads configuration from an optional YAML file plus STREAMD_*
// environment overrides.
type Loader struct {
	// Path is the YAML config file; empty means env-only configuration.
	Path string
}

// Load builds a validated configuration.
func (l Loader) Load() (Config, error) {
	cfg := Default()

	if l.Path != "" {
		data, err := os.ReadFile(l.Path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", l.Path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", l.Path, err)
		}
	}

	applyEnv(&cfg)

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}

	resolveHTTPRoots(&cfg)
	return cfg, nil
}

// resolveHTTPRoots rewrites relative http_root entries to absolute
// paths under the scratch dir. Validate has already confirmed they
// confine; teardown then operates on absolute paths only.
func resolveHTTPRoots(cfg *Config) {
	for i := range cfg.Streams {
		for j := range cfg.Streams[i].Outputs {
			root := cfg.Streams[i].Outputs[j].HTTPRoot
			if root == "" || filepath.IsAbs(root) {
				continue
			}
			resolved, err := fsutil.ConfineRelPath(cfg.ScratchDir, root)
			if err != nil {
				continue
			}
			cfg.Streams[i].Outputs[j].HTTPRoot = resolved
		}
	}
}

func applyEnv(cfg *Config) {
	cfg.Listen = envString("STREAMD_LISTEN", cfg.Listen)
	cfg.DataDir = envString("STREAMD_DATA_DIR", cfg.DataDir)
	cfg.ScratchDir = envString("STREAMD_SCRATCH_DIR", cfg.ScratchDir)
	cfg.LogLevel = envString("STREAMD_LOG_LEVEL", cfg.LogLevel)
	cfg.LicenseKey = envString("STREAMD_LICENSE_KEY", cfg.LicenseKey)

	cfg.Janitor.Enabled = envBool("STREAMD_JANITOR_ENABLED", cfg.Janitor.Enabled)
	cfg.Janitor.Interval = envDuration("STREAMD_JANITOR_INTERVAL", cfg.Janitor.Interval)
	cfg.Janitor.MaxAge = envDuration("STREAMD_JANITOR_MAX_AGE", cfg.Janitor.MaxAge)
	cfg.Janitor.Pattern = envString("STREAMD_JANITOR_PATTERN", cfg.Janitor.Pattern)

	cfg.API.RateLimitPerMinute = envInt("STREAMD_API_RATE_LIMIT", cfg.API.RateLimitPerMinute)

	cfg.Telemetry.Enabled = envBool("STREAMD_OTEL_ENABLED", cfg.Telemetry.Enabled)
	cfg.Telemetry.ExporterType = envString("STREAMD_OTEL_EXPORTER", cfg.Telemetry.ExporterType)
	cfg.Telemetry.Endpoint = envString("STREAMD_OTEL_ENDPOINT", cfg.Telemetry.Endpoint)
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return fallback
}
