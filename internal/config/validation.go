package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ottkit/streamd/internal/fsutil"
)

// Validate checks the configuration for errors. All problems are
// reported at once via errors.Join.
func Validate(cfg Config) error {
	var errs []error

	if cfg.Listen == "" {
		errs = append(errs, errors.New("config: listen address is required"))
	}
	if cfg.DataDir == "" {
		errs = append(errs, errors.New("config: data_dir is required"))
	}

	if cfg.Janitor.Enabled {
		if cfg.ScratchDir == "" {
			errs = append(errs, errors.New("config: janitor requires scratch_dir"))
		}
		if cfg.Janitor.Interval < time.Second {
			errs = append(errs, fmt.Errorf("config: janitor interval %s too small", cfg.Janitor.Interval))
		}
		if cfg.Janitor.MaxAge <= 0 {
			errs = append(errs, fmt.Errorf("config: janitor max_age %s must be positive", cfg.Janitor.MaxAge))
		}
		if cfg.Janitor.Pattern == "" {
			errs = append(errs, errors.New("config: janitor pattern is required"))
		}
	}

	if cfg.API.RateLimitPerMinute < 0 {
		errs = append(errs, fmt.Errorf("config: rate_limit_per_minute %d must not be negative", cfg.API.RateLimitPerMinute))
	}

	if cfg.Telemetry.Enabled {
		if cfg.Telemetry.ExporterType != "grpc" && cfg.Telemetry.ExporterType != "http" {
			errs = append(errs, fmt.Errorf("config: unsupported telemetry exporter %q", cfg.Telemetry.ExporterType))
		}
		if cfg.Telemetry.Endpoint == "" {
			errs = append(errs, errors.New("config: telemetry endpoint is required"))
		}
	}

	seen := make(map[string]bool, len(cfg.Streams))
	httpRoots := make(map[string]string)
	for _, desc := range cfg.Streams {
		if err := desc.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if seen[desc.ID] {
			errs = append(errs, fmt.Errorf("config: duplicate stream id %q", desc.ID))
		}
		seen[desc.ID] = true

		// No two streams may share an http root; collisions would make
		// teardown of one stream delete the other's output.
		for _, out := range desc.Outputs {
			if out.HTTPRoot == "" {
				continue
			}
			if owner, ok := httpRoots[out.HTTPRoot]; ok && owner != desc.ID {
				errs = append(errs, fmt.Errorf("config: streams %q and %q share http_root %q", owner, desc.ID, out.HTTPRoot))
			}
			httpRoots[out.HTTPRoot] = desc.ID

			// Relative roots are resolved against scratch_dir and must
			// stay confined to it; teardown deletes these recursively.
			if !filepath.IsAbs(out.HTTPRoot) {
				if cfg.ScratchDir == "" {
					errs = append(errs, fmt.Errorf("config: stream %q has relative http_root %q but scratch_dir is unset", desc.ID, out.HTTPRoot))
				} else if _, err := fsutil.ConfineRelPath(cfg.ScratchDir, out.HTTPRoot); err != nil {
					errs = append(errs, fmt.Errorf("config: stream %q http_root: %w", desc.ID, err))
				}
			}
		}
	}

	return errors.Join(errs...)
}
