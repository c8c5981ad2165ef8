// Package fsutil provides the file-system helpers used around stream
// artifacts: directory setup, best-effort pruning, and log upload.
package fsutil

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	xlog "github.com/ottkit/streamd/internal/log"
)

// EnsureDir creates the directory (and parents) if it does not exist and
// verifies it is writable.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("fsutil: create %s: %w", dir, err)
	}

	probe, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return fmt.Errorf("fsutil: %s not writable: %w", dir, err)
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	return nil
}

// RemoveFilesByExtension deletes every regular file in dir whose name
// ends with ext. It does not recurse and is best effort: per-file
// failures are logged at warn and skipped.
func RemoveFilesByExtension(dir, ext string) {
	logger := xlog.WithComponent("fsutil")

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	logger.Debug().Str("path", dir).Str("ext", ext).Msg("pruning files by extension")
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ext) {
			continue
		}
		target := filepath.Join(dir, entry.Name())
		if err := os.Remove(target); err != nil {
			logger.Warn().Err(err).Str("path", target).Msg("cannot remove file")
			continue
		}
		logger.Debug().Str("path", target).Msg("file removed")
	}
}

// RemoveOldFiles deletes files under dir that match the glob pattern and
// were last modified before cutoff. With recursive set, subdirectories
// are walked as well. Best effort: individual failures are logged and
// skipped.
func RemoveOldFiles(dir string, cutoff time.Time, pattern string, recursive bool) {
	logger := xlog.WithComponent("fsutil")

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		target := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if recursive {
				RemoveOldFiles(target, cutoff, pattern, recursive)
			}
			continue
		}

		matched, err := path.Match(pattern, entry.Name())
		if err != nil || !matched {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			logger.Warn().Err(err).Str("path", target).Msg("cannot stat file")
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}

		if err := os.Remove(target); err != nil {
			logger.Warn().Err(err).Str("path", target).Msg("cannot remove file")
			continue
		}
		logger.Debug().Str("path", target).Msg("stale file removed")
	}
}
