package daemon

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"
)

// snapshotName is the file under the data dir that records which
// streams were running at shutdown.
const snapshotName = "streams.snapshot.json"

// Snapshot records the stream IDs that were running when the daemon
// shut down, so an operator can see what was interrupted.
type Snapshot struct {
	SavedAt time.Time `json:"saved_at"`
	Running []string  `json:"running"`
}

// WriteSnapshot atomically persists the snapshot under dataDir. The
// write goes through a temp file and rename so a crash mid-write never
// leaves a torn snapshot behind.
func WriteSnapshot(dataDir string, running []string) error {
	snap := Snapshot{
		SavedAt: time.Now().UTC(),
		Running: running,
	}
	payload, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return renameio.WriteFile(filepath.Join(dataDir, snapshotName), payload, 0o644)
}

// ReadSnapshot loads the last shutdown snapshot. A missing file is not
// an error; it returns a zero snapshot.
func ReadSnapshot(dataDir string) (Snapshot, error) {
	payload, err := os.ReadFile(filepath.Join(dataDir, snapshotName))
	if err != nil {
		if os.IsNotExist(err) {
			return Snapshot{}, nil
		}
		return Snapshot{}, err
	}
	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
