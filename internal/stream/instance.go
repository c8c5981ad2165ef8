package stream

import (
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ottkit/streamd/internal/metrics"
)

// Instance is the runtime handle of one configured stream. It walks the
// lifecycle Configured → Running → Stopping → CleanedUp and owns the
// teardown of the stream's externally visible artifacts.
type Instance struct {
	desc   Descriptor
	logger zerolog.Logger

	mu      sync.Mutex
	state   State
	cleaned bool
}

// NewInstance creates an instance in the Configured state. The logger
// is borrowed for the life of the instance.
func NewInstance(desc Descriptor, logger zerolog.Logger) *Instance {
	return &Instance{
		desc:   desc,
		logger: logger.With().Str("stream_id", desc.ID).Logger(),
		state:  StateConfigured,
	}
}

// Descriptor returns the stream's static configuration.
func (in *Instance) Descriptor() Descriptor {
	return in.desc
}

// ID returns the stream ID.
func (in *Instance) ID() string {
	return in.desc.ID
}

// State returns the current lifecycle state.
func (in *Instance) State() State {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.state
}

// Transition moves the instance to target, enforcing the lifecycle
// state machine.
func (in *Instance) Transition(target State) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if !in.state.CanTransitionTo(target) {
		return fmt.Errorf("stream %s: illegal transition %s -> %s", in.desc.ID, in.state, target)
	}

	in.logger.Info().
		Str("event", "stream.state").
		Str("old_state", in.state.String()).
		Str("new_state", target.String()).
		Msg("stream state changed")
	in.state = target
	return nil
}

// CleanUp reclaims the stream's externally visible artifacts. For
// exempt stream types it is a no-op. Otherwise every http output's
// HTTPRoot directory is removed recursively, best effort: individual
// deletion failures are logged and never block teardown. CleanUp is
// idempotent; calling it again after completion does nothing.
func (in *Instance) CleanUp() {
	in.mu.Lock()
	if in.cleaned {
		in.mu.Unlock()
		return
	}
	in.cleaned = true
	if in.state == StateStopping {
		in.state = StateCleanedUp
	}
	in.mu.Unlock()

	if !in.desc.Type.NeedsCleanup() {
		return
	}

	metrics.RecordCleanupRun(in.desc.Type.String())
	for _, out := range in.desc.Outputs {
		if out.Scheme() != SchemeHTTP {
			continue
		}
		if out.HTTPRoot == "" {
			// http sink without a backing directory: nothing to delete.
			continue
		}
		if err := os.RemoveAll(out.HTTPRoot); err != nil {
			in.logger.Warn().
				Err(err).
				Str("event", "stream.cleanup_failed").
				Str("path", out.HTTPRoot).
				Msg("failed to remove http root")
			continue
		}
		metrics.RecordCleanupRemoved()
		in.logger.Debug().
			Str("event", "stream.cleanup").
			Str("path", out.HTTPRoot).
			Msg("removed http root")
	}
}
