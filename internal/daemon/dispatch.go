package daemon

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/ottkit/streamd/internal/protocol"
)

// LogDispatcher is the default command transport: it encodes each
// request envelope and emits it as a structured log event. A real
// worker transport plugs in behind the same interface.
type LogDispatcher struct {
	logger zerolog.Logger
}

// NewLogDispatcher creates a dispatcher that logs outgoing commands.
func NewLogDispatcher(logger zerolog.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

// Dispatch encodes the request and logs the wire envelope.
func (d *LogDispatcher) Dispatch(_ context.Context, req protocol.Request) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return err
	}
	d.logger.Info().
		Str("event", "dispatch.command").
		Str("method", req.Method).
		Uint64("seq", uint64(req.ID)).
		RawJSON("envelope", payload).
		Msg("command sent")
	return nil
}
