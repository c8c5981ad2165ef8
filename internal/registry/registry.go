// Package registry tracks the stream instances the daemon controls and
// drives their lifecycle through the control protocol.
package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ottkit/streamd/internal/metrics"
	"github.com/ottkit/streamd/internal/protocol"
	"github.com/ottkit/streamd/internal/stream"
)

// Dispatcher carries a built request towards its worker. The transport
// behind it is out of scope here; implementations may queue, send, or
// log.
type Dispatcher interface {
	Dispatch(ctx context.Context, req protocol.Request) error
}

// Recorder persists lifecycle transitions. Satisfied by *journal.Journal.
type Recorder interface {
	Record(ctx context.Context, id string, typ stream.Type, state stream.State) error
}

// ErrUnknownStream is returned for operations on unregistered stream IDs.
var ErrUnknownStream = fmt.Errorf("registry: unknown stream")

// ErrDuplicateStream is returned when configuring an already known ID.
var ErrDuplicateStream = fmt.Errorf("registry: stream already configured")

// Status is a point-in-time view of one registered stream.
type Status struct {
	ID    string       `json:"id"`
	Type  stream.Type  `json:"type"`
	State stream.State `json:"state"`
}

// Manager owns the registered stream instances and the per-connection
// sequence space used for their control commands.
type Manager struct {
	dispatcher Dispatcher
	recorder   Recorder
	logger     zerolog.Logger

	alloc protocol.Allocator

	mu        sync.Mutex
	instances map[string]*stream.Instance
	pending   map[protocol.SequenceID]string // sequence -> method
}

// NewManager creates an empty registry.
func NewManager(dispatcher Dispatcher, recorder Recorder, logger zerolog.Logger) *Manager {
	return &Manager{
		dispatcher: dispatcher,
		recorder:   recorder,
		logger:     logger,
		instances:  make(map[string]*stream.Instance),
		pending:    make(map[protocol.SequenceID]string),
	}
}

// Configure registers a stream descriptor in the Configured state.
func (m *Manager) Configure(ctx context.Context, desc stream.Descriptor) error {
	if err := desc.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	if _, exists := m.instances[desc.ID]; exists {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDuplicateStream, desc.ID)
	}
	in := stream.NewInstance(desc, m.logger)
	m.instances[desc.ID] = in
	size := len(m.instances)
	m.mu.Unlock()

	metrics.SetActiveStreams(size)
	m.record(ctx, desc, stream.StateConfigured)
	return nil
}

// Start dispatches a start_stream command and moves the instance to
// Running. The lifecycle gate runs before anything reaches the worker:
// a stream that cannot legally start must not cause a dispatch.
func (m *Manager) Start(ctx context.Context, id string) error {
	in, err := m.instance(id)
	if err != nil {
		return err
	}
	if st := in.State(); !st.CanTransitionTo(stream.StateRunning) {
		return fmt.Errorf("registry: stream %s is %s, cannot start", id, st)
	}

	if err := m.send(ctx, protocol.MethodStartStream, func(seq protocol.SequenceID) (protocol.Request, error) {
		return protocol.NewStartStreamRequest(seq, protocol.StreamCommandInfo{StreamID: id})
	}); err != nil {
		return err
	}

	if err := in.Transition(stream.StateRunning); err != nil {
		return err
	}
	m.record(ctx, in.Descriptor(), stream.StateRunning)
	return nil
}

// Stop dispatches a stop_stream command, runs teardown cleanup, and
// removes the instance from the registry.
func (m *Manager) Stop(ctx context.Context, id string) error {
	in, err := m.instance(id)
	if err != nil {
		return err
	}
	if st := in.State(); !st.CanTransitionTo(stream.StateStopping) {
		return fmt.Errorf("registry: stream %s is %s, cannot stop", id, st)
	}

	if err := m.send(ctx, protocol.MethodStopStream, func(seq protocol.SequenceID) (protocol.Request, error) {
		return protocol.NewStopStreamRequest(seq, protocol.StreamCommandInfo{StreamID: id})
	}); err != nil {
		return err
	}

	if err := in.Transition(stream.StateStopping); err != nil {
		return err
	}
	m.record(ctx, in.Descriptor(), stream.StateStopping)

	// Cleanup runs before the stop is reported complete.
	in.CleanUp()
	m.record(ctx, in.Descriptor(), stream.StateCleanedUp)

	m.mu.Lock()
	delete(m.instances, id)
	size := len(m.instances)
	m.mu.Unlock()
	metrics.SetActiveStreams(size)
	return nil
}

// Restart dispatches a restart_stream command; the instance stays
// Running.
func (m *Manager) Restart(ctx context.Context, id string) error {
	in, err := m.instance(id)
	if err != nil {
		return err
	}
	if in.State() != stream.StateRunning {
		return fmt.Errorf("registry: stream %s is %s, not running", id, in.State())
	}

	return m.send(ctx, protocol.MethodRestartStream, func(seq protocol.SequenceID) (protocol.Request, error) {
		return protocol.NewRestartStreamRequest(seq, protocol.StreamCommandInfo{StreamID: id})
	})
}

// RequestLog asks the stream's worker to upload its log to uploadURL.
func (m *Manager) RequestLog(ctx context.Context, id, uploadURL string) error {
	if _, err := m.instance(id); err != nil {
		return err
	}
	return m.send(ctx, protocol.MethodGetLogStream, func(seq protocol.SequenceID) (protocol.Request, error) {
		return protocol.NewGetLogStreamRequest(seq, protocol.GetLogInfo{Path: uploadURL})
	})
}

// Activate dispatches an activate command with the given license key.
func (m *Manager) Activate(ctx context.Context, license string) error {
	return m.send(ctx, protocol.MethodActivate, func(seq protocol.SequenceID) (protocol.Request, error) {
		return protocol.NewActivateRequest(seq, protocol.ActivateInfo{License: license})
	})
}

// PingService dispatches a liveness probe to the worker service.
func (m *Manager) PingService(ctx context.Context) error {
	return m.send(ctx, protocol.MethodPing, func(seq protocol.SequenceID) (protocol.Request, error) {
		return protocol.NewPingRequest(seq, protocol.NewClientPingInfo())
	})
}

// StopService dispatches a service shutdown command with a delay in
// seconds.
func (m *Manager) StopService(ctx context.Context, delay uint64) error {
	return m.send(ctx, protocol.MethodStopService, func(seq protocol.SequenceID) (protocol.Request, error) {
		return protocol.NewStopServiceRequest(seq, protocol.StopInfo{Delay: delay})
	})
}

// Resolve matches a worker response to its pending request and returns
// the request's method. Unknown sequence IDs are an error: either the
// worker invented an ID or the response was already consumed.
func (m *Manager) Resolve(resp protocol.Response) (string, error) {
	m.mu.Lock()
	method, ok := m.pending[resp.ID]
	if ok {
		delete(m.pending, resp.ID)
	}
	m.mu.Unlock()

	if !ok {
		return "", fmt.Errorf("registry: no pending request for sequence %d", resp.ID)
	}
	metrics.RecordResponse(method, resp.IsFail())
	return method, nil
}

// Get returns the status of one stream.
func (m *Manager) Get(id string) (Status, error) {
	in, err := m.instance(id)
	if err != nil {
		return Status{}, err
	}
	return Status{ID: in.ID(), Type: in.Descriptor().Type, State: in.State()}, nil
}

// List returns the status of all registered streams, ordered by ID.
func (m *Manager) List() []Status {
	m.mu.Lock()
	statuses := make([]Status, 0, len(m.instances))
	for _, in := range m.instances {
		statuses = append(statuses, Status{ID: in.ID(), Type: in.Descriptor().Type, State: in.State()})
	}
	m.mu.Unlock()

	sort.Slice(statuses, func(i, j int) bool { return statuses[i].ID < statuses[j].ID })
	return statuses
}

// RunningIDs returns the IDs of streams currently in the Running state.
func (m *Manager) RunningIDs() []string {
	var ids []string
	for _, st := range m.List() {
		if st.State == stream.StateRunning {
			ids = append(ids, st.ID)
		}
	}
	return ids
}

func (m *Manager) instance(id string) (*stream.Instance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	in, ok := m.instances[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStream, id)
	}
	return in, nil
}

// send builds a request under a fresh sequence ID, registers it as
// pending, and hands it to the dispatcher. The pending entry is only
// visible once the request has been fully constructed.
func (m *Manager) send(ctx context.Context, method string, build func(protocol.SequenceID) (protocol.Request, error)) error {
	seq := m.alloc.Next()
	req, err := build(seq)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.pending[seq] = method
	m.mu.Unlock()

	if err := m.dispatcher.Dispatch(ctx, req); err != nil {
		m.mu.Lock()
		delete(m.pending, seq)
		m.mu.Unlock()
		return fmt.Errorf("registry: dispatch %s: %w", method, err)
	}

	metrics.RecordCommandBuilt(method)
	m.logger.Debug().
		Str("event", "registry.dispatch").
		Str("method", method).
		Uint64("seq", uint64(seq)).
		Msg("command dispatched")
	return nil
}

func (m *Manager) record(ctx context.Context, desc stream.Descriptor, state stream.State) {
	if m.recorder == nil {
		return
	}
	if err := m.recorder.Record(ctx, desc.ID, desc.Type, state); err != nil {
		m.logger.Warn().
			Err(err).
			Str("event", "registry.journal_failed").
			Str("stream_id", desc.ID).
			Msg("failed to journal lifecycle transition")
	}
}
