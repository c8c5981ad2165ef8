package registry

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ottkit/streamd/internal/protocol"
	"github.com/ottkit/streamd/internal/stream"
)

type fakeDispatcher struct {
	mu       sync.Mutex
	requests []protocol.Request
	err      error
}

func (d *fakeDispatcher) Dispatch(_ context.Context, req protocol.Request) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.requests = append(d.requests, req)
	return nil
}

func (d *fakeDispatcher) sent() []protocol.Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]protocol.Request(nil), d.requests...)
}

type fakeRecorder struct {
	mu     sync.Mutex
	states []stream.State
}

func (r *fakeRecorder) Record(_ context.Context, _ string, _ stream.Type, state stream.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, state)
	return nil
}

func newTestManager(t *testing.T) (*Manager, *fakeDispatcher, *fakeRecorder) {
	t.Helper()
	d := &fakeDispatcher{}
	r := &fakeRecorder{}
	return NewManager(d, r, zerolog.Nop()), d, r
}

func relayDescriptor(id string, outputs ...stream.Output) stream.Descriptor {
	return stream.Descriptor{ID: id, Type: stream.TypeRelay, Outputs: outputs}
}

func TestManagerConfigure(t *testing.T) {
	m, _, rec := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Configure(ctx, relayDescriptor("s1")))

	st, err := m.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, stream.StateConfigured, st.State)

	err = m.Configure(ctx, relayDescriptor("s1"))
	assert.ErrorIs(t, err, ErrDuplicateStream)

	err = m.Configure(ctx, stream.Descriptor{Type: stream.TypeRelay})
	assert.ErrorIs(t, err, stream.ErrMissingStreamID)

	assert.Equal(t, []stream.State{stream.StateConfigured}, rec.states)
}

func TestManagerStartStopFlow(t *testing.T) {
	m, d, rec := newTestManager(t)
	ctx := context.Background()

	root := filepath.Join(t.TempDir(), "s1")
	require.NoError(t, os.MkdirAll(root, 0o755))

	desc := relayDescriptor("s1",
		stream.Output{URL: "http://cdn/s1/index.m3u8", HTTPRoot: root},
		stream.Output{URL: "rtmp://ingest/live/s1"},
	)
	require.NoError(t, m.Configure(ctx, desc))
	require.NoError(t, m.Start(ctx, "s1"))

	st, err := m.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, stream.StateRunning, st.State)
	assert.Equal(t, []string{"s1"}, m.RunningIDs())

	require.NoError(t, m.Stop(ctx, "s1"))

	// Stream is gone from the registry and its http root was reclaimed.
	_, err = m.Get("s1")
	assert.ErrorIs(t, err, ErrUnknownStream)
	_, statErr := os.Stat(root)
	assert.True(t, os.IsNotExist(statErr))

	reqs := d.sent()
	require.Len(t, reqs, 2)
	assert.Equal(t, protocol.MethodStartStream, reqs[0].Method)
	assert.Equal(t, protocol.MethodStopStream, reqs[1].Method)
	// Sequence IDs are unique and increasing across commands.
	assert.Less(t, reqs[0].ID, reqs[1].ID)

	assert.Equal(t, []stream.State{
		stream.StateConfigured,
		stream.StateRunning,
		stream.StateStopping,
		stream.StateCleanedUp,
	}, rec.states)
}

func TestManagerRestart(t *testing.T) {
	m, d, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Configure(ctx, relayDescriptor("s1")))

	// Restart before start is rejected.
	assert.Error(t, m.Restart(ctx, "s1"))

	require.NoError(t, m.Start(ctx, "s1"))
	require.NoError(t, m.Restart(ctx, "s1"))

	reqs := d.sent()
	require.Len(t, reqs, 2)
	assert.Equal(t, protocol.MethodRestartStream, reqs[1].Method)
}

func TestManagerRequestLog(t *testing.T) {
	m, d, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Configure(ctx, relayDescriptor("s1")))
	require.NoError(t, m.RequestLog(ctx, "s1", "http://collector/logs/s1"))

	reqs := d.sent()
	require.Len(t, reqs, 1)
	assert.Equal(t, protocol.MethodGetLogStream, reqs[0].Method)

	err := m.RequestLog(ctx, "nope", "http://collector/logs/nope")
	assert.ErrorIs(t, err, ErrUnknownStream)
}

func TestManagerResolve(t *testing.T) {
	m, d, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Configure(ctx, relayDescriptor("s1")))
	require.NoError(t, m.Start(ctx, "s1"))

	seq := d.sent()[0].ID
	resp, err := protocol.NewStartStreamResponseSuccess(seq)
	require.NoError(t, err)

	method, err := m.Resolve(resp)
	require.NoError(t, err)
	assert.Equal(t, protocol.MethodStartStream, method)

	// A sequence ID resolves at most once.
	_, err = m.Resolve(resp)
	assert.Error(t, err)
}

func TestManagerDispatchFailureUnwindsPending(t *testing.T) {
	m, d, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Configure(ctx, relayDescriptor("s1")))

	d.err = errors.New("worker unreachable")
	err := m.Start(ctx, "s1")
	require.Error(t, err)

	// The instance never left Configured and nothing stays pending.
	st, getErr := m.Get("s1")
	require.NoError(t, getErr)
	assert.Equal(t, stream.StateConfigured, st.State)

	resp, respErr := protocol.NewStartStreamResponseSuccess(1)
	require.NoError(t, respErr)
	_, err = m.Resolve(resp)
	assert.Error(t, err)
}

func TestManagerRejectsIllegalLifecycleCommands(t *testing.T) {
	m, d, rec := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Configure(ctx, relayDescriptor("s1")))

	// Stopping a stream that never ran must not reach the worker and
	// must not leave a pending correlation entry behind.
	err := m.Stop(ctx, "s1")
	require.Error(t, err)
	assert.Empty(t, d.sent())
	m.mu.Lock()
	assert.Empty(t, m.pending)
	m.mu.Unlock()

	st, err := m.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, stream.StateConfigured, st.State)

	// Starting twice is rejected before dispatch as well.
	require.NoError(t, m.Start(ctx, "s1"))
	err = m.Start(ctx, "s1")
	require.Error(t, err)

	reqs := d.sent()
	require.Len(t, reqs, 1)
	assert.Equal(t, protocol.MethodStartStream, reqs[0].Method)
	assert.Equal(t, []stream.State{stream.StateConfigured, stream.StateRunning}, rec.states)
}

func TestManagerList(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Configure(ctx, relayDescriptor("b")))
	require.NoError(t, m.Configure(ctx, relayDescriptor("a")))

	list := m.List()
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "b", list[1].ID)
}
