package config

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolderReloadSwapsConfig(t *testing.T) {
	path := writeConfig(t, "listen: \":9000\"\n")
	loader := Loader{Path: path}

	initial, err := loader.Load()
	require.NoError(t, err)

	h := NewHolder(initial, loader)
	assert.Equal(t, ":9000", h.Current().Listen)

	require.NoError(t, os.WriteFile(path, []byte("listen: \":9001\"\n"), 0o644))
	require.NoError(t, h.Reload(context.Background()))
	assert.Equal(t, ":9001", h.Current().Listen)
}

func TestHolderReloadKeepsOldConfigOnError(t *testing.T) {
	path := writeConfig(t, "listen: \":9000\"\n")
	loader := Loader{Path: path}

	initial, err := loader.Load()
	require.NoError(t, err)
	h := NewHolder(initial, loader)

	require.NoError(t, os.WriteFile(path, []byte("listen: [broken"), 0o644))
	assert.Error(t, h.Reload(context.Background()))
	assert.Equal(t, ":9000", h.Current().Listen)
}

func TestHolderNotifiesListeners(t *testing.T) {
	path := writeConfig(t, "listen: \":9000\"\n")
	loader := Loader{Path: path}

	initial, err := loader.Load()
	require.NoError(t, err)
	h := NewHolder(initial, loader)

	ch := make(chan Config, 1)
	h.RegisterListener(ch)

	require.NoError(t, os.WriteFile(path, []byte("listen: \":9002\"\n"), 0o644))
	require.NoError(t, h.Reload(context.Background()))

	select {
	case cfg := <-ch:
		assert.Equal(t, ":9002", cfg.Listen)
	case <-time.After(time.Second):
		t.Fatal("listener not notified")
	}
}

func TestHolderWatcherEnvOnlyNoop(t *testing.T) {
	h := NewHolder(Default(), Loader{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	assert.NoError(t, h.StartWatcher(ctx))
}
