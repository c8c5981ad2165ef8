package fsutil

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "stream.log")
	require.NoError(t, os.WriteFile(file, []byte("log contents"), 0o644))

	t.Run("success", func(t *testing.T) {
		var received []byte
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			received, _ = io.ReadAll(r.Body)
			_, _ = w.Write([]byte("ok"))
		}))
		defer srv.Close()

		require.NoError(t, UploadFile(context.Background(), file, srv.URL))
		assert.Equal(t, "log contents", string(received))
	})

	t.Run("empty response body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		err := UploadFile(context.Background(), file, srv.URL)
		assert.ErrorIs(t, err, ErrEmptyBody)
	})

	t.Run("http error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusForbidden)
		}))
		defer srv.Close()

		err := UploadFile(context.Background(), file, srv.URL)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrEmptyBody)
	})

	t.Run("connection refused", func(t *testing.T) {
		err := UploadFile(context.Background(), file, "http://127.0.0.1:1/upload")
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		err := UploadFile(context.Background(), filepath.Join(t.TempDir(), "gone"), "http://127.0.0.1:1/upload")
		assert.Error(t, err)
	})
}
