package util

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileInDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")

	path, err := WriteFileInDir(dir, "card.png", []byte("png"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "card.png"), path)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "png", string(got))
}

func TestGetBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte("0123456789"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	t.Run("within limit", func(t *testing.T) {
		body, ct, err := GetBytes(context.Background(), srv.URL+"/ok", time.Second, 10)
		require.NoError(t, err)
		assert.Equal(t, "0123456789", string(body))
		assert.Equal(t, "image/png", ct)
	})

	t.Run("over limit", func(t *testing.T) {
		_, _, err := GetBytes(context.Background(), srv.URL+"/ok", time.Second, 9)
		assert.True(t, errors.Is(err, ErrBodyTooLarge))
	})

	t.Run("non-200", func(t *testing.T) {
		_, _, err := GetBytes(context.Background(), srv.URL+"/missing", time.Second, 10)
		assert.Error(t, err)
	})
}
