package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{"PORT", "DOG_API_URL", "BUCKET_NAME", "SESSION_TTL", "HTTP_TIMEOUT", "IMAGE_WORKERS", "THUMBNAIL_SIZE", "CONFIG_FILE"} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, ":8080", cfg.ServerAddress())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "gallery.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9000"
api_url: https://example.test/api/
session_ttl: 5m
image_workers: 3
bucket: from-file
`), 0o644))
	t.Setenv("IMAGE_WORKERS", "12")
	t.Setenv("HTTP_TIMEOUT", "3s")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "https://example.test/api", cfg.APIBaseURL)
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 12, cfg.ImageWorkers)
	assert.Equal(t, "from-file", cfg.BucketName)
}

func TestLoad_ConfigFileFromEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "gallery.yaml")
	require.NoError(t, os.WriteFile(path, []byte("thumbnail_size: 64\n"), 0o644))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.ThumbnailSize)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("BadPort", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PORT", "eighty")
		_, err := Load("")
		assert.ErrorIs(t, err, ErrInvalidPort)
	})

	t.Run("BadWorkers", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("IMAGE_WORKERS", "0")
		_, err := Load("")
		assert.ErrorIs(t, err, ErrInvalidWorkers)
	})

	t.Run("BadDuration", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SESSION_TTL", "soon")
		_, err := Load("")
		assert.ErrorContains(t, err, "SESSION_TTL")
	})

	t.Run("MissingFile", func(t *testing.T) {
		clearEnv(t)
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("BadYAML", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "gallery.yaml")
		require.NoError(t, os.WriteFile(path, []byte("port: [1, 2"), 0o644))
		_, err := Load(path)
		assert.Error(t, err)
	})
}
