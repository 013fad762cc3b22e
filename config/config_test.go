package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.AppPort)
	assert.Equal(t, 24, cfg.TokenTTLHours)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, "local", cfg.AvatarBackend)
	assert.Equal(t, int64(16*1024*1024), cfg.MaxUploadBytes())
}

func TestLoadJSONThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{
		"app": {"AppPort": "9000", "JWTSecret": "from-file", "AllowedOrigins": ["https://a.example"]},
		"database": {"Driver": "sqlite", "SQLitePath": "/tmp/f.db"},
		"log": {"Level": "debug", "Compress": true},
		"upload": {"AvatarBackend": "redis", "MaxUploadMB": 4}
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	t.Setenv("JWT_SECRET", "")
	t.Setenv("APP_PORT", "9100")
	t.Setenv("ALLOWED_ORIGINS", "https://b.example, https://c.example")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.AppPort)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, []string{"https://b.example", "https://c.example"}, cfg.AllowedOrigins)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "/tmp/f.db", cfg.SQLitePath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogCompress)
	assert.Equal(t, "redis", cfg.AvatarBackend)
	assert.Equal(t, int64(4*1024*1024), cfg.MaxUploadBytes())
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	t.Setenv("JWT_SECRET", "x")
	_, err := Load(path)
	assert.Error(t, err)
}
