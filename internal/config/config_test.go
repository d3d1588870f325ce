package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "local.yaml")

	err := os.WriteFile(path, []byte(`
env: dev
storage_path: /var/lib/nerdhub/nerdhub.db
assets_dir: /srv/nerdhub
seed_test_user: "false"
http:
  host: 0.0.0.0
  port: "9090"
  debug: true
  session_secret: s3cret
`), 0o644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "/var/lib/nerdhub/nerdhub.db", cfg.StoragePath)
	assert.Equal(t, "/srv/nerdhub", cfg.AssetsDir)
	assert.False(t, cfg.SeedsTestUser())
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, "9090", cfg.HTTP.Port)
	assert.True(t, cfg.HTTP.Debug)
	assert.Equal(t, "s3cret", cfg.HTTP.SessionSecret)
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("env: local\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.HTTP.Host)
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.True(t, cfg.SeedsTestUser())
	assert.True(t, filepath.IsAbs(cfg.StoragePath))
	assert.Equal(t, "nerdhub.db", filepath.Base(cfg.StoragePath))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)

	assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "nope.yaml")) })
}

func TestResolvePaths(t *testing.T) {
	cfg := Config{StoragePath: "data/nerdhub.db", AssetsDir: "/abs/assets"}
	cfg.resolvePaths("/opt/nerdhub")

	assert.Equal(t, filepath.Join("/opt/nerdhub", "data/nerdhub.db"), cfg.StoragePath)
	assert.Equal(t, "/abs/assets", cfg.AssetsDir)
}

func TestReadEnv(t *testing.T) {
	t.Setenv("STORAGE_PATH", "/tmp/x.db")
	t.Setenv("HTTP_PORT", "7070")

	cfg, err := ReadEnv()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/x.db", cfg.StoragePath)
	assert.Equal(t, "7070", cfg.HTTP.Port)
}

func TestSeedsTestUser(t *testing.T) {
	assert.True(t, (&Config{Env: "local"}).SeedsTestUser())
	assert.False(t, (&Config{Env: "prod"}).SeedsTestUser())
	assert.True(t, (&Config{Env: "prod", SeedTestUser: "true"}).SeedsTestUser())
	assert.False(t, (&Config{Env: "local", SeedTestUser: "0"}).SeedsTestUser())
}
