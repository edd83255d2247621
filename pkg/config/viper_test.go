package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	v, err := Load(t.TempDir(), "absent")
	require.NoError(t, err)

	v.SetDefault("server.port", 8096)
	assert.Equal(t, 8096, v.GetInt("server.port"))
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9001\nlog:\n  level: debug\n"), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("TEST_LOG_LEVEL", "warn")

	v, err := Load(dir, "config")
	require.NoError(t, err)
	require.NoError(t, BindEnvs(v, map[string]string{"log.level": "TEST_LOG_LEVEL"}))

	assert.Equal(t, 9001, v.GetInt("server.port"))
	assert.Equal(t, "warn", v.GetString("log.level"))
}

func TestLoadInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	_, err := Load(dir, "config")
	assert.Error(t, err)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("WATCHMATE_TEST_VALUE", "set")
	assert.Equal(t, "set", GetEnv("WATCHMATE_TEST_VALUE", "default"))
	assert.Equal(t, "default", GetEnv("WATCHMATE_TEST_UNSET", "default"))
}
