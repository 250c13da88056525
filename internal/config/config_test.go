package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenNoFileOrEnv(t *testing.T) {
	t.Setenv("AXES_CONFIG", "")
	t.Setenv("AXES_CACHE_DIR", "")
	t.Setenv("AXES_SHELL", "")
	t.Setenv("AXES_LOG_LEVEL", "")
	t.Setenv("SHELL", "/bin/zsh")
	t.Setenv("ComSpec", "")

	cfg, err := loadWithNoFile(t)
	require.NoError(t, err)
	assert.Equal(t, "/bin/zsh", cfg.Shell.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "", cfg.Cache.Dir)
}

func loadWithNoFile(t *testing.T) (*Config, error) {
	t.Helper()
	dir := t.TempDir()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
	return Load("")
}

func TestLoad_FileValuesApply(t *testing.T) {
	t.Setenv("AXES_CACHE_DIR", "")
	t.Setenv("AXES_SHELL", "")
	t.Setenv("AXES_LOG_LEVEL", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "axes-core.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[cache]
dir = "/var/cache/axes"

[shell]
path = "/bin/fish"

[log]
level = "debug"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/cache/axes", cfg.Cache.Dir)
	assert.Equal(t, "/bin/fish", cfg.Shell.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "axes-core.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[shell]
path = "/bin/fish"
`), 0o644))

	t.Setenv("AXES_SHELL", "/bin/bash")
	t.Setenv("AXES_CACHE_DIR", "")
	t.Setenv("AXES_LOG_LEVEL", "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/bin/bash", cfg.Shell.Path, "env var must win over file value")
}

func TestLoad_ExplicitMissingPathErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestValidate_RejectsUnknownLogLevel(t *testing.T) {
	cfg := &Config{Log: LogConfig{Level: "verbose"}}
	err := cfg.Validate()
	require.Error(t, err)
}

func TestValidate_AcceptsEachKnownLevel(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "warn", "error"} {
		cfg := &Config{Log: LogConfig{Level: lvl}}
		assert.NoError(t, cfg.Validate())
	}
}

func TestEnvOverride_OnlyAppliesWhenNonEmpty(t *testing.T) {
	dst := "original"
	t.Setenv("AXES_TEST_OVERRIDE_VAR", "")
	envOverride("AXES_TEST_OVERRIDE_VAR", &dst)
	assert.Equal(t, "original", dst)

	t.Setenv("AXES_TEST_OVERRIDE_VAR", "changed")
	envOverride("AXES_TEST_OVERRIDE_VAR", &dst)
	assert.Equal(t, "changed", dst)
}
