package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axes-build/axes/internal/index"
)

func TestParseLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLogLevel(in), "input %q", in)
	}
}

func TestDefaultIndexPath_EndsInAxesIndexBin(t *testing.T) {
	path, err := defaultIndexPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("axes", "index.bin"), path[len(path)-len(filepath.Join("axes", "index.bin")):])
}

func TestDefaultCacheDir_EndsInAxesLayers(t *testing.T) {
	dir := defaultCacheDir()
	assert.Equal(t, filepath.Join("axes", "layers"), dir[len(dir)-len(filepath.Join("axes", "layers")):])
}

func TestLoadOrBootstrapIndex_MissingFileYieldsFreshIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist", "index.bin")
	idx, err := loadOrBootstrapIndex(path)
	require.NoError(t, err)
	assert.Empty(t, idx.Entries)
}

func TestLoadOrBootstrapIndex_LoadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.bin")
	saved := index.New()
	require.NoError(t, saved.AddEntry(index.ProjectEntry{UUID: uuid.New(), Name: "root", Path: "/repo"}))
	require.NoError(t, index.Save(path, saved))

	idx, err := loadOrBootstrapIndex(path)
	require.NoError(t, err)
	assert.Len(t, idx.Entries, 1)
}

func TestLoadOrBootstrapIndex_CorruptFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.bin")
	require.NoError(t, os.WriteFile(path, []byte("not a gob stream"), 0o644))

	_, err := loadOrBootstrapIndex(path)
	require.Error(t, err)
}
