package resolver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axes-build/axes/internal/cache"
	"github.com/axes-build/axes/internal/index"
)

func writeAxesToml(t *testing.T, projectDir, contents string) {
	t.Helper()
	path := index.ConfigPath(projectDir)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func TestLoader_Load_BuildsRootToLeafChain(t *testing.T) {
	tmp := t.TempDir()
	rootDir := filepath.Join(tmp, "root")
	apiDir := filepath.Join(tmp, "root", "api")

	writeAxesToml(t, rootDir, `
[env]
SCOPE = "root"

[scripts]
build = "echo root-build"
`)
	writeAxesToml(t, apiDir, `
[env]
SCOPE = "api"

[scripts]
build = "echo api-build"
`)

	idx := index.New()
	rootID := uuid.New()
	apiID := uuid.New()
	require.NoError(t, idx.AddEntry(index.ProjectEntry{UUID: rootID, Name: "root", Path: rootDir}))
	require.NoError(t, idx.AddEntry(index.ProjectEntry{UUID: apiID, Name: "api", ParentUUID: rootID, Path: apiDir}))

	loader := NewLoader(idx, nil)
	facade, err := loader.Load(context.Background(), apiID)
	require.NoError(t, err)

	id, name := facade.Leaf()
	assert.Equal(t, apiID, id)
	assert.Equal(t, "api", name)

	env := facade.GetEnv()
	assert.Equal(t, "api", env["SCOPE"])

	_, ok := facade.GetScript("build")
	assert.True(t, ok)
}

func TestLoader_Load_UnknownLeafErrors(t *testing.T) {
	idx := index.New()
	loader := NewLoader(idx, nil)

	_, err := loader.Load(context.Background(), uuid.New())
	require.Error(t, err)
	var nf *index.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestLoader_Load_UsesCacheOnSecondCall(t *testing.T) {
	tmp := t.TempDir()
	rootDir := filepath.Join(tmp, "root")
	writeAxesToml(t, rootDir, `
[scripts]
build = "echo hi"
`)

	idx := index.New()
	rootID := uuid.New()
	require.NoError(t, idx.AddEntry(index.ProjectEntry{UUID: rootID, Name: "root", Path: rootDir}))

	store, err := cache.New(filepath.Join(tmp, "layer-cache"))
	require.NoError(t, err)

	loader := NewLoader(idx, store)
	_, err = loader.Load(context.Background(), rootID)
	require.NoError(t, err)

	// A fresh loader over the same index/cache should hit the cache file
	// the first Load wrote, not fail for lack of a live compiler state.
	loader2 := NewLoader(idx, store)
	facade, err := loader2.Load(context.Background(), rootID)
	require.NoError(t, err)
	_, ok := facade.GetScript("build")
	assert.True(t, ok)
}

func TestLoader_Load_MissingConfigFileErrors(t *testing.T) {
	tmp := t.TempDir()
	idx := index.New()
	rootID := uuid.New()
	require.NoError(t, idx.AddEntry(index.ProjectEntry{UUID: rootID, Name: "root", Path: filepath.Join(tmp, "ghost")}))

	loader := NewLoader(idx, nil)
	_, err := loader.Load(context.Background(), rootID)
	require.Error(t, err)
}
