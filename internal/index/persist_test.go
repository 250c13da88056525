package index

import (
	"bytes"
	"encoding/gob"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersist_SaveThenLoad_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.bin")

	g := New()
	root := ProjectEntry{UUID: uuid.New(), Name: "root"}
	require.NoError(t, g.AddEntry(root))
	child := ProjectEntry{UUID: uuid.New(), Name: "api", ParentUUID: root.UUID}
	require.NoError(t, g.AddEntry(child))
	require.NoError(t, g.SetAlias("home", root.UUID))
	g.MarkUsed(child.UUID)

	require.NoError(t, Save(path, g))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, loaded.Entries, 2)
	assert.Equal(t, root.UUID, loaded.Aliases["home"])
	assert.Equal(t, child.UUID, loaded.LastUsed)
	assert.Equal(t, child.UUID, loaded.LastUsedChild[root.UUID])
}

func TestPersist_Load_MissingFileIsNotExist(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.bin"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestPersist_Load_RejectsNewerFormatVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.bin")

	g := New()
	require.NoError(t, Save(path, g))

	// Bump the on-disk format version past what this binary understands.
	p := persistedIndex{FormatVersion: currentFormatVersion + 1, Entries: map[uuid.UUID]ProjectEntry{}, Aliases: map[string]uuid.UUID{}, LastUsedChild: map[uuid.UUID]uuid.UUID{}}
	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(p))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestPersist_Save_CreatesParentDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deep", "index.bin")

	g := New()
	require.NoError(t, Save(path, g))

	_, err := os.Stat(path)
	require.NoError(t, err)
}
