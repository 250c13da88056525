package index

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSidecar_WriteThenRead_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	ref := &ProjectRef{SelfUUID: uuid.New(), Name: "api", ParentUUID: uuid.New()}

	require.NoError(t, WriteSidecar(dir, ref))

	got, err := ReadSidecar(dir)
	require.NoError(t, err)
	assert.Equal(t, ref.SelfUUID, got.SelfUUID)
	assert.Equal(t, ref.Name, got.Name)
	assert.Equal(t, ref.ParentUUID, got.ParentUUID)
}

func TestSidecar_ReadMissingErrors(t *testing.T) {
	_, err := ReadSidecar(t.TempDir())
	require.Error(t, err)
}

func TestSidecar_ConfigPath(t *testing.T) {
	path := ConfigPath("/repo/api")
	assert.Equal(t, "/repo/api/.axes/axes.toml", path)
}

func TestSidecar_SidecarPath(t *testing.T) {
	path := SidecarPath("/repo/api")
	assert.Equal(t, "/repo/api/.axes/project_ref", path)
}
