package ctxresolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axes-build/axes/internal/index"
)

func buildTree(t *testing.T) (*index.GlobalIndex, uuid.UUID, uuid.UUID, uuid.UUID) {
	t.Helper()
	g := index.New()
	root := index.ProjectEntry{UUID: uuid.New(), Name: "root"}
	require.NoError(t, g.AddEntry(root))
	api := index.ProjectEntry{UUID: uuid.New(), Name: "api", ParentUUID: root.UUID}
	require.NoError(t, g.AddEntry(api))
	web := index.ProjectEntry{UUID: uuid.New(), Name: "web", ParentUUID: root.UUID}
	require.NoError(t, g.AddEntry(web))
	return g, root.UUID, api.UUID, web.UUID
}

func TestResolve_EmptyOrDot_PrefersSessionHint(t *testing.T) {
	g, _, api, _ := buildTree(t)
	r := New(g)

	id, err := r.Resolve("", api, "/nonexistent/cwd")
	require.NoError(t, err)
	assert.Equal(t, api, id)

	id, err = r.Resolve(".", api, "/nonexistent/cwd")
	require.NoError(t, err)
	assert.Equal(t, api, id)
}

func TestResolve_EmptyWithoutHint_WalksUpFromCWD(t *testing.T) {
	g, root, _, _ := buildTree(t)
	dir := t.TempDir()
	require.NoError(t, index.WriteSidecar(dir, &index.ProjectRef{SelfUUID: root, Name: "root"}))

	nested := filepath.Join(dir, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	r := New(g)
	id, err := r.Resolve("", uuid.Nil, nested)
	require.NoError(t, err)
	assert.Equal(t, root, id)
}

func TestResolve_Underscore_RequiresExactSidecar(t *testing.T) {
	g, root, _, _ := buildTree(t)
	dir := t.TempDir()
	require.NoError(t, index.WriteSidecar(dir, &index.ProjectRef{SelfUUID: root, Name: "root"}))

	r := New(g)
	id, err := r.Resolve("_", uuid.Nil, dir)
	require.NoError(t, err)
	assert.Equal(t, root, id)

	_, err = r.Resolve("_", uuid.Nil, filepath.Join(dir, "nested"))
	require.Error(t, err)
	var noCurrent *NoCurrentProjectError
	assert.ErrorAs(t, err, &noCurrent)
}

func TestResolve_TrailingBangAlias(t *testing.T) {
	g, _, api, _ := buildTree(t)
	require.NoError(t, g.SetAlias("backend", api))

	r := New(g)
	id, err := r.Resolve("backend!", uuid.Nil, "/")
	require.NoError(t, err)
	assert.Equal(t, api, id)

	_, err = r.Resolve("ghost!", uuid.Nil, "/")
	require.Error(t, err)
	var unknownAlias *UnknownAliasError
	assert.ErrorAs(t, err, &unknownAlias)
}

func TestResolve_SegmentPath_FromRoot(t *testing.T) {
	g, _, api, _ := buildTree(t)
	r := New(g)

	id, err := r.Resolve("api", uuid.Nil, "/")
	require.NoError(t, err)
	assert.Equal(t, api, id)
}

func TestResolve_SegmentPath_DotDotFromChildGoesToParent(t *testing.T) {
	g, root, api, _ := buildTree(t)
	require.NoError(t, g.SetAlias("api-alias", api))
	r := New(g)

	id, err := r.Resolve("api-alias!/..", uuid.Nil, "/")
	require.NoError(t, err)
	assert.Equal(t, root, id)
}

func TestResolve_SegmentPath_UnknownChildErrors(t *testing.T) {
	g, _, _, _ := buildTree(t)
	r := New(g)

	_, err := r.Resolve("nonexistent", uuid.Nil, "/")
	require.Error(t, err)
	var notAChild *NotAChildError
	assert.ErrorAs(t, err, &notAChild)
}

func TestResolve_DoubleStar_WholeSystemLastUsed(t *testing.T) {
	g, _, api, _ := buildTree(t)
	r := New(g)

	_, err := r.Resolve("**", uuid.Nil, "/")
	require.Error(t, err)
	var ambiguousRoot *AmbiguousRootError
	assert.ErrorAs(t, err, &ambiguousRoot)

	g.MarkUsed(api)
	id, err := r.Resolve("**", uuid.Nil, "/")
	require.NoError(t, err)
	assert.Equal(t, api, id)
}

func TestResolve_SingleStar_LastUsedChildOfAnchor(t *testing.T) {
	g, root, api, _ := buildTree(t)
	g.MarkUsed(api)

	r := New(g)
	id, err := r.Resolve("*", uuid.Nil, "/")
	require.NoError(t, err)
	assert.Equal(t, api, id)

	_ = root
}

func TestResolve_MarksUsedOnSuccess(t *testing.T) {
	g, _, api, _ := buildTree(t)
	r := New(g)

	_, err := r.Resolve("api", uuid.Nil, "/")
	require.NoError(t, err)
	assert.Equal(t, api, g.LastUsed)
}
