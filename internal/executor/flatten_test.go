package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axes-build/axes/internal/task"
)

func TestFlattenScript_NoScriptRefPassesThrough(t *testing.T) {
	st := &task.SpecializedTask{
		Name: "build",
		Commands: []task.SpecializedCommand{
			{Template: task.CommandTemplate{task.Literal("go build")}},
		},
	}
	out, err := FlattenScript(st, newTestFacade(t, `
[scripts]
build = "go build"
`), task.PlatformDefault)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, task.CommandTemplate{task.Literal("go build")}, out[0].Template)
}

func TestFlattenScript_SpliceInlineKeepsCallerFlags(t *testing.T) {
	facade := newTestFacade(t, `
[scripts]
lint = ["go vet ./...", "staticcheck ./..."]
`)

	st := &task.SpecializedTask{
		Name: "ci",
		Commands: []task.SpecializedCommand{
			{
				Silent:   true,
				Parallel: true,
				Template: task.CommandTemplate{task.ScriptRef{Name: "lint"}},
			},
		},
	}

	out, err := FlattenScript(st, facade, task.PlatformDefault)
	require.NoError(t, err)
	require.Len(t, out, 2)
	for _, cmd := range out {
		assert.True(t, cmd.Silent, "spliced command should inherit caller's Silent flag")
		assert.True(t, cmd.Parallel, "spliced command should inherit caller's Parallel flag")
	}
	assert.Equal(t, task.CommandTemplate{task.Literal("go vet ./...")}, out[0].Template)
	assert.Equal(t, task.CommandTemplate{task.Literal("staticcheck ./...")}, out[1].Template)
}

func TestFlattenScript_EmbeddedScriptRefIsNotSpliceable(t *testing.T) {
	facade := newTestFacade(t, `
[scripts]
lint = "go vet ./..."
ci = "echo before && <scripts::lint>"
`)

	st := &task.SpecializedTask{
		Name: "ci",
		Commands: []task.SpecializedCommand{
			{Template: task.CommandTemplate{task.Literal("echo before && "), task.ScriptRef{Name: "lint"}}},
		},
	}

	out, err := FlattenScript(st, facade, task.PlatformDefault)
	require.NoError(t, err)
	// Not the sole content of its line, so it passes through unspliced;
	// expandTemplate (called later) is what raises EmbeddedScriptRefError.
	require.Len(t, out, 1)
	assert.Len(t, out[0].Template, 2)
}

func TestFlattenScript_UnknownScriptRefErrors(t *testing.T) {
	facade := newTestFacade(t, `
[scripts]
ci = "true"
`)
	st := &task.SpecializedTask{
		Name:     "ci",
		Commands: []task.SpecializedCommand{{Template: task.CommandTemplate{task.ScriptRef{Name: "ghost"}}}},
	}

	_, err := FlattenScript(st, facade, task.PlatformDefault)
	require.Error(t, err)
	var unknownRef *UnknownScriptRefError
	assert.ErrorAs(t, err, &unknownRef)
}

func TestFlattenScript_CycleDetected(t *testing.T) {
	facade := newTestFacade(t, `
[scripts]
a = "<scripts::b>"
b = "<scripts::a>"
`)
	st := &task.SpecializedTask{
		Name:     "a",
		Commands: []task.SpecializedCommand{{Template: task.CommandTemplate{task.ScriptRef{Name: "b"}}}},
	}

	_, err := FlattenScript(st, facade, task.PlatformDefault)
	require.Error(t, err)
	var cycle *ScriptRefCycleError
	assert.ErrorAs(t, err, &cycle)
}
