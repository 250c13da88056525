package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axes-build/axes/internal/task"
)

func TestResolve_PositionalBoundByEncounterOrder(t *testing.T) {
	defs := []task.ParameterDef{task.Positional{Index: 0}, task.Positional{Index: 1}}
	values, out, err := Resolve(defs, []string{"first", "second"})
	require.NoError(t, err)
	assert.False(t, out.Blocked())
	assert.Equal(t, "first", values["positional:0"].Str)
	assert.Equal(t, "second", values["positional:1"].Str)
}

func TestResolve_MissingRequiredPositionalIsBlocking(t *testing.T) {
	defs := []task.ParameterDef{task.Positional{Index: 0, Required: true}}
	_, out, err := Resolve(defs, nil)
	require.Error(t, err)
	assert.True(t, out.Blocked())
}

func TestResolve_PositionalDefaultAppliesWhenAbsent(t *testing.T) {
	defs := []task.ParameterDef{task.Positional{Index: 0, Default: "staging", HasDefault: true}}
	values, out, err := Resolve(defs, nil)
	require.NoError(t, err)
	assert.False(t, out.Blocked())
	assert.Equal(t, "staging", values["positional:0"].Str)
}

func TestResolve_NamedByLongFlagConsumesFollowingValue(t *testing.T) {
	defs := []task.ParameterDef{task.Named{LongName: "env"}}
	values, _, err := Resolve(defs, []string{"--env", "prod"})
	require.NoError(t, err)
	assert.Equal(t, "prod", values["named:env"].Str)
}

func TestResolve_NamedByShortAlias(t *testing.T) {
	defs := []task.ParameterDef{task.Named{LongName: "env", AliasShort: "-e"}}
	values, _, err := Resolve(defs, []string{"-e", "prod"})
	require.NoError(t, err)
	assert.Equal(t, "prod", values["named:env"].Str)
}

func TestResolve_NamedLongAndAliasBothSuppliedIsConflict(t *testing.T) {
	defs := []task.ParameterDef{task.Named{LongName: "env", AliasShort: "-e"}}
	_, out, err := Resolve(defs, []string{"--env", "prod", "-e", "staging"})
	require.Error(t, err)
	assert.True(t, out.Blocked())
}

func TestResolve_NamedMissingRequiredIsBlocking(t *testing.T) {
	defs := []task.ParameterDef{task.Named{LongName: "env", Required: true}}
	_, out, err := Resolve(defs, nil)
	require.Error(t, err)
	assert.True(t, out.Blocked())
}

func TestResolve_NamedDefaultAppliesWhenAbsent(t *testing.T) {
	defs := []task.ParameterDef{task.Named{LongName: "env", Default: "dev", HasDefault: true}}
	values, _, err := Resolve(defs, nil)
	require.NoError(t, err)
	assert.Equal(t, "dev", values["named:env"].Str)
}

func TestResolve_NamedFlagWithNoFollowingValueIsPresentButEmpty(t *testing.T) {
	// A boolean-ish flag: the next token starts with '-' so it isn't
	// consumed as this flag's value.
	defs := []task.ParameterDef{task.Named{LongName: "verbose"}, task.Named{LongName: "env"}}
	values, _, err := Resolve(defs, []string{"--verbose", "--env", "prod"})
	require.NoError(t, err)
	assert.True(t, values["named:verbose"].Present)
	assert.Equal(t, "", values["named:verbose"].Str)
	assert.Equal(t, "prod", values["named:env"].Str)
}

func TestResolve_GenericCollectsEverythingUnconsumed(t *testing.T) {
	defs := []task.ParameterDef{task.Positional{Index: 0}, task.Generic{}}
	values, out, err := Resolve(defs, []string{"first", "extra1", "extra2"})
	require.NoError(t, err)
	assert.False(t, out.Blocked())
	assert.Equal(t, "first", values["positional:0"].Str)
	assert.Equal(t, []string{"extra1", "extra2"}, values["generic"].List)
}

func TestResolve_UnconsumedArgsWithoutGenericIsBlocking(t *testing.T) {
	defs := []task.ParameterDef{task.Positional{Index: 0}}
	_, out, err := Resolve(defs, []string{"first", "stray"})
	require.Error(t, err)
	assert.True(t, out.Blocked())
	var unconsumed *UnconsumedArgsError
	assert.ErrorAs(t, err, &unconsumed)
}

func TestResolve_OutcomeReportsEveryProblemNotJustFirst(t *testing.T) {
	defs := []task.ParameterDef{
		task.Positional{Index: 0, Required: true},
		task.Named{LongName: "env", Required: true},
	}
	_, out, err := Resolve(defs, nil)
	require.Error(t, err)
	assert.GreaterOrEqual(t, len(out.Failures()), 2)
}
