package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpecializedTask_ParameterDefs_DedupesByKey(t *testing.T) {
	st := &SpecializedTask{
		Name: "build",
		Commands: []SpecializedCommand{
			{Template: CommandTemplate{
				Param{Def: Positional{Index: 0, Required: true}},
				Literal(" "),
				Param{Def: Named{LongName: "env"}},
			}},
			{Template: CommandTemplate{
				// Same positional again (e.g. used twice in one script); must not duplicate.
				Param{Def: Positional{Index: 0, Required: true}},
			}},
		},
	}

	defs := st.ParameterDefs()
	assert.Len(t, defs, 2)

	keys := make(map[string]bool)
	for _, d := range defs {
		keys[d.Key()] = true
	}
	assert.True(t, keys["positional:0"])
	assert.True(t, keys["named:env"])
}

func TestSpecializedTask_ParameterDefs_WalksIntoRun(t *testing.T) {
	st := &SpecializedTask{
		Commands: []SpecializedCommand{
			{Template: CommandTemplate{
				Run{Inner: CommandTemplate{
					Param{Def: Generic{}},
				}},
			}},
		},
	}

	defs := st.ParameterDefs()
	assert.Len(t, defs, 1)
	assert.Equal(t, "generic", defs[0].Key())
}
