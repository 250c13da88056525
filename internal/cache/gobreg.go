package cache

import (
	"encoding/gob"

	"github.com/axes-build/axes/internal/task"
)

// gob needs every concrete type behind the TemplateComponent and
// ParameterDef sum-type interfaces registered once at package init, or
// encoding/decoding a Task graph containing them will fail at runtime.
func init() {
	gob.Register(task.Literal(""))
	gob.Register(task.ProjectMeta{})
	gob.Register(task.Var{})
	gob.Register(task.ScriptRef{})
	gob.Register(task.Run{})
	gob.Register(task.Param{})
	gob.Register(task.Positional{})
	gob.Register(task.Named{})
	gob.Register(task.Generic{})
}
