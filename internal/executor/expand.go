package executor

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/axes-build/axes/internal/params"
	"github.com/axes-build/axes/internal/resolver"
	"github.com/axes-build/axes/internal/specializer"
	"github.com/axes-build/axes/internal/task"
)

// UnknownVarError reports a Var token naming a variable the facade can't
// resolve anywhere in the layer chain.
type UnknownVarError struct {
	Name string
}

func (e *UnknownVarError) Error() string {
	return fmt.Sprintf("vars::%s: no such variable", e.Name)
}

// project carries the metadata tokens (<name>, <path>, <uuid>, <version>)
// substitute against.
type project struct {
	UUID    uuid.UUID
	Name    string
	Path    string
	Version string
}

// expandCtx threads everything template expansion needs: the facade (for
// Var/ScriptRef lookups — ScriptRef is expected to have already been
// flattened away by FlattenScript before expansion runs), the host
// platform (for recursively specializing a referenced Var's template),
// the resolved parameter map, and the target project's own metadata.
type expandCtx struct {
	facade  *resolver.Facade
	host    task.Platform
	params  params.Map
	project project
	shell   []string // argv prefix used to run Run() captures.
}

// expandTemplate substitutes every component of tmpl into one string.
// echo-only expansion (spec.md §4.8 step 1: "static tokens only") is
// handled by the caller passing allowDynamic=false, which leaves Run and
// Param components unexpanded instead of spawning a subprocess or
// resolving against the CLI args.
func expandTemplate(ctx *expandCtx, tmpl task.CommandTemplate, allowDynamic bool) (string, error) {
	var sb strings.Builder
	for _, c := range tmpl {
		switch v := c.(type) {
		case task.Literal:
			sb.WriteString(string(v))

		case task.ProjectMeta:
			sb.WriteString(ctx.metaValue(v.Kind))

		case task.Var:
			pe, ok := ctx.facade.GetVar(v.Name)
			if !ok {
				return "", &UnknownVarError{Name: v.Name}
			}
			sub := specializer.SpecializeVar(pe, ctx.host)
			s, err := expandTemplate(ctx, sub, allowDynamic)
			if err != nil {
				return "", fmt.Errorf("vars::%s: %w", v.Name, err)
			}
			sb.WriteString(s)

		case task.ScriptRef:
			return "", &EmbeddedScriptRefError{Name: v.Name}

		case task.Run:
			if !allowDynamic {
				sb.WriteString("<run(...)>")
				continue
			}
			inner, err := expandTemplate(ctx, v.Inner, allowDynamic)
			if err != nil {
				return "", err
			}
			out, err := runCapture(ctx, inner)
			if err != nil {
				return "", err
			}
			sb.WriteString(out)

		case task.Param:
			// spec.md §4.8 step 1: echo-only expands metadata and vars only
			// — a parameter is not a static token, so it is left unexpanded
			// rather than resolved against the (possibly absent) CLI args.
			if !allowDynamic {
				sb.WriteString(fmt.Sprintf("<params::%s>", v.Def.Key()))
				continue
			}
			val := ctx.params[v.Def.Key()]
			sb.WriteString(params.Expand(v.Def, val))

		default:
			return "", fmt.Errorf("executor: unrecognized template component %T", c)
		}
	}
	return sb.String(), nil
}

func (ctx *expandCtx) metaValue(kind task.MetaKind) string {
	switch kind {
	case task.MetaName:
		return ctx.project.Name
	case task.MetaPath:
		return ctx.project.Path
	case task.MetaUUID:
		return ctx.project.UUID.String()
	case task.MetaVersion:
		return ctx.project.Version
	default:
		return ""
	}
}
