// Package executor implements the task executor (spec.md §4.8): it
// consumes a specialized task, a resolved parameter map and a merged
// env, flattens ScriptRef compositions inline, expands every command
// template, and runs the resulting command stream with prefix-modifier
// semantics (silent / ignore-error / parallel-batch / echo-only /
// shell-passthrough).
package executor

import (
	"fmt"

	"github.com/axes-build/axes/internal/resolver"
	"github.com/axes-build/axes/internal/specializer"
	"github.com/axes-build/axes/internal/task"
)

// ScriptRefCycleError reports a ScriptRef composition that refers back to
// a script already being flattened — a composition cycle.
type ScriptRefCycleError struct {
	Name string
}

func (e *ScriptRefCycleError) Error() string {
	return fmt.Sprintf("scripts::%s: composition cycle", e.Name)
}

// UnknownScriptRefError reports a ScriptRef naming a script the facade
// can't resolve.
type UnknownScriptRefError struct {
	Name string
}

func (e *UnknownScriptRefError) Error() string {
	return fmt.Sprintf("scripts::%s: no such script", e.Name)
}

// EmbeddedScriptRefError reports a ScriptRef token found mixed with other
// template components on the same line. Composition is only supported
// when a ScriptRef is the sole content of its line (see soleScriptRef).
type EmbeddedScriptRefError struct {
	Name string
}

func (e *EmbeddedScriptRefError) Error() string {
	return fmt.Sprintf("scripts::%s: must be the only token on its line to compose", e.Name)
}

// FlattenScript resolves every ScriptRef composition in t's command list,
// splicing the callee's own flattened commands in place of the
// referencing line. The caller's line controls execution: a spliced
// command keeps the flags of the line that referenced it, not whatever
// flags the callee's own script definition carried (spec.md §4.8).
func FlattenScript(t *task.SpecializedTask, facade *resolver.Facade, host task.Platform) ([]task.SpecializedCommand, error) {
	return flattenCommands(t.Commands, facade, host, map[string]bool{t.Name: true})
}

func flattenCommands(cmds []task.SpecializedCommand, facade *resolver.Facade, host task.Platform, visited map[string]bool) ([]task.SpecializedCommand, error) {
	var out []task.SpecializedCommand
	for _, cmd := range cmds {
		if len(cmd.Template) == 0 {
			out = append(out, cmd)
			continue
		}
		ref, ok := soleScriptRef(cmd.Template)
		if !ok {
			out = append(out, cmd)
			continue
		}
		if visited[ref.Name] {
			return nil, &ScriptRefCycleError{Name: ref.Name}
		}
		callee, ok := facade.GetScript(ref.Name)
		if !ok {
			return nil, &UnknownScriptRefError{Name: ref.Name}
		}
		specializedCallee := specializer.Specialize(callee, host)

		nested := make(map[string]bool, len(visited)+1)
		for k := range visited {
			nested[k] = true
		}
		nested[ref.Name] = true

		spliced, err := flattenCommands(specializedCallee.Commands, facade, host, nested)
		if err != nil {
			return nil, err
		}
		for _, s := range spliced {
			out = append(out, withCallerFlags(cmd, s))
		}
	}
	return out, nil
}

// soleScriptRef reports whether tmpl is exactly one ScriptRef component.
func soleScriptRef(tmpl task.CommandTemplate) (task.ScriptRef, bool) {
	if len(tmpl) != 1 {
		return task.ScriptRef{}, false
	}
	ref, ok := tmpl[0].(task.ScriptRef)
	return ref, ok
}

// withCallerFlags keeps the callee's expanded template but replaces its
// execution modifiers with the caller's.
func withCallerFlags(caller, callee task.SpecializedCommand) task.SpecializedCommand {
	return task.SpecializedCommand{
		IgnoreErrors:     caller.IgnoreErrors,
		Parallel:         caller.Parallel,
		Silent:           caller.Silent,
		EchoOnly:         caller.EchoOnly,
		ShellPassthrough: caller.ShellPassthrough,
		Template:         callee.Template,
	}
}
