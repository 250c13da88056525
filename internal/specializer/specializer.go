// Package specializer implements the JIT specializer (spec.md §4.6): it
// walks a universal task.Task and selects, per CommandExecution, the one
// CommandTemplate that runs on the host OS — producing the transient,
// memory-only task.SpecializedTask the executor consumes once and drops.
package specializer

import (
	"runtime"

	"github.com/axes-build/axes/internal/task"
)

// HostPlatform maps runtime.GOOS to the task.Platform tag axes.toml
// authors write. Every unix-like GOOS other than "darwin" is treated as
// "linux" — the spec recognizes exactly three OS tags plus "default".
func HostPlatform() task.Platform {
	switch runtime.GOOS {
	case "windows":
		return task.PlatformWindows
	case "darwin":
		return task.PlatformMacOS
	default:
		return task.PlatformLinux
	}
}

// Specialize produces a SpecializedTask for host from t, selecting each
// command's template in host → default → empty order. An empty template
// (zero TemplateComponents) is a valid result: the executor treats it as
// a no-op line rather than an error, per spec.md §4.6.
func Specialize(t *task.Task, host task.Platform) *task.SpecializedTask {
	out := &task.SpecializedTask{
		Name:     t.Name,
		Commands: make([]task.SpecializedCommand, len(t.Commands)),
	}
	for i, cmd := range t.Commands {
		out.Commands[i] = task.SpecializedCommand{
			IgnoreErrors:     cmd.IgnoreErrors,
			Parallel:         cmd.Parallel,
			Silent:           cmd.Silent,
			EchoOnly:         cmd.EchoOnly,
			ShellPassthrough: cmd.ShellPassthrough,
			Template:         selectTemplate(cmd.Platforms, host),
		}
	}
	return out
}

func selectTemplate(platforms task.PlatformExecution, host task.Platform) task.CommandTemplate {
	if tmpl, ok := platforms[host]; ok {
		return tmpl
	}
	if tmpl, ok := platforms[task.PlatformDefault]; ok {
		return tmpl
	}
	return nil
}

// SpecializeVar selects a variable's template the same way a command's
// template is selected; variables share PlatformExecution's shape.
func SpecializeVar(v task.PlatformExecution, host task.Platform) task.CommandTemplate {
	return selectTemplate(v, host)
}
