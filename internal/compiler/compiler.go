// Package compiler implements the AOT compiler: canonical scripts/vars →
// the platform-agnostic Universal Task AST (package task) that is
// persisted in the layer cache. Platform selection is deliberately not
// performed here (spec.md §4.3) so the cache stays portable across OSes;
// see internal/specializer for that step.
package compiler

import (
	"fmt"

	"github.com/axes-build/axes/internal/canon"
	"github.com/axes-build/axes/internal/surface"
	"github.com/axes-build/axes/internal/task"
)

// Result is everything compiled from one layer's axes.toml.
type Result struct {
	Version     string
	Description string
	Env         map[string]string
	Vars        map[string]task.PlatformExecution
	Tasks       map[string]*task.Task
	Options     surface.Options
}

// Compile turns a canonicalized document into the Universal Task AST.
func Compile(doc *canon.Document) (*Result, error) {
	res := &Result{
		Version:     doc.Version,
		Description: doc.Description,
		Env:         doc.Env,
		Vars:        make(map[string]task.PlatformExecution, len(doc.Vars)),
		Tasks:       make(map[string]*task.Task, len(doc.Scripts)),
		Options:     doc.Options,
	}

	for name, v := range doc.Vars {
		tmpl, err := compileRawLine(v.Platforms)
		if err != nil {
			return nil, fmt.Errorf("vars.%s: %w", name, err)
		}
		res.Vars[name] = tmpl
	}

	for name, script := range doc.Scripts {
		t, err := compileScript(name, script)
		if err != nil {
			return nil, fmt.Errorf("scripts.%s: %w", name, err)
		}
		res.Tasks[name] = t
	}

	return res, nil
}

func compileScript(name string, script canon.Script) (*task.Task, error) {
	t := &task.Task{Name: name, Commands: make([]task.CommandExecution, 0, len(script.Lines))}
	for _, line := range script.Lines {
		cmd, err := compileLine(line)
		if err != nil {
			return nil, err
		}
		t.Commands = append(t.Commands, cmd)
	}
	return t, nil
}

// compileLine parses the prefix stream of each platform variant of a
// canonical line (OR-combining flags across platforms, see DESIGN.md open
// question 1) and tokenizes what remains into a per-platform template.
func compileLine(line canon.Line) (task.CommandExecution, error) {
	var flags lineFlags
	remainders := make(map[task.Platform]string, len(line))
	for plat, raw := range line {
		f, rest := splitPrefix(raw)
		flags = flags.or(f)
		remainders[plat] = rest
	}

	exec := task.CommandExecution{
		IgnoreErrors:     flags.IgnoreErrors,
		Parallel:         flags.Parallel,
		Silent:           flags.Silent,
		EchoOnly:         flags.EchoOnly,
		ShellPassthrough: flags.ShellPassthrough,
		Platforms:        make(task.PlatformExecution, len(remainders)),
	}

	for plat, rest := range remainders {
		tmpl, err := compileTemplateText(rest, flags)
		if err != nil {
			return task.CommandExecution{}, err
		}
		exec.Platforms[plat] = tmpl
	}

	return exec, nil
}

// compileTemplateText tokenizes one platform's remainder text.
// shell-passthrough lines bypass the token scanner entirely — their whole
// remainder is one opaque Literal (spec.md §4.3: "bypassing the template
// engine"). echo-only lines still go through the tokenizer: §4.8 step 1
// only expands static tokens (metadata and vars) at print time, so they
// need real Var/ProjectMeta components, not a frozen literal string.
func compileTemplateText(text string, flags lineFlags) (task.CommandTemplate, error) {
	if flags.ShellPassthrough {
		return task.CommandTemplate{task.Literal(text)}, nil
	}
	return tokenize(text)
}

// compileRawLine compiles a variable's platform table (no modifiers, no
// echo/passthrough special-casing — a variable is always a plain
// template).
func compileRawLine(platforms map[task.Platform]string) (task.PlatformExecution, error) {
	out := make(task.PlatformExecution, len(platforms))
	for plat, raw := range platforms {
		tmpl, err := tokenize(raw)
		if err != nil {
			return nil, err
		}
		out[plat] = tmpl
	}
	return out, nil
}
