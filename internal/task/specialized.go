package task

// SpecializedCommand is a CommandExecution with its platform template
// already selected for the host OS. Produced once by the JIT specializer
// and consumed once by the executor; never cached.
type SpecializedCommand struct {
	IgnoreErrors     bool
	Parallel         bool
	Silent           bool
	EchoOnly         bool
	ShellPassthrough bool
	Template         CommandTemplate
}

// SpecializedTask is the flat, host-OS-specific form of a Task.
type SpecializedTask struct {
	Name     string
	Commands []SpecializedCommand
}

// ParameterDefs returns every distinct ParameterDef reachable from this
// task's own commands (not following ScriptRef — callers that need the
// transitive contract across compositions first splice ScriptRef targets
// in with executor.FlattenScript and call this on the flattened task).
func (t *SpecializedTask) ParameterDefs() []ParameterDef {
	seen := make(map[string]bool)
	var out []ParameterDef
	var walk func(CommandTemplate)
	walk = func(tmpl CommandTemplate) {
		for _, c := range tmpl {
			switch v := c.(type) {
			case Param:
				if !seen[v.Def.Key()] {
					seen[v.Def.Key()] = true
					out = append(out, v.Def)
				}
			case Run:
				walk(v.Inner)
			}
		}
	}
	for _, cmd := range t.Commands {
		walk(cmd.Template)
	}
	return out
}
