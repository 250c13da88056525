// Package task defines the Universal Task AST: the platform-agnostic,
// compiled representation of a script that is persisted in the layer
// cache and later specialized for the host OS.
//
// The shape here is deliberately a closed set of sum types, each tagged
// with an unexported marker method, mirroring the TreeNode/Step split used
// by execution-tree ASTs elsewhere in the ecosystem: a CommandTemplate is
// an ordered list of TemplateComponents, and TemplateComponent is a sealed
// interface with one concrete type per token kind the compiler emits.
package task

import "strconv"

// Platform is one of the four recognized platform tags. "default" is the
// fallback used when no OS-specific variant is present.
type Platform string

const (
	PlatformWindows Platform = "windows"
	PlatformMacOS   Platform = "macos"
	PlatformLinux   Platform = "linux"
	PlatformDefault Platform = "default"
)

// Task is the compiled form of one script: an ordered sequence of
// commands, each carrying its own execution modifiers and per-platform
// template.
type Task struct {
	Name     string
	Commands []CommandExecution
}

// CommandExecution is one canonical line of a script, compiled.
type CommandExecution struct {
	IgnoreErrors     bool
	Parallel         bool
	Silent           bool
	EchoOnly         bool
	ShellPassthrough bool

	Platforms PlatformExecution
}

// PlatformExecution maps a platform tag to the CommandTemplate that runs
// on it. Absent keys fall back to PlatformDefault at specialization time;
// a wholly-absent template after fallback is a documented no-op.
type PlatformExecution map[Platform]CommandTemplate

// CommandTemplate is an ordered list of components to expand and join at
// execution time.
type CommandTemplate []TemplateComponent

// TemplateComponent is a sealed sum type; see the concrete types below.
type TemplateComponent interface {
	isTemplateComponent()
}

// Literal is raw, unexpanded text copied verbatim into the output.
type Literal string

func (Literal) isTemplateComponent() {}

// MetaKind enumerates the project metadata tokens the compiler recognizes.
type MetaKind string

const (
	MetaName    MetaKind = "name"
	MetaPath    MetaKind = "path"
	MetaUUID    MetaKind = "uuid"
	MetaVersion MetaKind = "version"
)

// ProjectMeta substitutes a piece of project metadata (<name>, <path>, …).
type ProjectMeta struct {
	Kind MetaKind
}

func (ProjectMeta) isTemplateComponent() {}

// Var references a variable defined somewhere in the merged configuration
// (<vars::IDENT>). Variables are themselves compiled templates and are
// expanded recursively with the same parameter map as the command that
// references them.
type Var struct {
	Name string
}

func (Var) isTemplateComponent() {}

// ScriptRef references another script by name for composition
// (<scripts::IDENT>). The callee's own execution modifiers never apply;
// only its expanded command lines are spliced in, inline, at the caller's
// line.
type ScriptRef struct {
	Name string
}

func (ScriptRef) isTemplateComponent() {}

// Run captures the stdout of a short-lived subprocess at execution time
// and substitutes it, trimmed of trailing whitespace, literally (not
// re-expanded). Never cached across invocations.
type Run struct {
	Inner CommandTemplate
}

func (Run) isTemplateComponent() {}

// Param is a runtime-resolved CLI parameter slot.
type Param struct {
	Def ParameterDef
}

func (Param) isTemplateComponent() {}

// ParameterDef is a sealed sum type over the three parameter shapes a
// script's template can declare.
type ParameterDef interface {
	isParameterDef()
	// Key returns a stable identity usable as a map key for the resolved
	// value map; positional and named parameters key on their own
	// identity, the generic collector is a singleton per task.
	Key() string
}

// Positional is a parameter consumed by CLI-argument index.
type Positional struct {
	Index      int
	Required   bool
	Default    string
	HasDefault bool
	// MapToFlag, if non-empty, rewrites the positional into a flag-style
	// emission: "--foo <value>" instead of the bare value.
	MapToFlag string
	Literal   bool
}

func (Positional) isParameterDef() {}
func (p Positional) Key() string  { return "positional:" + strconv.Itoa(p.Index) }

// Named is a parameter consumed by `--long-name` or its short alias.
type Named struct {
	LongName string
	// AliasShort is the short form, e.g. "-t". Empty means no alias.
	AliasShort string
	Required   bool
	Default    string
	HasDefault bool
	// MapReplaceName, when set (even to the empty string via
	// MapValueOnly), rewrites how the flag is emitted.
	MapReplaceName string
	HasMapReplace  bool
	// MapValueOnly means the name is dropped entirely; only the value is
	// emitted (map='').
	MapValueOnly bool
	Literal      bool
}

func (Named) isParameterDef() {}
func (n Named) Key() string  { return "named:" + n.LongName }

// Generic is the unconsumed-argument collector token (<params>).
type Generic struct{}

func (Generic) isParameterDef() {}
func (Generic) Key() string    { return "generic" }
