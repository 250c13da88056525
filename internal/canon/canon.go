// Package canon normalizes the flexible surface AST (package surface)
// into the single canonical shape the compiler consumes: every script is
// a non-empty ordered sequence of canonical lines, and every variable is
// one value-producing platform table. Collapsing all surface variants
// here keeps shape-dispatch out of the compiler's hot path.
package canon

import (
	"fmt"

	"github.com/axes-build/axes/internal/surface"
	"github.com/axes-build/axes/internal/task"
)

// Line is one canonical script line: a platform tag mapping to its raw,
// not-yet-tokenized command string. A platform absent from the map falls
// back to the "default" entry at specialization time, and has no command
// only when "default" is absent too; an empty string means an explicit
// no-op.
type Line map[task.Platform]string

// Script is a canonicalized script: non-empty ordered lines.
type Script struct {
	Lines []Line
}

// Var is a canonicalized variable: one platform table of raw value
// strings (themselves tokenized and compiled like a script line, just
// without execution modifiers).
type Var struct {
	Platforms map[task.Platform]string
}

// Document is the canonicalized form of one axes.toml.
type Document struct {
	Version     string
	Description string
	Env         map[string]string
	Vars        map[string]Var
	Scripts     map[string]Script
	Options     surface.Options
}

// AmbiguousVarShapeError reports a variable whose surface shape
// canonicalized to more than one line; variables must be single-valued.
type AmbiguousVarShapeError struct {
	Name string
}

func (e *AmbiguousVarShapeError) Error() string {
	return fmt.Sprintf("vars.%s: a variable must canonicalize to a single value, not a sequence", e.Name)
}

// EmptyScriptError reports a script whose surface shape produced zero
// lines (e.g. an empty list).
type EmptyScriptError struct {
	Name string
}

func (e *EmptyScriptError) Error() string {
	return fmt.Sprintf("scripts.%s: must contain at least one line", e.Name)
}

// Canonicalize normalizes a parsed surface.Document.
func Canonicalize(doc *surface.Document) (*Document, error) {
	out := &Document{
		Version:     doc.Version,
		Description: doc.Description,
		Env:         doc.Env,
		Vars:        make(map[string]Var, len(doc.Vars)),
		Scripts:     make(map[string]Script, len(doc.Scripts)),
		Options:     doc.Options,
	}

	for name, vn := range doc.Vars {
		lines, err := canonicalizeShape(vn.Value)
		if err != nil {
			return nil, err
		}
		if len(lines) != 1 {
			return nil, &AmbiguousVarShapeError{Name: name}
		}
		out.Vars[name] = Var{Platforms: map[task.Platform]string(lines[0])}
	}

	for name, shape := range doc.Scripts {
		lines, err := canonicalizeShape(shape)
		if err != nil {
			return nil, err
		}
		if len(lines) == 0 {
			return nil, &EmptyScriptError{Name: name}
		}
		out.Scripts[name] = Script{Lines: lines}
	}

	return out, nil
}

// canonicalizeShape implements the shape-collapse rules of spec.md §4.3.
func canonicalizeShape(shape surface.Shape) ([]Line, error) {
	switch s := shape.(type) {
	case surface.StringShape:
		return []Line{{task.PlatformDefault: string(s)}}, nil

	case surface.ListShape:
		lines := make([]Line, 0, len(s))
		for _, item := range s {
			switch it := item.(type) {
			case surface.StringItem:
				lines = append(lines, Line{task.PlatformDefault: string(it)})
			case surface.PlatformItem:
				lines = append(lines, platformItemToLine(it))
			default:
				return nil, fmt.Errorf("canon: unrecognized list item type %T", item)
			}
		}
		return lines, nil

	case surface.TableShape:
		if s.HasRun {
			return canonicalizeShape(s.Run)
		}
		if s.HasPlatform {
			return []Line{platformItemToLine(s.Platforms)}, nil
		}
		return nil, fmt.Errorf("canon: table shape has neither run nor platform keys")

	default:
		return nil, fmt.Errorf("canon: unrecognized shape type %T", shape)
	}
}

func platformItemToLine(m map[string]string) Line {
	line := make(Line, len(m))
	for k, v := range m {
		line[task.Platform(k)] = v
	}
	return line
}
