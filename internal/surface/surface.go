// Package surface deserializes axes.toml into the flexible surface AST
// described by the spec: scripts and variables may be written in any of
// several shapes (bare string, list, table-with-run, platform-only
// table), and this package's only job is to recognize which shape a given
// TOML value used — not to normalize it. Normalization is the
// canonicalizer's job (see internal/canon).
package surface

import "fmt"

// Platform keys recognized anywhere a platform table is expected.
var platformKeys = map[string]bool{
	"windows": true,
	"macos":   true,
	"linux":   true,
	"default": true,
}

// Document is the parsed, un-normalized contents of one axes.toml.
type Document struct {
	Version     string
	Description string
	Env         map[string]string
	Vars        map[string]VarNode
	Scripts     map[string]Shape
	Options     Options
}

// VarNode is a variable definition: either a bare shape, or a table
// carrying a "value" shape plus arbitrary string metadata.
type VarNode struct {
	Value Shape
	Meta  map[string]string
}

// Options mirrors the [options] table.
type Options struct {
	Shell    string
	OpenWith map[string]Shape
	AtStart  string
	AtExit   string
	Prompt   string
	CacheDir string
}

// Shape is a sealed sum type over the accepted script/value shapes.
type Shape interface {
	isShape()
}

// StringShape is a bare command/value string.
type StringShape string

func (StringShape) isShape() {}

// ListItem is a sealed sum type over list-of-script items.
type ListItem interface {
	isListItem()
}

// StringItem is a plain-string list entry.
type StringItem string

func (StringItem) isListItem() {}

// PlatformItem is a `{windows = "...", linux = "..."}`-shaped list entry,
// taken verbatim.
type PlatformItem map[string]string

func (PlatformItem) isListItem() {}

// ListShape is a list of script/value items, one canonical line each.
type ListShape []ListItem

func (ListShape) isShape() {}

// TableShape is a table that is either `{run = <shape>}` (HasRun) or a
// platform-keys-only table (HasPlatform). Both set is the
// AmbiguousScriptShape error case, caught by the parser before this type
// is ever constructed with both.
type TableShape struct {
	HasRun     bool
	Run        Shape
	HasPlatform bool
	Platforms  map[string]string
}

func (TableShape) isShape() {}

// ParseError reports a structural problem in the source document.
type ParseError struct {
	Path string
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

// UnknownKeyError reports keys present in the TOML that the parser does
// not recognize at a strict level.
type UnknownKeyError struct {
	Keys []string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown key(s): %v", e.Keys)
}

// AmbiguousScriptShapeError reports a table mixing `run` with platform
// keys — spec.md §4.3 calls this out explicitly as an error, not a
// best-effort guess.
type AmbiguousScriptShapeError struct {
	Path string
}

func (e *AmbiguousScriptShapeError) Error() string {
	return fmt.Sprintf("%s: table has both \"run\" and platform keys", e.Path)
}
