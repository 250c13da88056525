package ctxresolve

import (
	"fmt"

	"github.com/google/uuid"
)

// UnknownAliasError is raised by a trailing-bang or first-segment alias
// lookup that has no target.
type UnknownAliasError struct {
	Alias string
}

func (e *UnknownAliasError) Error() string {
	return fmt.Sprintf("unknown alias %q", e.Alias)
}

// NotAChildError is raised when a path segment names a child that does
// not exist under the current anchor.
type NotAChildError struct {
	Parent uuid.UUID
	Name   string
}

func (e *NotAChildError) Error() string {
	return fmt.Sprintf("%q is not a child of %s", e.Name, e.Parent)
}

// NoCurrentProjectError is raised when an implicit ("", ".", "_") context
// can't be resolved: no session hint, and no sidecar found by walking up
// from the working directory (or, for "_", exactly at it).
type NoCurrentProjectError struct {
	CWD string
}

func (e *NoCurrentProjectError) Error() string {
	return fmt.Sprintf("no current project found from %s", e.CWD)
}

// AmbiguousRootError is raised when a navigation token needs "the root"
// but the index has zero or more than one root-level entry, and when "**"
// is used while no whole-system last-used project is recorded.
type AmbiguousRootError struct{}

func (e *AmbiguousRootError) Error() string {
	return "ambiguous or missing root project; run index repair"
}
