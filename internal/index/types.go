// Package index implements the global project index and the per-project
// ProjectRef sidecar: the content-addressed, self-repairing identity
// layer described in spec.md §3/§4.1. A GlobalIndex maps stable project
// UUIDs to filesystem paths and parent links; each project directory
// carries a sidecar authoritative enough to rebuild the whole index.
package index

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ReservedNames must never be accepted as a project name or alias.
var ReservedNames = map[string]bool{
	".":  true,
	"..": true,
	"*":  true,
	"**": true,
}

// IsValidName reports whether name is usable as a project name or alias:
// not reserved, and free of path separators.
func IsValidName(name string) bool {
	if name == "" || ReservedNames[name] {
		return false
	}
	return !strings.ContainsAny(name, "/\\")
}

// ProjectEntry is one row of the global index.
type ProjectEntry struct {
	UUID       uuid.UUID
	Name       string
	ParentUUID uuid.UUID // uuid.Nil means "no parent" (the root).
	Path       string
	ConfigHash string
	CacheKey   string
}

// HasParent reports whether this entry has a parent in the tree.
func (e ProjectEntry) HasParent() bool {
	return e.ParentUUID != uuid.Nil
}

// ProjectRef is the per-project sidecar stored at
// <project>/.axes/project_ref. It alone is authoritative enough to
// rebuild a GlobalIndex entry.
type ProjectRef struct {
	SelfUUID   uuid.UUID
	Name       string
	ParentUUID uuid.UUID
}

// DuplicateChildNameError is a hard error raised when two children of the
// same parent would share a name (spec.md §4.1: "hard error on write").
type DuplicateChildNameError struct {
	Parent uuid.UUID
	Name   string
}

func (e *DuplicateChildNameError) Error() string {
	return fmt.Sprintf("duplicate child name %q under parent %s", e.Name, e.Parent)
}

// UnknownParentError is raised when an entry names a parent UUID absent
// from the index.
type UnknownParentError struct {
	Parent uuid.UUID
}

func (e *UnknownParentError) Error() string {
	return fmt.Sprintf("unknown parent uuid %s", e.Parent)
}

// InvalidNameError is raised when a reserved word or a name containing a
// path separator is used as a project name or alias.
type InvalidNameError struct {
	Name string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid name %q: reserved or contains a path separator", e.Name)
}

// NotFoundError is raised when an operation references a UUID or alias
// that does not exist in the index.
type NotFoundError struct {
	What string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.What)
}
