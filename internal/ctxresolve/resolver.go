// Package ctxresolve implements the context resolver (spec.md §4.2): it
// turns a textual context string plus an optional session-hint UUID into
// a concrete project UUID. It never guesses and never silently falls
// back to the global root — every failure is one of the typed errors in
// errors.go.
package ctxresolve

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/axes-build/axes/internal/index"
)

// Resolver resolves context strings against a GlobalIndex.
type Resolver struct {
	Index *index.GlobalIndex
}

// New creates a Resolver over idx.
func New(idx *index.GlobalIndex) *Resolver {
	return &Resolver{Index: idx}
}

// Resolve implements the resolution order of spec.md §4.2. cwd is the
// current working directory; sessionHint is uuid.Nil when not running
// inside a `start` session.
func (r *Resolver) Resolve(ctxStr string, sessionHint uuid.UUID, cwd string) (uuid.UUID, error) {
	id, err := r.resolve(ctxStr, sessionHint, cwd)
	if err != nil {
		return uuid.Nil, err
	}
	r.Index.MarkUsed(id)
	return id, nil
}

func (r *Resolver) resolve(ctxStr string, sessionHint uuid.UUID, cwd string) (uuid.UUID, error) {
	switch {
	case ctxStr == "" || ctxStr == ".":
		if sessionHint != uuid.Nil {
			return sessionHint, nil
		}
		return walkUpForSidecar(cwd)

	case ctxStr == "_":
		ref, err := index.ReadSidecar(cwd)
		if err != nil {
			return uuid.Nil, &NoCurrentProjectError{CWD: cwd}
		}
		return ref.SelfUUID, nil

	case strings.HasSuffix(ctxStr, "!") && !strings.Contains(ctxStr, "/"):
		return r.resolveAlias(strings.TrimSuffix(ctxStr, "!"))

	default:
		return r.resolvePath(ctxStr)
	}
}

func (r *Resolver) resolveAlias(name string) (uuid.UUID, error) {
	id, ok := r.Index.ResolveAlias(name)
	if !ok {
		return uuid.Nil, &UnknownAliasError{Alias: name}
	}
	return id, nil
}

// resolvePath walks a '/'-separated segment sequence from an anchor
// chosen by the first segment's own rules, then treats every subsequent
// segment as a plain child-name lookup.
func (r *Resolver) resolvePath(path string) (uuid.UUID, error) {
	segments := strings.Split(path, "/")
	anchor, err := r.resolveFirstSegment(segments[0])
	if err != nil {
		return uuid.Nil, err
	}
	for _, seg := range segments[1:] {
		next, err := r.resolveSegment(anchor, seg)
		if err != nil {
			return uuid.Nil, err
		}
		anchor = next
	}
	return anchor, nil
}

func (r *Resolver) resolveFirstSegment(seg string) (uuid.UUID, error) {
	switch {
	case strings.HasSuffix(seg, "!"):
		return r.resolveAlias(strings.TrimSuffix(seg, "!"))
	case seg == ".":
		return r.rootUUID()
	case seg == "..":
		return r.rootUUID() // parent of the root anchor is itself the root
	case seg == "*":
		root, err := r.rootUUID()
		if err != nil {
			return uuid.Nil, err
		}
		return r.lastUsedChildOf(root)
	case seg == "**":
		if r.Index.LastUsed == uuid.Nil {
			return uuid.Nil, &AmbiguousRootError{}
		}
		return r.Index.LastUsed, nil
	default:
		root, err := r.rootUUID()
		if err != nil {
			return uuid.Nil, err
		}
		return r.resolveSegment(root, seg)
	}
}

// resolveSegment interprets one subsequent path segment relative to the
// current anchor: ".." is the anchor's parent, "*" is the anchor's
// last-used child, "**" is the whole-system last-used project, anything
// else is a direct child-name lookup.
func (r *Resolver) resolveSegment(anchor uuid.UUID, seg string) (uuid.UUID, error) {
	switch seg {
	case "..":
		e, ok := r.Index.Entries[anchor]
		if !ok || !e.HasParent() {
			return uuid.Nil, &NotAChildError{Parent: anchor, Name: seg}
		}
		return e.ParentUUID, nil
	case "*":
		return r.lastUsedChildOf(anchor)
	case "**":
		if r.Index.LastUsed == uuid.Nil {
			return uuid.Nil, &AmbiguousRootError{}
		}
		return r.Index.LastUsed, nil
	default:
		id, ok := r.Index.ChildByName(anchor, seg)
		if !ok {
			return uuid.Nil, &NotAChildError{Parent: anchor, Name: seg}
		}
		return id, nil
	}
}

func (r *Resolver) lastUsedChildOf(anchor uuid.UUID) (uuid.UUID, error) {
	id, ok := r.Index.LastUsedChild[anchor]
	if !ok {
		return uuid.Nil, &NotAChildError{Parent: anchor, Name: "*"}
	}
	return id, nil
}

func (r *Resolver) rootUUID() (uuid.UUID, error) {
	root, ok := r.Index.Root()
	if !ok {
		return uuid.Nil, &AmbiguousRootError{}
	}
	return root.UUID, nil
}

// walkUpForSidecar climbs from dir to the filesystem root looking for a
// .axes/project_ref sidecar, per spec.md §4.2 case 1.
func walkUpForSidecar(dir string) (uuid.UUID, error) {
	start := dir
	for {
		ref, err := index.ReadSidecar(dir)
		if err == nil {
			return ref.SelfUUID, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return uuid.Nil, &NoCurrentProjectError{CWD: start}
		}
		dir = parent
	}
}
