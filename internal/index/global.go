package index

import "github.com/google/uuid"

// GlobalIndex is the in-memory form of the persisted index file: a
// mapping from UUID to ProjectEntry, a decoupled alias table, and the
// navigation pointers used by the context resolver (spec.md §3).
//
// The dual-lookup shape here — entries keyed by UUID, with a second,
// independently-maintained alias table pointing at the same UUIDs — is
// the same idea as the teacher's NodeIndex/ObjectIndex dual-keyed maps
// (entries reachable by either of two identifiers), generalized from "ID
// or CanonicalID" to "UUID or alias".
type GlobalIndex struct {
	Entries       map[uuid.UUID]*ProjectEntry
	Aliases       map[string]uuid.UUID
	LastUsed      uuid.UUID            // whole-system last-used project; uuid.Nil if unset.
	LastUsedChild map[uuid.UUID]uuid.UUID // per-project last-used child.
}

// New returns an empty GlobalIndex.
func New() *GlobalIndex {
	return &GlobalIndex{
		Entries:       make(map[uuid.UUID]*ProjectEntry),
		Aliases:       make(map[string]uuid.UUID),
		LastUsedChild: make(map[uuid.UUID]uuid.UUID),
	}
}

// childNames returns the name→child-uuid map for one parent, derived on
// demand from Entries. The index is small (one entry per project in a
// monorepo) so this is cheap enough to avoid keeping a second structure
// in sync by hand.
func (g *GlobalIndex) childNames(parent uuid.UUID) map[string]uuid.UUID {
	out := make(map[string]uuid.UUID)
	for id, e := range g.Entries {
		if e.ParentUUID == parent {
			out[e.Name] = id
		}
	}
	return out
}

// AddEntry inserts a new entry, enforcing the invariants of spec.md §3: a
// named parent must exist, the name must not be reserved or contain a
// path separator, and no two children of the same parent may share a
// name.
func (g *GlobalIndex) AddEntry(e ProjectEntry) error {
	if !IsValidName(e.Name) {
		return &InvalidNameError{Name: e.Name}
	}
	if e.HasParent() {
		if _, ok := g.Entries[e.ParentUUID]; !ok {
			return &UnknownParentError{Parent: e.ParentUUID}
		}
	}
	siblings := g.childNames(e.ParentUUID)
	if existing, ok := siblings[e.Name]; ok && existing != e.UUID {
		return &DuplicateChildNameError{Parent: e.ParentUUID, Name: e.Name}
	}
	entry := e
	g.Entries[e.UUID] = &entry
	return nil
}

// RemoveEntry deletes an entry and any alias/navigation pointers that
// targeted it.
func (g *GlobalIndex) RemoveEntry(id uuid.UUID) error {
	if _, ok := g.Entries[id]; !ok {
		return &NotFoundError{What: id.String()}
	}
	delete(g.Entries, id)
	for alias, target := range g.Aliases {
		if target == id {
			delete(g.Aliases, alias)
		}
	}
	if g.LastUsed == id {
		g.LastUsed = uuid.Nil
	}
	delete(g.LastUsedChild, id)
	for parent, child := range g.LastUsedChild {
		if child == id {
			delete(g.LastUsedChild, parent)
		}
	}
	return nil
}

// UpdateHash records the content hash and cache-file identity produced by
// a fresh compile of one layer's axes.toml.
func (g *GlobalIndex) UpdateHash(id uuid.UUID, hash, cacheKey string) error {
	e, ok := g.Entries[id]
	if !ok {
		return &NotFoundError{What: id.String()}
	}
	e.ConfigHash = hash
	e.CacheKey = cacheKey
	return nil
}

// ResolveAlias looks up an alias target.
func (g *GlobalIndex) ResolveAlias(name string) (uuid.UUID, bool) {
	id, ok := g.Aliases[name]
	return id, ok
}

// SetAlias points an alias at an existing project UUID.
func (g *GlobalIndex) SetAlias(name string, id uuid.UUID) error {
	if !IsValidName(name) {
		return &InvalidNameError{Name: name}
	}
	if _, ok := g.Entries[id]; !ok {
		return &NotFoundError{What: id.String()}
	}
	g.Aliases[name] = id
	return nil
}

// RemoveAlias deletes an alias if present; removing an absent alias is a
// no-op.
func (g *GlobalIndex) RemoveAlias(name string) {
	delete(g.Aliases, name)
}

// ChildrenOf returns the UUIDs of every direct child of parent.
func (g *GlobalIndex) ChildrenOf(parent uuid.UUID) []uuid.UUID {
	names := g.childNames(parent)
	out := make([]uuid.UUID, 0, len(names))
	for _, id := range names {
		out = append(out, id)
	}
	return out
}

// ChildByName resolves a direct child of parent by name.
func (g *GlobalIndex) ChildByName(parent uuid.UUID, name string) (uuid.UUID, bool) {
	id, ok := g.childNames(parent)[name]
	return id, ok
}

// Root returns the entry with no parent, if exactly one exists.
func (g *GlobalIndex) Root() (*ProjectEntry, bool) {
	var root *ProjectEntry
	for _, e := range g.Entries {
		if !e.HasParent() {
			if root != nil {
				return nil, false // ambiguous; caller should run ValidateTree
			}
			root = e
		}
	}
	if root == nil {
		return nil, false
	}
	return root, true
}

// MarkUsed records that id was just resolved, updating both the
// whole-system pointer and the per-parent last-used-child pointer.
func (g *GlobalIndex) MarkUsed(id uuid.UUID) {
	g.LastUsed = id
	if e, ok := g.Entries[id]; ok && e.HasParent() {
		g.LastUsedChild[e.ParentUUID] = id
	}
}
