package resolver

import (
	"sync"

	"github.com/google/uuid"

	"github.com/axes-build/axes/internal/surface"
	"github.com/axes-build/axes/internal/task"
)

// Facade is the merged, queryable view over one root→leaf layer chain
// (spec.md §4.5). Accessors are memoized: the first call to each does the
// merge work, later calls on the same Facade are a map lookup under a
// mutex. A Facade is built fresh per Loader.Load call and is not meant to
// outlive the invocation it was resolved for.
type Facade struct {
	layers []layer // root-to-leaf order; layers[len-1] is the leaf.

	mu      sync.Mutex
	env     map[string]string
	envDone bool
	opts    surface.Options
	optsDone bool
}

// Leaf returns the resolved project's own UUID and name.
func (f *Facade) Leaf() (uuid.UUID, string) {
	l := f.layers[len(f.layers)-1]
	return l.UUID, l.Name
}

// GetEnv returns the merged environment: a left-fold from root to leaf,
// so a child's env entry overrides its ancestor's value for the same
// key (spec.md §4.5, §6).
func (f *Facade) GetEnv() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.envDone {
		return f.env
	}
	merged := make(map[string]string)
	for _, l := range f.layers {
		for k, v := range l.Compiled.Env {
			merged[k] = v
		}
	}
	f.env = merged
	f.envDone = true
	return f.env
}

// GetOptions returns the merged [options] table: each field falls back
// independently from leaf to root, first non-empty value wins (a child
// overriding only `shell` still inherits its ancestor's `prompt`, etc).
func (f *Facade) GetOptions() surface.Options {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.optsDone {
		return f.opts
	}
	var merged surface.Options
	for i := len(f.layers) - 1; i >= 0; i-- {
		o := f.layers[i].Compiled.Options
		if merged.Shell == "" {
			merged.Shell = o.Shell
		}
		if merged.AtStart == "" {
			merged.AtStart = o.AtStart
		}
		if merged.AtExit == "" {
			merged.AtExit = o.AtExit
		}
		if merged.Prompt == "" {
			merged.Prompt = o.Prompt
		}
		if merged.CacheDir == "" {
			merged.CacheDir = o.CacheDir
		}
		if merged.OpenWith == nil && o.OpenWith != nil {
			merged.OpenWith = o.OpenWith
		}
	}
	f.opts = merged
	f.optsDone = true
	return f.opts
}

// GetVar resolves a variable by first-match-from-leaf: the nearest layer
// (leaf first, then each ancestor in turn) that defines the name wins
// outright — there is no field-by-field merge across layers the way
// GetOptions does it, since a variable's per-platform template is a
// single compiled unit (spec.md §4.5).
func (f *Facade) GetVar(name string) (task.PlatformExecution, bool) {
	for i := len(f.layers) - 1; i >= 0; i-- {
		if v, ok := f.layers[i].Compiled.Vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// GetScript resolves a script (task) by the same first-match-from-leaf
// rule as GetVar.
func (f *Facade) GetScript(name string) (*task.Task, bool) {
	for i := len(f.layers) - 1; i >= 0; i-- {
		if t, ok := f.layers[i].Compiled.Tasks[name]; ok {
			return t, true
		}
	}
	return nil, false
}
