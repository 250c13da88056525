package index

import (
	"fmt"

	"github.com/axes-build/axes/internal/diagnostic"
	"github.com/google/uuid"
)

// ValidateTree checks the invariants of spec.md §3 independent of any
// script invocation — the "Doctor" entry point mentioned in SPEC_FULL.md,
// grounded on the teacher's guard-set-runs-every-check-then-aggregates
// pattern: every check below runs regardless of earlier failures, and the
// caller gets the whole Outcome, not just the first problem.
func (g *GlobalIndex) ValidateTree() diagnostic.Outcome {
	var out diagnostic.Outcome

	roots := 0
	for _, e := range g.Entries {
		if !e.HasParent() {
			roots++
		}
	}
	switch {
	case roots == 0 && len(g.Entries) > 0:
		out.Add(diagnostic.Result{Check: "single-root", Severity: diagnostic.Blocking,
			Message: "no root project (every entry has a parent)"})
	case roots > 1:
		out.Add(diagnostic.Result{Check: "single-root", Severity: diagnostic.Blocking,
			Message: fmt.Sprintf("%d root projects found, expected at most one", roots)})
	default:
		out.Add(diagnostic.Result{Check: "single-root", Passed: true})
	}

	for id, e := range g.Entries {
		if e.HasParent() {
			if _, ok := g.Entries[e.ParentUUID]; !ok {
				out.Add(diagnostic.Result{Check: "parent-exists", Severity: diagnostic.Blocking,
					Message: fmt.Sprintf("%s (%s): parent %s not in index", e.Name, id, e.ParentUUID)})
				continue
			}
		}
		out.Add(diagnostic.Result{Check: "parent-exists", Passed: true})
	}

	seen := make(map[string]bool)
	for parent := range g.Entries {
		key := parent.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		names := make(map[string]int)
		for _, e := range g.Entries {
			if e.ParentUUID == parent {
				names[e.Name]++
			}
		}
		dup := false
		for name, n := range names {
			if n > 1 {
				out.Add(diagnostic.Result{Check: "unique-child-names", Severity: diagnostic.Blocking,
					Message: fmt.Sprintf("parent %s has %d children named %q", parent, n, name)})
				dup = true
			}
		}
		if !dup {
			out.Add(diagnostic.Result{Check: "unique-child-names", Passed: true})
		}
	}

	for alias, target := range g.Aliases {
		if _, ok := g.Entries[target]; !ok {
			out.Add(diagnostic.Result{Check: "alias-target-exists", Severity: diagnostic.Blocking,
				Message: fmt.Sprintf("alias %q targets missing uuid %s", alias, target)})
			continue
		}
		out.Add(diagnostic.Result{Check: "alias-target-exists", Passed: true})
	}

	if g.LastUsed != uuid.Nil {
		if _, ok := g.Entries[g.LastUsed]; !ok {
			out.Add(diagnostic.Result{Check: "last-used-exists", Severity: diagnostic.Warning,
				Message: fmt.Sprintf("last_used_project %s not in index", g.LastUsed)})
		} else {
			out.Add(diagnostic.Result{Check: "last-used-exists", Passed: true})
		}
	}

	for parent, child := range g.LastUsedChild {
		if _, ok := g.Entries[child]; !ok {
			out.Add(diagnostic.Result{Check: "last-used-child-exists", Severity: diagnostic.Warning,
				Message: fmt.Sprintf("last_used_child for %s points at missing uuid %s", parent, child)})
			continue
		}
		out.Add(diagnostic.Result{Check: "last-used-child-exists", Passed: true})
	}

	return out
}
