package index

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/google/uuid"
)

// candidate holds one sidecar-derived entry waiting to be placed into the
// rebuilt tree.
type candidate struct {
	entry ProjectEntry
}

// RebuildFromFilesystem reconstructs a GlobalIndex by recursively
// scanning root for project sidecars (spec.md §4.1). This is the
// self-healing path taken when the global index file is missing or
// corrupt: every sidecar is authoritative enough to rebuild its entry.
//
// Entries are added in parent-before-child order where possible; a
// sidecar whose declared parent is never found anywhere in the scan is
// still added (as an orphan) with a warning, rather than dropped, so a
// user can repair the one broken link instead of losing everything under
// it.
func RebuildFromFilesystem(root string) (*GlobalIndex, []string, error) {
	var candidates []candidate
	var warnings []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || d.Name() != SidecarDir {
			return nil
		}
		projectDir := filepath.Dir(path)
		ref, rerr := ReadSidecar(projectDir)
		if rerr != nil {
			warnings = append(warnings, fmt.Sprintf("skipping %s: unreadable sidecar: %v", projectDir, rerr))
			return filepath.SkipDir
		}
		candidates = append(candidates, candidate{entry: ProjectEntry{
			UUID:       ref.SelfUUID,
			Name:       ref.Name,
			ParentUUID: ref.ParentUUID,
			Path:       projectDir,
		}})
		return filepath.SkipDir // .axes/ has no nested projects of its own
	})
	if err != nil {
		return nil, warnings, fmt.Errorf("index: scanning %s: %w", root, err)
	}

	g := New()
	known := make(map[uuid.UUID]bool, len(candidates))
	for _, c := range candidates {
		known[c.entry.UUID] = true
	}

	pending := candidates
	for len(pending) > 0 {
		progressed := false
		var next []candidate
		for _, c := range pending {
			if !c.entry.HasParent() || g.Entries[c.entry.ParentUUID] != nil {
				if err := placeEntry(g, c.entry); err != nil {
					warnings = append(warnings, err.Error())
				}
				progressed = true
				continue
			}
			next = append(next, c)
		}
		if !progressed {
			// Remaining entries form a cycle or reference a parent UUID
			// never seen anywhere in the scan: place them as orphans.
			for _, c := range next {
				if !known[c.entry.ParentUUID] {
					warnings = append(warnings, fmt.Sprintf("%s (%s): parent %s not found anywhere under %s; registering as orphan", c.entry.Name, c.entry.UUID, c.entry.ParentUUID, root))
				}
				entry := c.entry
				g.Entries[entry.UUID] = &entry
			}
			break
		}
		pending = next
	}

	return g, warnings, nil
}

func placeEntry(g *GlobalIndex, e ProjectEntry) error {
	if err := g.AddEntry(e); err != nil {
		return fmt.Errorf("rebuild: %s (%s): %w", e.Name, e.UUID, err)
	}
	return nil
}
