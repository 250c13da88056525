// Package resolver implements the ConfigFacade (spec.md §4.5): given a
// leaf project UUID, it loads the whole root→leaf layer chain
// concurrently, deduplicating concurrent requests for the same layer,
// and exposes memoized merge accessors over the result.
package resolver

import (
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/axes-build/axes/internal/cache"
	"github.com/axes-build/axes/internal/canon"
	"github.com/axes-build/axes/internal/compiler"
	"github.com/axes-build/axes/internal/index"
	"github.com/axes-build/axes/internal/surface"
)

// layer is one compiled project in a root→leaf chain.
type layer struct {
	UUID     uuid.UUID
	Name     string
	Compiled *compiler.Result
}

// loadLayerCached resolves one layer via its content-hash cache, falling
// back to a full compile on a miss and writing the result back for the
// next process to find. store may be nil, meaning "always recompile"
// without reading or writing any cache file.
func loadLayerCached(e *index.ProjectEntry, store *cache.Store) (*compiler.Result, string, error) {
	path := index.ConfigPath(e.Path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("resolver: reading %s: %w", path, err)
	}
	hash := compiler.ContentHash(data)

	if store != nil {
		if res, ok, err := store.Load(hash); err != nil {
			return nil, "", err
		} else if ok {
			return res, hash, nil
		}
	}

	doc, err := surface.Parse(data)
	if err != nil {
		return nil, "", fmt.Errorf("resolver: parsing %s: %w", path, err)
	}
	cdoc, err := canon.Canonicalize(doc)
	if err != nil {
		return nil, "", fmt.Errorf("resolver: canonicalizing %s: %w", path, err)
	}
	res, err := compiler.Compile(cdoc)
	if err != nil {
		return nil, "", fmt.Errorf("resolver: compiling %s: %w", path, err)
	}

	if store != nil {
		if err := store.Save(hash, res); err != nil {
			return nil, "", err
		}
	}
	return res, hash, nil
}
