package index

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// persistedIndex is the on-disk layout: a fixed header (FormatVersion)
// followed by the serialized maps. Forward-compatibility policy: readers
// accept any FormatVersion they know about and ignore trailing fields
// gob itself already tolerates; they reject a version higher than they
// understand (spec.md §6).
type persistedIndex struct {
	FormatVersion int
	Entries       map[uuid.UUID]ProjectEntry
	Aliases       map[string]uuid.UUID
	LastUsed      uuid.UUID
	LastUsedChild map[uuid.UUID]uuid.UUID
}

const currentFormatVersion = 1

// Load reads the global index file. A missing file is reported via
// os.IsNotExist on the returned error so callers can distinguish "not
// created yet" from "present but unreadable". Load itself never rebuilds;
// a caller may answer the latter with RebuildFromFilesystem.
func Load(path string) (*GlobalIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var p persistedIndex
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&p); err != nil {
		return nil, fmt.Errorf("index: decoding %s: %w", path, err)
	}
	if p.FormatVersion > currentFormatVersion {
		return nil, fmt.Errorf("index: %s was written by a newer format (%d > %d)", path, p.FormatVersion, currentFormatVersion)
	}

	g := New()
	for id, e := range p.Entries {
		entry := e
		g.Entries[id] = &entry
	}
	if p.Aliases != nil {
		g.Aliases = p.Aliases
	}
	g.LastUsed = p.LastUsed
	if p.LastUsedChild != nil {
		g.LastUsedChild = p.LastUsedChild
	}
	return g, nil
}

// Save writes the global index atomically: encode to a temp file in the
// same directory, fsync, rename over the destination. Concurrent
// invocations may race to save; the last rename wins, but since every
// invocation accumulates its own index mutations and applies them in one
// save at exit (spec.md §5), no single save is ever partial.
func Save(path string, g *GlobalIndex) error {
	p := persistedIndex{
		FormatVersion: currentFormatVersion,
		Entries:       make(map[uuid.UUID]ProjectEntry, len(g.Entries)),
		Aliases:       g.Aliases,
		LastUsed:      g.LastUsed,
		LastUsedChild: g.LastUsedChild,
	}
	for id, e := range g.Entries {
		p.Entries[id] = *e
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(p); err != nil {
		return fmt.Errorf("index: encoding: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("index: creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("index: creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("index: writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("index: fsyncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("index: closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("index: renaming into place: %w", err)
	}
	return nil
}
