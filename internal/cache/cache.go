// Package cache persists one layer's compiled compiler.Result to a
// content-hash-keyed binary file using encoding/gob. No example in the
// retrieval pack carries in-tree code for a compact binary serialization
// library (msgpack/flatbuffers/protobuf appear only as bare go.mod
// entries with no source to learn the calling convention from), so this
// is built directly against the standard library — see SPEC_FULL.md's
// DOMAIN STACK section for the full justification.
package cache

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/axes-build/axes/internal/compiler"
)

// currentFormatVersion is bumped whenever the envelope's decodable shape
// changes in a way gob can't shrug off on its own (field removals,
// reinterpreted semantics). Readers reject envelopes newer than what they
// understand; they accept older ones (gob already tolerates added fields
// transparently).
const currentFormatVersion = 1

// envelope is the on-disk wrapper. Hash is stored alongside the payload
// so a Load call can detect a cache file that was renamed or copied onto
// the wrong hash (defensive; the cache key is otherwise derived purely
// from the file name).
type envelope struct {
	FormatVersion int
	Hash          string
	Result        compiler.Result
}

// ErrFormatTooNew is returned when a cache file was written by a newer
// version of this tool than can read it.
var ErrFormatTooNew = errors.New("cache: envelope format is newer than this binary understands")

// Store is a layer cache rooted at one directory; cmd/axes roots it at
// the configured cache.dir (or AXES_CACHE_DIR), else at a user-wide cache
// directory.
type Store struct {
	Dir string
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: creating cache dir: %w", err)
	}
	return &Store{Dir: dir}, nil
}

func (s *Store) path(hash string) string {
	return filepath.Join(s.Dir, hash+".bin")
}

// Load attempts a cache hit for the given content hash. A missing file is
// not an error: (nil, false, nil) signals a clean miss. A corrupt or
// unreadable file that exists is reported as an error so the caller can
// decide whether to fall back to a recompile (spec.md §7, CacheIO).
func (s *Store) Load(hash string) (*compiler.Result, bool, error) {
	data, err := os.ReadFile(s.path(hash))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache: reading %s: %w", hash, err)
	}

	var env envelope
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&env); err != nil {
		return nil, false, fmt.Errorf("cache: decoding %s: %w", hash, err)
	}
	if env.FormatVersion > currentFormatVersion {
		return nil, false, ErrFormatTooNew
	}
	if env.Hash != hash {
		return nil, false, fmt.Errorf("cache: %s: stored hash %q does not match file name", hash, env.Hash)
	}
	res := env.Result
	return &res, true, nil
}

// Save writes a layer's compiled result under its content hash. Writes
// are atomic: encode to a temp file in the same directory, fsync, then
// rename over the destination — so a crash mid-write never leaves a
// half-written cache file for a concurrent reader to observe (spec.md §5).
func (s *Store) Save(hash string, res *compiler.Result) error {
	env := envelope{FormatVersion: currentFormatVersion, Hash: hash, Result: *res}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(env); err != nil {
		return fmt.Errorf("cache: encoding %s: %w", hash, err)
	}

	tmp, err := os.CreateTemp(s.Dir, hash+".tmp-*")
	if err != nil {
		return fmt.Errorf("cache: creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("cache: writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("cache: fsyncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cache: closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path(hash)); err != nil {
		return fmt.Errorf("cache: renaming into place: %w", err)
	}
	return nil
}
