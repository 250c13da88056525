package compiler

import (
	"crypto/sha256"
	"encoding/hex"
)

// ContentHash computes the cache key for a layer's axes.toml bytes. It is
// content-addressed rather than mtime-based: mtimes are unreliable across
// file-syncing tools and CI, and hashing a small TOML file is cheaper than
// the compile it would otherwise avoid (spec.md §9).
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
