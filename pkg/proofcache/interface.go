// Package proofcache defines a read-through cache of inclusion proofs,
// keyed by the tree root that produced them and the leaf index within
// that tree. Callers ask a Tree for a proof once, cache it here, and on
// a cache hit skip tree traversal entirely — the proof bytes are
// identical either way, so a cache hit or miss must never change the
// verification result, only how fast the proof was obtained.
package proofcache

import "github.com/Layr-Labs/plasma-mst-go/pkg/merkle"

// Cache is the behavior every proof cache backend provides. All
// implementations must be safe for concurrent use, since proof lookups
// and verification run unsynchronized across readers.
type Cache interface {
	// Get returns the cached proof for (rootKey, leafIndex). found is
	// false on a cache miss; err is non-nil only on a storage failure.
	Get(rootKey string, leafIndex int) (proof []merkle.Node, found bool, err error)

	// Put stores proof under (rootKey, leafIndex), overwriting any
	// existing entry.
	Put(rootKey string, leafIndex int, proof []merkle.Node) error

	// Close cleanly shuts down the cache. Idempotent.
	Close() error

	// HealthCheck verifies the cache backend is operational.
	HealthCheck() error
}

// RootKey derives the cache's root key from a tree root node: the
// lowercase hex of its serialized form, digest || be16(sum).
func RootKey(root merkle.Node) string {
	const hexDigits = "0123456789abcdef"
	enc := root.Encode()
	buf := make([]byte, len(enc)*2)
	for i, b := range enc {
		buf[i*2] = hexDigits[b>>4]
		buf[i*2+1] = hexDigits[b&0x0f]
	}
	return string(buf)
}
