// Package memory is an in-memory proofcache.Cache, intended for tests
// and single-process deployments. All data is lost on restart.
package memory

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/Layr-Labs/plasma-mst-go/pkg/merkle"
)

// Cache is a thread-safe in-memory implementation of proofcache.Cache.
type Cache struct {
	mu      sync.RWMutex
	entries map[string][]merkle.Node
	closed  bool
}

// New creates an empty in-memory proof cache.
func New() *Cache {
	return &Cache{entries: make(map[string][]merkle.Node)}
}

func cacheKey(rootKey string, leafIndex int) string {
	return fmt.Sprintf("%s:%d", rootKey, leafIndex)
}

// cloneProof copies each element by value and, since Node.Sum is a
// *big.Int pointer, clones the pointee too — a shallow append(...,
// proof...) would still let a caller's later n.Sum.SetInt64(...) (or
// the cache's own stored entry) mutate the other side's view of the
// same proof.
func cloneProof(proof []merkle.Node) []merkle.Node {
	out := make([]merkle.Node, len(proof))
	for i, n := range proof {
		out[i] = merkle.Node{Data: n.Data, Sum: new(big.Int).Set(n.Sum)}
	}
	return out
}

// Get returns a deep copy of the cached proof, if present.
func (c *Cache) Get(rootKey string, leafIndex int) ([]merkle.Node, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, false, fmt.Errorf("proofcache: cache is closed")
	}

	proof, ok := c.entries[cacheKey(rootKey, leafIndex)]
	if !ok {
		return nil, false, nil
	}
	return cloneProof(proof), true, nil
}

// Put stores a deep copy of proof, preventing later caller mutation
// from leaking into the cache.
func (c *Cache) Put(rootKey string, leafIndex int, proof []merkle.Node) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("proofcache: cache is closed")
	}

	c.entries[cacheKey(rootKey, leafIndex)] = cloneProof(proof)
	return nil
}

// Close marks the cache closed; subsequent operations fail.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// HealthCheck reports whether the cache is still open.
func (c *Cache) HealthCheck() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return fmt.Errorf("proofcache: cache is closed")
	}
	return nil
}
