// Package badgercache is a disk-backed proofcache.Cache using Badger,
// for long-running services that want inclusion proofs to survive a
// restart instead of being recomputed from the tree.
package badgercache

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/Layr-Labs/plasma-mst-go/pkg/merkle"
	"github.com/Layr-Labs/plasma-mst-go/pkg/plasma"
	badgerdb "github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const keyPrefix = "proof:"

// Cache is a Badger-backed proofcache.Cache.
type Cache struct {
	db       *badgerdb.DB
	logger   *zap.Logger
	gcLimit  *rate.Limiter
	gcCancel context.CancelFunc
	gcWg     sync.WaitGroup
	mu       sync.RWMutex
	closed   bool
}

// New opens (or creates) a Badger database at dataPath and starts a
// background value-log GC loop, throttled to at most one reclaim per
// minute regardless of how often the ticker or a caller's explicit
// Reclaim triggers it.
func New(dataPath string, logger *zap.Logger) (*Cache, error) {
	absPath, err := filepath.Abs(dataPath)
	if err != nil {
		return nil, fmt.Errorf("proofcache/badgercache: resolve path: %w", err)
	}

	opts := badgerdb.DefaultOptions(absPath)
	opts.Logger = &badgerLoggerAdapter{logger: logger}
	opts.SyncWrites = true
	opts.CompactL0OnClose = true

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("proofcache/badgercache: open %s: %w", absPath, err)
	}

	c := &Cache{
		db:      db,
		logger:  logger,
		gcLimit: rate.NewLimiter(rate.Every(time.Minute), 1),
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.gcCancel = cancel
	c.gcWg.Add(1)
	go c.runGC(ctx)

	logger.Sugar().Infow("proof cache opened", "path", absPath)
	return c, nil
}

func cacheKey(rootKey string, leafIndex int) []byte {
	return []byte(fmt.Sprintf("%s%s:%d", keyPrefix, rootKey, leafIndex))
}

// Get returns the cached proof for (rootKey, leafIndex).
func (c *Cache) Get(rootKey string, leafIndex int) ([]merkle.Node, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, false, fmt.Errorf("proofcache/badgercache: cache is closed")
	}

	var data []byte
	err := c.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(cacheKey(rootKey, leafIndex))
		if err == badgerdb.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			data = append([]byte{}, val...)
			return nil
		})
	})
	if err != nil {
		return nil, false, fmt.Errorf("proofcache/badgercache: get: %w", err)
	}
	if data == nil {
		return nil, false, nil
	}

	proof, err := plasma.DecodeProof(data)
	if err != nil {
		return nil, false, fmt.Errorf("proofcache/badgercache: decode cached proof: %w", err)
	}
	return proof, true, nil
}

// Put stores proof under (rootKey, leafIndex).
func (c *Cache) Put(rootKey string, leafIndex int, proof []merkle.Node) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return fmt.Errorf("proofcache/badgercache: cache is closed")
	}

	data := plasma.EncodeProof(proof)
	return c.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(cacheKey(rootKey, leafIndex), data)
	})
}

// runGC ticks every five minutes and attempts a value-log reclaim, but
// the actual reclaim is gated by gcLimit so a burst of ticks (or a
// caller hammering Reclaim) never runs Badger's GC more than once a
// minute.
func (c *Cache) runGC(ctx context.Context) {
	defer c.gcWg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Reclaim()
		case <-ctx.Done():
			return
		}
	}
}

// Reclaim runs Badger's value-log garbage collection if the rate
// limiter allows it; otherwise it is a no-op. Safe to call from
// multiple goroutines or on a schedule external to the background loop.
func (c *Cache) Reclaim() {
	if !c.gcLimit.Allow() {
		return
	}
	if err := c.db.RunValueLogGC(0.5); err != nil && err != badgerdb.ErrNoRewrite {
		c.logger.Sugar().Warnw("proof cache GC error", "error", err)
	}
}

// Close stops the GC loop and closes the database. Idempotent.
func (c *Cache) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.gcCancel()
	c.gcWg.Wait()

	if err := c.db.Close(); err != nil {
		return fmt.Errorf("proofcache/badgercache: close: %w", err)
	}
	return nil
}

// HealthCheck verifies the database is reachable.
func (c *Cache) HealthCheck() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return fmt.Errorf("proofcache/badgercache: cache is closed")
	}
	return c.db.View(func(txn *badgerdb.Txn) error { return nil })
}
