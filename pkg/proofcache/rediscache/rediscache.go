// Package rediscache is a Redis-backed proofcache.Cache, for
// deployments that share one proof cache across multiple service
// instances.
package rediscache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Layr-Labs/plasma-mst-go/pkg/merkle"
	"github.com/Layr-Labs/plasma-mst-go/pkg/plasma"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "pmst:proof:"

// Config holds the Redis connection settings.
type Config struct {
	// Address is the Redis server address (host:port).
	Address string
	// Password is the optional Redis password.
	Password string
	// DB is the Redis database number.
	DB int
	// KeyPrefix is an optional custom prefix prepended to every key,
	// for multi-tenant deployments sharing one Redis instance.
	KeyPrefix string
	// TTL is an optional expiration applied to every stored proof; zero
	// means entries never expire.
	TTL time.Duration
}

// Cache is a Redis-backed proofcache.Cache.
type Cache struct {
	client *redis.Client
	logger *zap.Logger
	prefix string
	ttl    time.Duration
	mu     sync.RWMutex
	closed bool
}

// New connects to Redis per cfg and verifies the connection with a
// Ping before returning.
func New(cfg *Config, logger *zap.Logger) (*Cache, error) {
	if cfg == nil {
		return nil, fmt.Errorf("proofcache/rediscache: config cannot be nil")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("proofcache/rediscache: address cannot be empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("proofcache/rediscache: connect to %s: %w", cfg.Address, err)
	}

	logger.Sugar().Infow("proof cache connected", "address", cfg.Address, "db", cfg.DB)

	return &Cache{client: client, logger: logger, prefix: cfg.KeyPrefix, ttl: cfg.TTL}, nil
}

func (c *Cache) cacheKey(rootKey string, leafIndex int) string {
	return fmt.Sprintf("%s%s%s:%d", c.prefix, keyPrefix, rootKey, leafIndex)
}

// Get returns the cached proof for (rootKey, leafIndex).
func (c *Cache) Get(rootKey string, leafIndex int) ([]merkle.Node, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, false, fmt.Errorf("proofcache/rediscache: cache is closed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	data, err := c.client.Get(ctx, c.cacheKey(rootKey, leafIndex)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("proofcache/rediscache: get: %w", err)
	}

	proof, err := plasma.DecodeProof(data)
	if err != nil {
		return nil, false, fmt.Errorf("proofcache/rediscache: decode cached proof: %w", err)
	}
	return proof, true, nil
}

// Put stores proof under (rootKey, leafIndex), applying the configured
// TTL if set.
func (c *Cache) Put(rootKey string, leafIndex int, proof []merkle.Node) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return fmt.Errorf("proofcache/rediscache: cache is closed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	data := plasma.EncodeProof(proof)
	if err := c.client.Set(ctx, c.cacheKey(rootKey, leafIndex), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("proofcache/rediscache: put: %w", err)
	}
	return nil
}

// Close shuts down the Redis client. Idempotent.
func (c *Cache) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	if err := c.client.Close(); err != nil {
		return fmt.Errorf("proofcache/rediscache: close: %w", err)
	}
	return nil
}

// HealthCheck pings the Redis server.
func (c *Cache) HealthCheck() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return fmt.Errorf("proofcache/rediscache: cache is closed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.client.Ping(ctx).Err()
}
