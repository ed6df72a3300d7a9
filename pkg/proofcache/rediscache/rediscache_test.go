package rediscache

import (
	"math/big"
	"os"
	"testing"

	"github.com/Layr-Labs/plasma-mst-go/pkg/logger"
	"github.com/Layr-Labs/plasma-mst-go/pkg/merkle"
	"github.com/Layr-Labs/plasma-mst-go/pkg/plasma"
	"github.com/Layr-Labs/plasma-mst-go/pkg/txmodel"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// getTestRedisAddress returns the Redis address for testing. Uses
// REDIS_TEST_ADDRESS if set, otherwise defaults to localhost:6379.
func getTestRedisAddress() string {
	if addr := os.Getenv("REDIS_TEST_ADDRESS"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

// requireCache skips the test if Redis is not available.
func requireCache(t *testing.T) *Cache {
	t.Helper()

	testLogger, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	cfg := &Config{
		Address: getTestRedisAddress(),
		DB:      15, // avoid colliding with non-test data
	}

	c, err := New(cfg, testLogger)
	if err != nil {
		t.Skipf("Redis not available at %s: %v", cfg.Address, err)
		return nil
	}
	return c
}

func sampleProof() []merkle.Node {
	return []merkle.Node{
		{Data: [32]byte{1}, Sum: big.NewInt(100)},
		{Data: [32]byte{2}, Sum: big.NewInt(200)},
	}
}

func TestRedisCache_PutAndGet(t *testing.T) {
	c := requireCache(t)
	defer func() { _ = c.Close() }()

	proof := sampleProof()
	require.NoError(t, c.Put("root-a", 0, proof))

	got, found, err := c.Get("root-a", 0)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, got, len(proof))
	for i := range proof {
		assert.True(t, proof[i].Equal(got[i]))
	}
}

func TestRedisCache_GetMiss(t *testing.T) {
	c := requireCache(t)
	defer func() { _ = c.Close() }()

	got, found, err := c.Get("absent-key", 0)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got)
}

// TestRedisCache_ProofTransparency mirrors the memory backend's cache-
// transparency check against a Redis-backed cache.
func TestRedisCache_ProofTransparency(t *testing.T) {
	c := requireCache(t)
	defer func() { _ = c.Close() }()

	txs := []txmodel.Transaction{
		{Block: big.NewInt(1), Transfers: []txmodel.Transfer{{
			Sender:    common.HexToAddress("0x1111111111111111111111111111111111111111"),
			Recipient: common.HexToAddress("0x2222222222222222222222222222222222222222"),
			Token:     big.NewInt(0), Start: big.NewInt(0), End: big.NewInt(50),
		}}},
		{Block: big.NewInt(2), Transfers: []txmodel.Transfer{{
			Sender:    common.HexToAddress("0x1111111111111111111111111111111111111111"),
			Recipient: common.HexToAddress("0x2222222222222222222222222222222222222222"),
			Token:     big.NewInt(0), Start: big.NewInt(50), End: big.NewInt(100),
		}}},
	}

	tree, err := plasma.NewFromTransactions(txs)
	require.NoError(t, err)

	uncached, err := tree.GetInclusionProof(0)
	require.NoError(t, err)

	miss, err := tree.GetInclusionProofCached(0, c)
	require.NoError(t, err)
	require.Len(t, miss, len(uncached))
	for i := range uncached {
		assert.True(t, uncached[i].Equal(miss[i]))
	}

	hit, err := tree.GetInclusionProofCached(0, c)
	require.NoError(t, err)
	require.Len(t, hit, len(uncached))
	for i := range uncached {
		assert.True(t, uncached[i].Equal(hit[i]))
	}
}

func TestRedisCache_HealthCheck(t *testing.T) {
	c := requireCache(t)
	defer func() { _ = c.Close() }()

	require.NoError(t, c.HealthCheck())
	require.NoError(t, c.Close())
	require.Error(t, c.HealthCheck())
}
