// Package plasmaconst holds the protocol-wide constants the PMST must
// agree on bit-exactly with the surrounding plasma chain: the coin ID
// space bounds and the fixed field widths used throughout the
// transaction schema. The table is immutable and compile-time. pkg/codec
// and pkg/merkle declare their own width constants (AddressSize,
// NodeDataSize, NodeSumSize) with the same values.
package plasmaconst

import "math/big"

// Field widths, in bytes, used by the transaction schema (§3 of the
// specification this module implements).
const (
	BlockWidth   = 4  // block numbers, transfer/token indices
	CoinIDWidth  = 12 // coin IDs (start, end)
	SumWidth     = 16 // Merkle sum-tree node sums
	AddressWidth = 20 // Ethereum-style addresses
	DigestWidth  = 32 // keccak256 digests, amounts
)

// MinCoinID is the lower (inclusive) bound of the coin ID space.
var MinCoinID = big.NewInt(0)

// MaxCoinID is the upper (exclusive-by-convention, see CoinSpaceSize) bound
// of the coin ID space: the largest coin ID that the protocol's 128-bit
// sum field can represent, fixed here at 2^128 - 1 so that the full coin
// space exactly saturates a Merkle sum tree's root sum.
var MaxCoinID = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 8*SumWidth), big.NewInt(1))

// CoinSpaceSize returns MaxCoinID - MinCoinID, the total size of the coin
// ID space that a fully-covering tree's leaf sums must add up to.
func CoinSpaceSize() *big.Int {
	return new(big.Int).Sub(MaxCoinID, MinCoinID)
}
