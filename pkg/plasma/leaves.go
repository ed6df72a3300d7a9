// Package plasma specializes the generic Merkle sum tree (pkg/merkle)
// with the plasma chain's leaf parsing, inclusion proof format, and
// verifier: a leaf per transfer, ordered by coin-ID start, whose sums
// encode the implicit gaps between adjacent transfers.
package plasma

import (
	"math/big"
	"sort"

	"github.com/Layr-Labs/plasma-mst-go/pkg/merkle"
	"github.com/Layr-Labs/plasma-mst-go/pkg/plasmaconst"
	"github.com/Layr-Labs/plasma-mst-go/pkg/txmodel"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// ErrOverlappingRanges is returned when two transfers' [start, end)
// intervals overlap.
var ErrOverlappingRanges = errors.New("plasma: overlapping transfer ranges")

// leafEntry is one flattened (transfer, owning-transaction) pair prior
// to sum assignment.
type leafEntry struct {
	start     *big.Int
	end       *big.Int
	encoded   []byte
	txIndex   int
	transferN int
}

// LeafRef identifies, for a built tree's leaf i, which transaction and
// which transfer within it produced that leaf — the verifier needs both
// to re-derive the leaf hash and to look up the transfer's own bounds.
type LeafRef struct {
	TxIndex       int
	TransferIndex int
}

// flatten emits one leafEntry per transfer across all transactions,
// preserving the (txIndex, transferIndex) pair each came from.
func flatten(txs []txmodel.Transaction) ([]leafEntry, error) {
	entries := make([]leafEntry, 0, len(txs))
	for ti, tx := range txs {
		encoded, err := tx.Encode()
		if err != nil {
			return nil, err
		}
		for ni, tr := range tx.Transfers {
			entries = append(entries, leafEntry{
				start:     tr.Start,
				end:       tr.End,
				encoded:   encoded,
				txIndex:   ti,
				transferN: ni,
			})
		}
	}
	return entries, nil
}

// assignSums sorts entries by start and computes each leaf's sum per
// the leaf-parsing rules: the single-leaf case saturates the whole coin
// space, the first and last leaves extend to the coin-space bounds, and
// interior leaves take the gap to their right neighbor. Overlap between
// adjacent ranges after sorting is rejected.
func assignSums(entries []leafEntry) ([]*big.Int, error) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].start.Cmp(entries[j].start) < 0
	})

	n := len(entries)
	sums := make([]*big.Int, n)

	if n == 0 {
		return sums, nil
	}

	if n == 1 {
		sums[0] = new(big.Int).Set(plasmaconst.MaxCoinID)
		return sums, nil
	}

	for i := 0; i < n-1; i++ {
		if entries[i].end.Cmp(entries[i+1].start) > 0 {
			return nil, ErrOverlappingRanges
		}
	}

	sums[0] = new(big.Int).Sub(entries[1].start, plasmaconst.MinCoinID)
	for i := 1; i < n-1; i++ {
		sums[i] = new(big.Int).Sub(entries[i+1].start, entries[i].start)
	}
	sums[n-1] = new(big.Int).Sub(plasmaconst.MaxCoinID, entries[n-1].start)

	return sums, nil
}

// buildLeaves flattens, sorts, and sum-assigns txs' transfers, returning
// the ordered Merkle leaf nodes and the (txIndex, transferIndex) each
// corresponds to, in the same order.
func buildLeaves(txs []txmodel.Transaction) ([]merkle.Node, []LeafRef, error) {
	entries, err := flatten(txs)
	if err != nil {
		return nil, nil, err
	}

	sums, err := assignSums(entries)
	if err != nil {
		return nil, nil, err
	}

	nodes := make([]merkle.Node, len(entries))
	refs := make([]LeafRef, len(entries))
	for i, e := range entries {
		nodes[i] = merkle.Node{
			Data: crypto.Keccak256Hash(e.encoded),
			Sum:  sums[i],
		}
		refs[i] = LeafRef{TxIndex: e.txIndex, TransferIndex: e.transferN}
	}

	return nodes, refs, nil
}
