package plasma

import (
	"github.com/Layr-Labs/plasma-mst-go/pkg/merkle"
	"github.com/Layr-Labs/plasma-mst-go/pkg/proofcache"
	"github.com/Layr-Labs/plasma-mst-go/pkg/txmodel"
	"github.com/pkg/errors"
)

// ErrIndexOutOfRange re-exports the underlying merkle package's error so
// callers never need to import pkg/merkle just to compare error values.
var ErrIndexOutOfRange = merkle.ErrIndexOutOfRange

// ErrEmptyTree re-exports merkle.ErrEmptyTree.
var ErrEmptyTree = merkle.ErrEmptyTree

// Tree is a Merkle sum tree over a block's transfers, ordered by coin-ID
// start. It wraps a generic merkle.Tree and retains the transaction/
// transfer each leaf was derived from, for inclusion-proof assembly.
type Tree struct {
	inner *merkle.Tree
	txs   []txmodel.Transaction
	refs  []LeafRef
}

// NewFromTransactions flattens txs' transfers into leaves ordered by
// start, sum-assigns them, and builds the underlying sum tree. Returns
// ErrEmptyTree for zero transfers, ErrOverlappingRanges for overlapping
// ranges, or a merkle.ErrSumOverflow if a parent sum would exceed 128
// bits.
func NewFromTransactions(txs []txmodel.Transaction) (*Tree, error) {
	leaves, refs, err := buildLeaves(txs)
	if err != nil {
		return nil, err
	}

	inner, err := merkle.New(leaves)
	if err != nil {
		return nil, err
	}

	return &Tree{inner: inner, txs: txs, refs: refs}, nil
}

// Root returns the tree's root node.
func (t *Tree) Root() merkle.Node {
	return t.inner.Root()
}

// NumLeaves returns the number of transfer leaves in the tree.
func (t *Tree) NumLeaves() int {
	return t.inner.NumLeaves()
}

// LeafRef returns the (transaction, transfer) pair that produced the
// leaf at index, for a caller assembling proof-verification arguments.
func (t *Tree) LeafRef(index int) (LeafRef, error) {
	if index < 0 || index >= len(t.refs) {
		return LeafRef{}, ErrIndexOutOfRange
	}
	return t.refs[index], nil
}

// Transaction returns the transaction that owns the leaf at index.
func (t *Tree) Transaction(index int) (txmodel.Transaction, error) {
	ref, err := t.LeafRef(index)
	if err != nil {
		return txmodel.Transaction{}, err
	}
	return t.txs[ref.TxIndex], nil
}

// GetInclusionProof returns the proof for the leaf at index: element 0
// is a synthetic node carrying the leaf's own sum (needed because the
// leaf hash alone does not reveal it), followed by the sibling nodes
// walking up to (but not including) the root.
func (t *Tree) GetInclusionProof(index int) ([]merkle.Node, error) {
	leaves := t.inner.Levels()[0]
	if index < 0 || index >= len(leaves) {
		return nil, ErrIndexOutOfRange
	}

	siblings, err := t.inner.SiblingProof(index)
	if err != nil {
		return nil, errors.Wrap(err, "plasma: sibling proof")
	}

	proof := make([]merkle.Node, 0, len(siblings)+1)
	proof = append(proof, merkle.Node{Data: [32]byte{}, Sum: leaves[index].Sum})
	proof = append(proof, siblings...)
	return proof, nil
}

// GetInclusionProofCached behaves exactly like GetInclusionProof, but
// first consults cache for (tree root, index) and, on a miss, populates
// it after recomputing. cache may be nil, in which case this is
// identical to GetInclusionProof. A cache read or write failure never
// surfaces to the caller: the tree is immutable and a proof is a pure
// function of (tree, index), so recomputation is always a safe
// fallback, and a failed write only costs the next caller a repeat
// computation.
func (t *Tree) GetInclusionProofCached(index int, cache proofcache.Cache) ([]merkle.Node, error) {
	if cache == nil {
		return t.GetInclusionProof(index)
	}

	if index < 0 || index >= len(t.inner.Levels()[0]) {
		return nil, ErrIndexOutOfRange
	}

	rootKey := proofcache.RootKey(t.Root())
	if cached, found, err := cache.Get(rootKey, index); err == nil && found {
		return cached, nil
	}

	proof, err := t.GetInclusionProof(index)
	if err != nil {
		return nil, err
	}

	_ = cache.Put(rootKey, index, proof)
	return proof, nil
}
