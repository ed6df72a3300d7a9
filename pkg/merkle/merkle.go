// Package merkle implements a generic Merkle sum tree: a binary Merkle
// tree whose nodes additionally carry a sum, where a parent's sum is the
// sum of its children's sums and a parent's digest hashes the
// concatenation of its children's serialized (digest, sum) pairs.
//
// The tree is built eagerly from a leaf vector and is immutable once
// constructed; all levels are retained so proof generation never has to
// rebuild anything.
package merkle

import (
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// ErrEmptyTree is returned by New when given zero leaves.
var ErrEmptyTree = errors.New("merkle: cannot build a tree from zero leaves")

// ErrSumOverflow is returned when combining two nodes would produce a
// sum wider than 128 bits.
var ErrSumOverflow = errors.New("merkle: parent sum exceeds 128 bits")

// ErrIndexOutOfRange is returned by SiblingProof for an absent leaf.
var ErrIndexOutOfRange = errors.New("merkle: leaf index out of range")

// Tree is an immutable, eagerly-built Merkle sum tree.
type Tree struct {
	// levels[0] holds the leaves; levels[len-1] holds the single root
	// node. Stored levels are unpadded: the empty leaf appended to an
	// odd-sized level exists only while its parent level is computed.
	levels [][]Node
}

// New builds a Merkle sum tree bottom-up from leaves. Odd-sized levels
// are padded on the right with EmptyLeaf(). Returns ErrEmptyTree if
// leaves is empty, or ErrSumOverflow if any parent sum would exceed 128
// bits.
func New(leaves []Node) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, ErrEmptyTree
	}

	level := make([]Node, len(leaves))
	copy(level, leaves)

	levels := [][]Node{level}

	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, EmptyLeaf())
		}

		next := make([]Node, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			parent, err := Parent(level[i], level[i+1])
			if err != nil {
				return nil, err
			}
			next[i/2] = parent
		}

		levels = append(levels, next)
		level = next
	}

	return &Tree{levels: levels}, nil
}

// Parent combines two sibling nodes into their parent: the digest is
// keccak256(l.Encode() || r.Encode()) and the sum is the checked
// addition of the children's sums.
func Parent(l, r Node) (Node, error) {
	sum := new(big.Int).Add(l.Sum, r.Sum)
	if sum.Cmp(maxSum) > 0 {
		return Node{}, ErrSumOverflow
	}

	buf := make([]byte, 0, 2*EncodedNodeSize)
	buf = append(buf, l.Encode()...)
	buf = append(buf, r.Encode()...)

	digest := crypto.Keccak256Hash(buf)
	return Node{Data: digest, Sum: sum}, nil
}

// Levels returns all tree levels, levels[0] being the (unpadded) leaves
// and levels[len-1] the single root.
func (t *Tree) Levels() [][]Node {
	return t.levels
}

// NumLeaves returns the number of leaves the tree was built from,
// excluding any padding added internally at the leaf level.
func (t *Tree) NumLeaves() int {
	return len(t.levels[0])
}

// Root returns the sole node at the top level.
func (t *Tree) Root() Node {
	top := t.levels[len(t.levels)-1]
	return top[0]
}

// SiblingProof returns the sibling nodes walking from the leaf at index
// up to (but not including) the root. A missing sibling caused by
// odd-row padding is materialized as EmptyLeaf().
func (t *Tree) SiblingProof(index int) ([]Node, error) {
	if index < 0 || index >= t.NumLeaves() {
		return nil, ErrIndexOutOfRange
	}

	proof := make([]Node, 0, len(t.levels)-1)
	idx := index
	for level := 0; level < len(t.levels)-1; level++ {
		row := t.levels[level]

		var siblingIdx int
		if idx%2 == 0 {
			siblingIdx = idx + 1
		} else {
			siblingIdx = idx - 1
		}

		if siblingIdx >= len(row) {
			proof = append(proof, EmptyLeaf())
		} else {
			proof = append(proof, row[siblingIdx])
		}

		idx /= 2
	}

	return proof, nil
}
