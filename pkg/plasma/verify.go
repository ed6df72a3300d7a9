package plasma

import (
	"math/big"

	"github.com/Layr-Labs/plasma-mst-go/pkg/merkle"
	"github.com/Layr-Labs/plasma-mst-go/pkg/txmodel"
	"github.com/ethereum/go-ethereum/crypto"
)

// Bounds is the result of CheckInclusionAndGetBounds: whether the proof
// verifies, and the implicit [ImplicitStart, ImplicitEnd) window the
// leaf's sum covers beyond its transfer's own explicit range.
type Bounds struct {
	Valid         bool
	ImplicitStart *big.Int
	ImplicitEnd   *big.Int
}

// pathBit returns the bit of leafIndex at the given tree level (0 =
// leaf level), matching the convention that a leaf's binary index,
// walked from LSB upward, tells the verifier which side its sibling
// sits on at each level.
func pathBit(leafIndex, level int) int {
	return (leafIndex >> uint(level)) & 1
}

// recompute walks proof[1:] up from the transaction's leaf hash,
// applying parent() in the order dictated by leafIndex's path bits, and
// accumulates the sums contributed by siblings on the left and on the
// right. It never returns an error: a sum overflow encountered while
// recomputing is itself proof that the input does not verify.
func recompute(leafIndex int, txEncoded []byte, proof []merkle.Node) (computed merkle.Node, leftSum, rightSum *big.Int, ok bool) {
	if len(proof) == 0 {
		return merkle.Node{}, nil, nil, false
	}

	computed = merkle.Node{Data: crypto.Keccak256Hash(txEncoded), Sum: proof[0].Sum}
	leftSum = big.NewInt(0)
	rightSum = big.NewInt(0)

	for i := 1; i < len(proof); i++ {
		bit := pathBit(leafIndex, i-1)
		var err error
		if bit == 0 {
			computed, err = merkle.Parent(computed, proof[i])
			rightSum = new(big.Int).Add(rightSum, proof[i].Sum)
		} else {
			computed, err = merkle.Parent(proof[i], computed)
			leftSum = new(big.Int).Add(leftSum, proof[i].Sum)
		}
		if err != nil {
			return merkle.Node{}, nil, nil, false
		}
	}

	return computed, leftSum, rightSum, true
}

// CheckInclusionAndGetBounds verifies that proof attests to transaction's
// transfer at transferIndex being included at leafIndex under root, and
// additionally returns the implicit [leftSum, computed.Sum - rightSum)
// window the leaf's sum covers. A malformed transferIndex or an
// unparseable proof simply yields Valid: false, never an error: the
// verifier does not throw.
func CheckInclusionAndGetBounds(leafIndex int, transaction txmodel.Transaction, transferIndex int, proof []merkle.Node, root merkle.Node) Bounds {
	if transferIndex < 0 || transferIndex >= len(transaction.Transfers) {
		return Bounds{Valid: false}
	}

	encoded, err := transaction.Encode()
	if err != nil {
		return Bounds{Valid: false}
	}

	computed, leftSum, rightSum, ok := recompute(leafIndex, encoded, proof)
	if !ok {
		return Bounds{Valid: false}
	}

	validRoot := computed.Equal(root)

	transfer := transaction.Transfers[transferIndex]
	implicitEnd := new(big.Int).Sub(computed.Sum, rightSum)
	validSum := transfer.Start.Cmp(leftSum) >= 0 && transfer.End.Cmp(implicitEnd) <= 0

	return Bounds{
		Valid:         validRoot && validSum,
		ImplicitStart: leftSum,
		ImplicitEnd:   implicitEnd,
	}
}

// CheckInclusion is CheckInclusionAndGetBounds without the bounds.
func CheckInclusion(leafIndex int, transaction txmodel.Transaction, transferIndex int, proof []merkle.Node, root merkle.Node) bool {
	return CheckInclusionAndGetBounds(leafIndex, transaction, transferIndex, proof, root).Valid
}

// Range is a half-open coin-ID interval [Start, End).
type Range struct {
	Start *big.Int
	End   *big.Int
}

// disjoint reports whether a and b share no coin IDs.
func disjoint(a, b Range) bool {
	return a.End.Cmp(b.Start) <= 0 || b.End.Cmp(a.Start) <= 0
}

// CheckNonInclusion verifies that rng lies within the implicit window of
// the transfer named by (leafIndex, transferIndex) but shares no coin
// IDs with that transfer's own explicit range — proving rng was covered
// by no transaction in the block.
func CheckNonInclusion(rng Range, leafIndex int, transaction txmodel.Transaction, transferIndex int, proof []merkle.Node, root merkle.Node) bool {
	if transferIndex < 0 || transferIndex >= len(transaction.Transfers) {
		return false
	}

	bounds := CheckInclusionAndGetBounds(leafIndex, transaction, transferIndex, proof, root)
	if !bounds.Valid {
		return false
	}

	if rng.Start.Cmp(bounds.ImplicitStart) < 0 || rng.End.Cmp(bounds.ImplicitEnd) > 0 {
		return false
	}

	transfer := transaction.Transfers[transferIndex]
	transferRange := Range{Start: transfer.Start, End: transfer.End}
	return disjoint(rng, transferRange)
}
