package merkle

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func randomNode(sum int64) Node {
	var data [32]byte
	_, _ = rand.Read(data[:]) // ignore error in test helper
	return Node{Data: data, Sum: big.NewInt(sum)}
}

func TestNew_Sizes(t *testing.T) {
	testCases := []struct {
		name     string
		numNodes int
	}{
		{"single leaf", 1},
		{"two leaves", 2},
		{"three leaves (odd)", 3},
		{"four leaves (power of 2)", 4},
		{"seven leaves", 7},
		{"eight leaves (power of 2)", 8},
		{"fifteen leaves", 15},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			leaves := make([]Node, tc.numNodes)
			for i := range leaves {
				leaves[i] = randomNode(int64(i + 1))
			}

			tree, err := New(leaves)
			require.NoError(t, err)
			require.NotNil(t, tree)
			require.Equal(t, tc.numNodes, tree.NumLeaves())

			for i := 0; i < tc.numNodes; i++ {
				proof, err := tree.SiblingProof(i)
				require.NoError(t, err)
				require.Len(t, proof, len(tree.Levels())-1)

				computed := leaves[i]
				idx := i
				for _, sibling := range proof {
					var err error
					if idx%2 == 0 {
						computed, err = Parent(computed, sibling)
					} else {
						computed, err = Parent(sibling, computed)
					}
					require.NoError(t, err)
					idx /= 2
				}

				require.True(t, computed.Equal(tree.Root()), "leaf %d should reconstruct the root", i)
			}
		})
	}
}

func TestNew_Empty(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, ErrEmptyTree)
}

func TestParent_SumAndDigest(t *testing.T) {
	l := randomNode(10)
	r := randomNode(20)

	p, err := Parent(l, r)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(30), p.Sum)

	// Changing either child changes the parent digest.
	r2 := r
	r2.Sum = big.NewInt(21)
	p2, err := Parent(l, r2)
	require.NoError(t, err)
	require.NotEqual(t, p.Data, p2.Data)
}

func TestParent_SumOverflow(t *testing.T) {
	l := Node{Sum: new(big.Int).Set(maxSum)}
	r := Node{Sum: big.NewInt(1)}

	_, err := Parent(l, r)
	require.ErrorIs(t, err, ErrSumOverflow)
}

func TestOddLevelPadding(t *testing.T) {
	leaves := []Node{randomNode(1), randomNode(2), randomNode(3)}
	tree, err := New(leaves)
	require.NoError(t, err)

	// Level 0 has 3 leaves; internally padded to 4 for combination, but
	// NumLeaves still reports the logical leaf count.
	require.Equal(t, 3, tree.NumLeaves())

	proof, err := tree.SiblingProof(2)
	require.NoError(t, err)
	require.True(t, proof[0].Equal(EmptyLeaf()), "leaf 2's sibling at level 0 should be the padding leaf")
}

func TestEncodeDecodeSumRoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, 255, 65536, 1<<62 - 1} {
		n := Node{Sum: big.NewInt(v)}
		encoded := n.Encode()
		require.Len(t, encoded, EncodedNodeSize)
		require.Equal(t, 0, big.NewInt(v).Cmp(decodeSum(encoded[NodeDataSize:])))
	}
}
