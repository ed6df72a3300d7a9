package merkle

import "math/big"

// NodeDataSize is the width of a Merkle node digest in bytes.
const NodeDataSize = 32

// NodeSumSize is the width of a Merkle node's serialized sum in bytes
// (an unsigned integer of up to 128 bits, big-endian).
const NodeSumSize = 16

// EncodedNodeSize is the serialized width of a Node: digest || sum.
const EncodedNodeSize = NodeDataSize + NodeSumSize

// maxSum is the largest value a Node.Sum may hold (2^128 - 1).
var maxSum = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 8*NodeSumSize), big.NewInt(1))

// Node is a Merkle sum tree node: a 32-byte digest paired with an
// unsigned sum of up to 128 bits. Nodes are immutable once created.
type Node struct {
	Data [32]byte
	Sum  *big.Int
}

// EmptyLeaf returns the sentinel node used to pad odd-sized levels:
// a zero digest with a zero sum.
func EmptyLeaf() Node {
	return Node{Data: [32]byte{}, Sum: big.NewInt(0)}
}

// Encode serializes the node as data || big-endian(sum, 16).
func (n Node) Encode() []byte {
	out := make([]byte, 0, EncodedNodeSize)
	out = append(out, n.Data[:]...)
	out = append(out, encodeSum(n.Sum)...)
	return out
}

// Equal reports whether two nodes carry the same digest and sum.
func (n Node) Equal(o Node) bool {
	if n.Data != o.Data {
		return false
	}
	if (n.Sum == nil) != (o.Sum == nil) {
		return false
	}
	if n.Sum == nil {
		return true
	}
	return n.Sum.Cmp(o.Sum) == 0
}

// encodeSum big-endian encodes s into a fixed NodeSumSize-byte buffer.
// Panics if s is negative or wider than NodeSumSize bytes; both are
// construction-time programmer errors, since every Sum on a Node is
// produced by checked addition before it ever reaches here.
func encodeSum(s *big.Int) []byte {
	buf := make([]byte, NodeSumSize)
	if s == nil {
		return buf
	}
	if s.Sign() < 0 {
		panic("merkle: negative sum")
	}
	b := s.Bytes()
	if len(b) > NodeSumSize {
		panic("merkle: sum exceeds 128 bits")
	}
	copy(buf[NodeSumSize-len(b):], b)
	return buf
}

// decodeSum parses a fixed NodeSumSize-byte big-endian buffer into a sum.
func decodeSum(buf []byte) *big.Int {
	return new(big.Int).SetBytes(buf)
}
