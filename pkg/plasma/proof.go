package plasma

import (
	"math/big"

	"github.com/Layr-Labs/plasma-mst-go/pkg/codec"
	"github.com/Layr-Labs/plasma-mst-go/pkg/merkle"
)

// EncodeProof concatenates proof's elements into the wire format: each
// element is digest(32) || sum_big_endian(16), the first being the
// synthetic (0x00...00, leafSum) entry.
func EncodeProof(proof []merkle.Node) []byte {
	out := make([]byte, 0, len(proof)*merkle.EncodedNodeSize)
	for _, n := range proof {
		out = append(out, n.Encode()...)
	}
	return out
}

// DecodeProof accepts raw bytes or a hex string (with or without "0x")
// and splits it into 48-byte elements, decoding each into a merkle.Node.
func DecodeProof(data interface{}) ([]merkle.Node, error) {
	buf, err := codec.BytesFromHexOrRaw(data)
	if err != nil {
		return nil, err
	}
	if len(buf)%merkle.EncodedNodeSize != 0 {
		return nil, &codec.DecodeError{Field: "proof", Reason: "length not a multiple of 48 bytes"}
	}

	n := len(buf) / merkle.EncodedNodeSize
	proof := make([]merkle.Node, n)
	for i := 0; i < n; i++ {
		chunk := buf[i*merkle.EncodedNodeSize : (i+1)*merkle.EncodedNodeSize]
		var data [merkle.NodeDataSize]byte
		copy(data[:], chunk[:merkle.NodeDataSize])
		proof[i] = merkle.Node{
			Data: data,
			Sum:  new(big.Int).SetBytes(chunk[merkle.NodeDataSize:]),
		}
	}
	return proof, nil
}
