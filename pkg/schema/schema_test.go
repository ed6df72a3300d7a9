package schema

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/Layr-Labs/plasma-mst-go/pkg/codec"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func personSchema() *Schema {
	return New(
		Field{Name: "owner", Codec: AddressField{}},
		Field{Name: "amount", Codec: UIntField{Width: 4}},
	)
}

func TestSchemaEncodeDecodeRoundTrip(t *testing.T) {
	s := personSchema()

	raw := map[string]interface{}{
		"owner":  "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		"amount": "1000",
	}

	record, err := s.Cast(raw)
	require.NoError(t, err)
	require.NoError(t, s.Validate(record))

	encoded, err := s.Encode(record)
	require.NoError(t, err)
	require.Len(t, encoded, 20+4)

	decoded, err := s.Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, record["owner"], decoded["owner"])
}

func TestSchemaDecode_HexInput(t *testing.T) {
	s := personSchema()
	record, err := s.Cast(map[string]interface{}{
		"owner":  "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
		"amount": "42",
	})
	require.NoError(t, err)

	encoded, err := s.Encode(record)
	require.NoError(t, err)

	hexStr := "0x" + hex.EncodeToString(encoded)
	decoded, err := s.Decode(hexStr)
	require.NoError(t, err)
	require.Equal(t, record["owner"], decoded["owner"])
}

func TestSchemaDecode_ShortBufferFails(t *testing.T) {
	s := personSchema()
	_, err := s.Decode(make([]byte, 10))
	require.Error(t, err)
}

func TestSchemaCast_InvalidAddress(t *testing.T) {
	s := personSchema()
	_, err := s.Cast(map[string]interface{}{
		"owner":  "not-an-address",
		"amount": "1",
	})
	require.Error(t, err)
}

func TestNestedListCodec(t *testing.T) {
	inner := personSchema()
	outer := New(
		Field{Name: "count", Codec: UIntField{Width: 4}},
		Field{Name: "people", Codec: ListField{CountWidth: 4, Elem: inner.AsCodec()}},
	)

	amount1, err := codec.NewUInt("amount", 4, big.NewInt(1))
	require.NoError(t, err)
	amount2, err := codec.NewUInt("amount", 4, big.NewInt(2))
	require.NoError(t, err)
	count, err := codec.NewUInt("count", 4, big.NewInt(2))
	require.NoError(t, err)

	record := Record{
		"count": count,
		"people": []Record{
			{"owner": common.HexToAddress("0x1111111111111111111111111111111111111111"), "amount": amount1},
			{"owner": common.HexToAddress("0x2222222222222222222222222222222222222222"), "amount": amount2},
		},
	}

	encoded, err := outer.Encode(record)
	require.NoError(t, err)

	decoded, err := outer.Decode(encoded)
	require.NoError(t, err)
	people := decoded["people"].([]Record)
	require.Len(t, people, 2)
	require.Equal(t, common.HexToAddress("0x1111111111111111111111111111111111111111"), people[0]["owner"])
}

// TestListDecode_OversizedCountRejectedWithoutHugeAlloc pins down that a
// count prefix the remaining buffer cannot possibly back is rejected as
// a DecodeError instead of driving an allocation sized off the raw wire
// value. personSchema's element is 24 bytes (20-byte address + 4-byte
// uint), so a count of 1 with only 4 bytes of payload left must fail at
// the count check, before any element storage is allocated.
func TestListDecode_OversizedCountRejectedWithoutHugeAlloc(t *testing.T) {
	outer := New(
		Field{Name: "people", Codec: ListField{CountWidth: 4, Elem: personSchema().AsCodec()}},
	)

	buf := []byte{0x00, 0x00, 0x00, 0x01, 0xff, 0xff, 0xff, 0xff}
	_, err := outer.Decode(buf)
	require.Error(t, err)
	require.IsType(t, &codec.DecodeError{}, err)
}

// TestListDecode_MaxUint32CountRejected covers the exact byte pattern
// from the report: a 4-byte count of 0xFFFFFFFF followed by a handful
// of trailing bytes must never reach make([]Record, 0, n).
func TestListDecode_MaxUint32CountRejected(t *testing.T) {
	outer := New(
		Field{Name: "people", Codec: ListField{CountWidth: 4, Elem: personSchema().AsCodec()}},
	)

	buf := []byte{0xff, 0xff, 0xff, 0xff, 0x01, 0x02, 0x03, 0x04}
	_, err := outer.Decode(buf)
	require.Error(t, err)
	require.IsType(t, &codec.DecodeError{}, err)
}

func TestModel_ReservedFieldNameRejected(t *testing.T) {
	bad := New(Field{Name: "hash", Codec: UIntField{Width: 4}})
	_, err := NewModelFromRaw(bad, map[string]interface{}{"hash": "1"})
	require.Error(t, err)
}

func TestModel_RoundTrip(t *testing.T) {
	s := personSchema()
	m, err := NewModelFromRaw(s, map[string]interface{}{
		"owner":  "0xcccccccccccccccccccccccccccccccccccccccc",
		"amount": "7",
	})
	require.NoError(t, err)
	require.Len(t, m.Encoded(), 24)

	m2, err := NewModelFromWire(s, m.Encoded())
	require.NoError(t, err)
	require.Equal(t, m.Hash(), m2.Hash())
}

// FuzzSchemaDecodeNeverPanics exercises the composite/list decode path
// (schema.Decode -> ListField.Decode) directly against arbitrary bytes.
func FuzzSchemaDecodeNeverPanics(f *testing.F) {
	outer := New(
		Field{Name: "count", Codec: UIntField{Width: 4}},
		Field{Name: "people", Codec: ListField{CountWidth: 4, Elem: personSchema().AsCodec()}},
	)

	f.Add([]byte{})
	f.Add([]byte{0, 0, 0, 1, 0, 0, 0, 1})
	f.Add([]byte{0, 0, 0, 0, 0xff, 0xff, 0xff, 0xff, 1, 2, 3, 4})
	f.Add([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff})

	f.Fuzz(func(t *testing.T, buf []byte) {
		_, _ = outer.Decode(buf)
	})
}
