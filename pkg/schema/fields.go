package schema

import (
	"math/big"

	"github.com/Layr-Labs/plasma-mst-go/pkg/codec"
	"github.com/ethereum/go-ethereum/common"
)

// AddressField is a fixed 20-byte Ethereum address field.
type AddressField struct{}

func (AddressField) Encode(v interface{}) ([]byte, error) {
	addr, ok := v.(common.Address)
	if !ok {
		return nil, codecValidationErr("address", "expected_address")
	}
	return codec.EncodeAddress(addr), nil
}

func (AddressField) Decode(field string, buf []byte) (interface{}, []byte, error) {
	addr, rest, err := codec.DecodeAddress(field, buf)
	if err != nil {
		return nil, nil, err
	}
	return addr, rest, nil
}

func (AddressField) Cast(field string, v interface{}) (interface{}, error) {
	return codec.CastAddress(v)
}

func (AddressField) Validate(field string, v interface{}) error {
	addr, ok := v.(common.Address)
	if !ok {
		return codecValidationErr(field, "expected_address")
	}
	return codec.ValidateAddress(field, addr.Hex())
}

func (AddressField) MinEncodedWidth() int { return common.AddressLength }

// UIntField is a fixed-width big-endian unsigned integer field.
type UIntField struct{ Width int }

func (u UIntField) Encode(v interface{}) ([]byte, error) {
	val, ok := v.(codec.UInt)
	if !ok {
		return nil, codecValidationErr("uint", "expected_uint")
	}
	return val.Encode(), nil
}

func (u UIntField) Decode(field string, buf []byte) (interface{}, []byte, error) {
	val, rest, err := codec.DecodeUInt(field, u.Width, buf)
	if err != nil {
		return nil, nil, err
	}
	return val, rest, nil
}

func (u UIntField) Cast(field string, v interface{}) (interface{}, error) {
	return codec.CastUInt(field, u.Width, v)
}

func (u UIntField) Validate(field string, v interface{}) error {
	val, ok := v.(codec.UInt)
	if !ok {
		return codecValidationErr(field, "expected_uint")
	}
	return val.Validate(field)
}

func (u UIntField) MinEncodedWidth() int { return u.Width }

// BytesField is a fixed-width raw byte field.
type BytesField struct{ Width int }

func (b BytesField) Encode(v interface{}) ([]byte, error) {
	data, ok := v.([]byte)
	if !ok {
		return nil, codecValidationErr("bytes", "expected_bytes")
	}
	return codec.EncodeBytesFixed(b.Width, data), nil
}

func (b BytesField) Decode(field string, buf []byte) (interface{}, []byte, error) {
	data, rest, err := codec.DecodeBytesFixed(field, b.Width, buf)
	if err != nil {
		return nil, nil, err
	}
	return data, rest, nil
}

func (b BytesField) Cast(field string, v interface{}) (interface{}, error) {
	data, err := codec.BytesFromHexOrRaw(v)
	if err != nil {
		return nil, err
	}
	if len(data) > b.Width {
		return nil, codecValidationErr(field, "too_long")
	}
	return data, nil
}

func (b BytesField) Validate(field string, v interface{}) error {
	data, ok := v.([]byte)
	if !ok {
		return codecValidationErr(field, "expected_bytes")
	}
	if len(data) > b.Width {
		return codecValidationErr(field, "too_long")
	}
	return nil
}

func (b BytesField) MinEncodedWidth() int { return b.Width }

// ListField is a variable-length list of elements encoded with Elem,
// prefixed by its element count as a CountWidth-byte big-endian integer.
type ListField struct {
	CountWidth int
	Elem       Codec
}

func (l ListField) Encode(v interface{}) ([]byte, error) {
	items, ok := v.([]Record)
	if !ok {
		return nil, codecValidationErr("list", "expected_record_list")
	}

	count, err := codec.NewUInt("count", l.CountWidth, big.NewInt(int64(len(items))))
	if err != nil {
		return nil, err
	}

	out := append([]byte{}, count.Encode()...)
	for _, item := range items {
		b, err := l.Elem.Encode(item)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

func (l ListField) Decode(field string, buf []byte) (interface{}, []byte, error) {
	count, rest, err := codec.DecodeUInt(field+".count", l.CountWidth, buf)
	if err != nil {
		return nil, nil, err
	}

	// count is an untrusted wire value: a count.Value large enough to
	// overflow int, or merely large enough that count*minElemWidth
	// exceeds the bytes actually remaining, must fail with a DecodeError
	// rather than drive an attacker-controlled allocation the way a bare
	// make([]Record, 0, n) would.
	if !count.Value.IsInt64() {
		return nil, nil, codecDecodeErr(field+".count", "count exceeds int range")
	}
	n64 := count.Value.Int64()
	minElemWidth := l.Elem.MinEncodedWidth()
	if minElemWidth > 0 && n64 > int64(len(rest))/int64(minElemWidth) {
		return nil, nil, codecDecodeErr(field+".count", "count exceeds remaining buffer")
	}
	n := int(n64)

	items := make([]Record, 0, n)
	for i := 0; i < n; i++ {
		v, next, err := l.Elem.Decode(field, rest)
		if err != nil {
			return nil, nil, err
		}
		record, ok := v.(Record)
		if !ok {
			return nil, nil, codecDecodeErr(field, "list element is not a record")
		}
		items = append(items, record)
		rest = next
	}
	return items, rest, nil
}

func (l ListField) Cast(field string, v interface{}) (interface{}, error) {
	raws, ok := v.([]map[string]interface{})
	if !ok {
		return nil, codecValidationErr(field, "expected_object_list")
	}

	items := make([]Record, 0, len(raws))
	for _, raw := range raws {
		casted, err := l.Elem.Cast(field, raw)
		if err != nil {
			return nil, err
		}
		record, ok := casted.(Record)
		if !ok {
			return nil, codecValidationErr(field, "expected_record")
		}
		items = append(items, record)
	}
	return items, nil
}

func (l ListField) Validate(field string, v interface{}) error {
	items, ok := v.([]Record)
	if !ok {
		return codecValidationErr(field, "expected_record_list")
	}
	for _, item := range items {
		if err := l.Elem.Validate(field, item); err != nil {
			return err
		}
	}
	return nil
}

// MinEncodedWidth is the count prefix alone: an empty list is valid.
func (l ListField) MinEncodedWidth() int { return l.CountWidth }
