package codec

import (
	"fmt"
	"math/big"
)

// UInt is a non-negative integer that fits in a declared byte width,
// big-endian when serialized. Widths used by the schema: 4 (block
// numbers, indices), 12 or 16 (coin IDs), 32 (amounts, digests).
type UInt struct {
	Width int // serialized byte width
	Value *big.Int
}

// NewUInt constructs a UInt of the given width from a non-negative
// value, failing with a ValidationError if it does not fit.
func NewUInt(field string, width int, value *big.Int) (UInt, error) {
	u := UInt{Width: width, Value: value}
	if err := u.Validate(field); err != nil {
		return UInt{}, err
	}
	return u, nil
}

// max returns the largest value representable in Width bytes (2^(8*Width) - 1).
func (u UInt) max() *big.Int {
	return new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(8*u.Width)), big.NewInt(1))
}

// Validate fails if Value is nil, negative, or wider than Width bytes.
func (u UInt) Validate(field string) error {
	if u.Value == nil || u.Value.Sign() < 0 {
		return newValidationError(field, "negative_or_nil")
	}
	if u.Value.Cmp(u.max()) > 0 {
		return newValidationError(field, fmt.Sprintf("exceeds_uint%d", 8*u.Width))
	}
	return nil
}

// Encode serializes the value as Width bytes, big-endian.
func (u UInt) Encode() []byte {
	buf := make([]byte, u.Width)
	b := u.Value.Bytes()
	copy(buf[u.Width-len(b):], b)
	return buf
}

// DecodeUInt consumes width bytes from buf and returns the decoded
// value plus the remaining buffer.
func DecodeUInt(field string, width int, buf []byte) (UInt, []byte, error) {
	if len(buf) < width {
		return UInt{}, nil, newDecodeError(field, fmt.Sprintf("buffer shorter than %d bytes", width))
	}
	v := new(big.Int).SetBytes(buf[:width])
	return UInt{Width: width, Value: v}, buf[width:], nil
}

// CastUInt normalizes a numeric-ish input (string, int64, *big.Int) to a
// UInt of the given width.
func CastUInt(field string, width int, v interface{}) (UInt, error) {
	var value *big.Int

	switch x := v.(type) {
	case *big.Int:
		value = new(big.Int).Set(x)
	case int64:
		value = big.NewInt(x)
	case int:
		value = big.NewInt(int64(x))
	case uint64:
		value = new(big.Int).SetUint64(x)
	case string:
		parsed, ok := new(big.Int).SetString(x, 10)
		if !ok {
			return UInt{}, newValidationError(field, "not_an_integer")
		}
		value = parsed
	default:
		return UInt{}, newValidationError(field, "not_an_integer")
	}

	return NewUInt(field, width, value)
}
