package codec

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// AddressSize is the fixed serialized width of an Ethereum address.
const AddressSize = 20

// EncodeAddress serializes an address to its 20 raw bytes.
func EncodeAddress(addr common.Address) []byte {
	b := make([]byte, AddressSize)
	copy(b, addr.Bytes())
	return b
}

// DecodeAddress consumes AddressSize bytes from buf and returns the
// decoded address plus the remaining buffer. field names the record
// field being decoded, for DecodeError context.
func DecodeAddress(field string, buf []byte) (common.Address, []byte, error) {
	if len(buf) < AddressSize {
		return common.Address{}, nil, newDecodeError(field, "buffer shorter than 20 bytes")
	}
	return common.BytesToAddress(buf[:AddressSize]), buf[AddressSize:], nil
}

// ParseAddress accepts a hex string (with or without a "0x" prefix) and
// returns the decoded address, normalizing case per CastAddress.
func ParseAddress(field, hexStr string) (common.Address, error) {
	trimmed := strings.TrimPrefix(hexStr, "0x")
	if !common.IsHexAddress(trimmed) {
		return common.Address{}, newValidationError(field, "invalid_address")
	}
	return common.HexToAddress(trimmed), nil
}

// ValidateAddress fails with a ValidationError{kind: "invalid_address"}
// if s is not a well-formed Ethereum address in hex form (with or
// without a "0x" prefix). schema.Validate runs it on the hex form of an
// already-cast address; a raw address string is checked at cast time by
// ParseAddress.
func ValidateAddress(field, s string) error {
	if !common.IsHexAddress(strings.TrimPrefix(s, "0x")) {
		return newValidationError(field, "invalid_address")
	}
	return nil
}

// CastAddress normalizes an address-like input (hex string or
// common.Address) to its canonical common.Address form.
func CastAddress(v interface{}) (common.Address, error) {
	switch x := v.(type) {
	case common.Address:
		return x, nil
	case string:
		return ParseAddress("address", x)
	default:
		return common.Address{}, newValidationError("address", "invalid_address")
	}
}
