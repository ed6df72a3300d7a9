package codec

import "encoding/hex"

// BytesFromHexOrRaw accepts either a hex string (with or without a "0x"
// prefix) or an already-decoded byte slice, and returns raw bytes.
// Matches the reference wire convention: callers that pass hex must
// have any "0x" prefix stripped before hashing.
func BytesFromHexOrRaw(v interface{}) ([]byte, error) {
	switch x := v.(type) {
	case []byte:
		return x, nil
	case string:
		s := x
		if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
			s = s[2:]
		}
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, newDecodeError("hex", err.Error())
		}
		return b, nil
	default:
		return nil, newDecodeError("hex", "expected string or []byte")
	}
}
