// Package codec provides fixed-width encoders and decoders for the
// primitive field types used by the transaction schema: Ethereum-style
// addresses, unsigned integers of a declared byte width, and raw byte
// buffers. Every codec has a known, constant serialized length.
package codec

import "github.com/pkg/errors"

// DecodeError reports a failure to decode a field: short input, or a
// malformed sub-field.
type DecodeError struct {
	Field  string
	Reason string
}

func (e *DecodeError) Error() string {
	return "codec: decode " + e.Field + ": " + e.Reason
}

// ValidationError reports a semantically invalid field value, such as an
// address that fails Ethereum address rules.
type ValidationError struct {
	Field string
	Kind  string
}

func (e *ValidationError) Error() string {
	return "codec: validate " + e.Field + ": " + e.Kind
}

func newDecodeError(field, reason string) error {
	return errors.WithStack(&DecodeError{Field: field, Reason: reason})
}

func newValidationError(field, kind string) error {
	return errors.WithStack(&ValidationError{Field: field, Kind: kind})
}
