// Package schema implements the bidirectional, deterministic, fixed-
// layout encoding rules used by the transaction codec. A Schema is built
// from an ordered list of (field name, Codec) pairs; encoding walks the
// fields in declared order with no separators and no length tags except
// where a field's own Codec is itself a length-prefixed list.
package schema

import (
	"fmt"

	"github.com/Layr-Labs/plasma-mst-go/pkg/codec"
)

// Codec is the behavior every field type (and every nested Schema) must
// provide: declared-order encode/decode, input normalization, and
// validation.
type Codec interface {
	// Encode serializes a normalized value.
	Encode(v interface{}) ([]byte, error)
	// Decode consumes this field's declared width (or a self-describing
	// prefix, for lists) from buf and returns the decoded value and the
	// remaining buffer.
	Decode(field string, buf []byte) (value interface{}, rest []byte, err error)
	// Cast normalizes a raw input (string, number, nested record) into
	// the value type this Codec encodes.
	Cast(field string, v interface{}) (interface{}, error)
	// Validate checks a normalized value for semantic well-formedness.
	Validate(field string, v interface{}) error
	// MinEncodedWidth returns the smallest number of bytes this Codec can
	// ever consume from Decode's input. A List field uses the element
	// Codec's MinEncodedWidth to bound an untrusted count prefix against
	// the remaining buffer before allocating element storage.
	MinEncodedWidth() int
}

// Field pairs a declared name with the Codec that encodes/decodes it.
type Field struct {
	Name  string
	Codec Codec
}

// Schema is an ordered set of fields describing a record's wire layout.
// AsCodec adapts a Schema to the Codec interface, so a List field can
// take another Schema as its element Codec — this is how List<T, ...>
// fields nest a composite element type.
type Schema struct {
	Fields []Field
}

// New builds a Schema from an ordered field list.
func New(fields ...Field) *Schema {
	return &Schema{Fields: fields}
}

// Record is a normalized, decoded instance of a Schema: each declared
// field name maps to its normalized Go value (common.Address, codec.UInt,
// []byte, or []Record for a nested list).
type Record map[string]interface{}

// Encode serializes record by walking Fields in declared order and
// concatenating each field's encoding. record must already be
// normalized (see Cast).
func (s *Schema) Encode(record Record) ([]byte, error) {
	out := make([]byte, 0, 64)
	for _, f := range s.Fields {
		v, ok := record[f.Name]
		if !ok {
			return nil, codecDecodeErr(f.Name, "missing field")
		}
		b, err := f.Codec.Encode(v)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

// Decode accepts raw bytes or a hex string (with or without "0x") and
// consumes the declared width of each field in order, failing with a
// *codec.DecodeError on short input or a malformed sub-field.
func (s *Schema) Decode(data interface{}) (Record, error) {
	buf, err := codec.BytesFromHexOrRaw(data)
	if err != nil {
		return nil, err
	}

	record := make(Record, len(s.Fields))
	for _, f := range s.Fields {
		v, rest, err := f.Codec.Decode(f.Name, buf)
		if err != nil {
			return nil, err
		}
		record[f.Name] = v
		buf = rest
	}
	return record, nil
}

// Cast normalizes raw field inputs (e.g. big-integer from string/number,
// address lowercased) into a fully-typed Record.
func (s *Schema) Cast(raw map[string]interface{}) (Record, error) {
	record := make(Record, len(s.Fields))
	for _, f := range s.Fields {
		raw, ok := raw[f.Name]
		if !ok {
			return nil, codecValidationErr(f.Name, "missing_field")
		}
		v, err := f.Codec.Cast(f.Name, raw)
		if err != nil {
			return nil, err
		}
		record[f.Name] = v
	}
	return record, nil
}

// Validate runs each field's validator against a normalized Record.
func (s *Schema) Validate(record Record) error {
	for _, f := range s.Fields {
		v, ok := record[f.Name]
		if !ok {
			return codecValidationErr(f.Name, "missing_field")
		}
		if err := f.Codec.Validate(f.Name, v); err != nil {
			return err
		}
	}
	return nil
}

// ---- Schema as a nested Codec (for List<Schema, countField> fields) ----

// encodeAsCodec asserts v to a Record and encodes it; asCodec.Encode
// delegates here.
func (s *Schema) encodeAsCodec(v interface{}) ([]byte, error) {
	record, ok := v.(Record)
	if !ok {
		return nil, fmt.Errorf("schema: expected Record, got %T", v)
	}
	return s.Encode(record)
}

// asCodec adapts a *Schema to the Codec interface for nesting inside a
// List field.
type asCodec struct{ *Schema }

func (a asCodec) Encode(v interface{}) ([]byte, error) { return a.encodeAsCodec(v) }

func (a asCodec) Decode(field string, buf []byte) (interface{}, []byte, error) {
	record := make(Record, len(a.Fields))
	for _, f := range a.Fields {
		v, rest, err := f.Codec.Decode(f.Name, buf)
		if err != nil {
			return nil, nil, err
		}
		record[f.Name] = v
		buf = rest
	}
	return record, buf, nil
}

func (a asCodec) Cast(field string, v interface{}) (interface{}, error) {
	raw, ok := v.(map[string]interface{})
	if !ok {
		return nil, codecValidationErr(field, "expected_object")
	}
	return a.Schema.Cast(raw)
}

func (a asCodec) Validate(field string, v interface{}) error {
	record, ok := v.(Record)
	if !ok {
		return codecValidationErr(field, "expected_record")
	}
	return a.Schema.Validate(record)
}

// MinEncodedWidth is the sum of every field's minimum width, since a
// Schema's Decode consumes each field unconditionally in order.
func (a asCodec) MinEncodedWidth() int {
	n := 0
	for _, f := range a.Fields {
		n += f.Codec.MinEncodedWidth()
	}
	return n
}

// AsCodec exposes s for use as the element Codec of a List field.
func (s *Schema) AsCodec() Codec { return asCodec{s} }

func codecDecodeErr(field, reason string) error {
	return &codec.DecodeError{Field: field, Reason: reason}
}

func codecValidationErr(field, kind string) error {
	return &codec.ValidationError{Field: field, Kind: kind}
}
