package schema

import (
	"github.com/ethereum/go-ethereum/crypto"
)

// reservedFieldNames lists identifiers a Schema may never declare as a
// field, since they would shadow the Model binding's own handles.
var reservedFieldNames = map[string]bool{
	"schema":  true,
	"encoded": true,
	"decoded": true,
	"hash":    true,
}

// Model is a thin binding of a Schema to one record instance: it
// normalizes whatever the caller passed in (a raw record, hex, or raw
// bytes) via the schema and exposes the three derived views every
// consumer needs — Encoded, Decoded, Hash.
type Model struct {
	schema  *Schema
	encoded []byte
	decoded Record
}

// NewModelFromRaw builds a Model from an un-normalized field map,
// running Cast then Validate.
func NewModelFromRaw(s *Schema, raw map[string]interface{}) (*Model, error) {
	if err := checkReservedNames(s); err != nil {
		return nil, err
	}

	record, err := s.Cast(raw)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(record); err != nil {
		return nil, err
	}

	encoded, err := s.Encode(record)
	if err != nil {
		return nil, err
	}

	return &Model{schema: s, encoded: encoded, decoded: record}, nil
}

// NewModelFromWire builds a Model from raw bytes or a hex string,
// decoding it through the schema.
func NewModelFromWire(s *Schema, data interface{}) (*Model, error) {
	if err := checkReservedNames(s); err != nil {
		return nil, err
	}

	record, err := s.Decode(data)
	if err != nil {
		return nil, err
	}

	encoded, err := s.Encode(record)
	if err != nil {
		return nil, err
	}

	return &Model{schema: s, encoded: encoded, decoded: record}, nil
}

// Encoded returns the canonical encoded bytes.
func (m *Model) Encoded() []byte { return append([]byte{}, m.encoded...) }

// Decoded returns the normalized record.
func (m *Model) Decoded() Record { return m.decoded }

// Hash returns keccak256(Encoded()).
func (m *Model) Hash() [32]byte { return crypto.Keccak256Hash(m.encoded) }

func checkReservedNames(s *Schema) error {
	for _, f := range s.Fields {
		if reservedFieldNames[f.Name] {
			return codecValidationErr(f.Name, "reserved_field_name")
		}
	}
	return nil
}
