package txmodel

import (
	"math/big"

	"github.com/Layr-Labs/plasma-mst-go/pkg/codec"
	"github.com/Layr-Labs/plasma-mst-go/pkg/plasmaconst"
	"github.com/Layr-Labs/plasma-mst-go/pkg/schema"
	"github.com/ethereum/go-ethereum/crypto"
)

// TransactionSchema describes a Transaction's wire layout: block (4) ||
// count(4) || transfers... . No padding, no framing beyond the
// transfer-count prefix the list field supplies itself.
var TransactionSchema = schema.New(
	schema.Field{Name: "block", Codec: schema.UIntField{Width: plasmaconst.BlockWidth}},
	schema.Field{Name: "transfers", Codec: schema.ListField{
		CountWidth: plasmaconst.BlockWidth,
		Elem:       TransferSchema.AsCodec(),
	}},
)

// Transaction bundles one or more transfers under a single block number.
// Encode returns the canonical byte string per TransactionSchema and
// Hash returns keccak256 of it; both are recomputed on every call, not
// stored on the struct.
type Transaction struct {
	Block     *big.Int
	Transfers []Transfer
}

// ToRecord converts a Transaction to its normalized schema.Record form.
func (tx Transaction) ToRecord() (schema.Record, error) {
	block, err := codec.NewUInt("block", plasmaconst.BlockWidth, tx.Block)
	if err != nil {
		return nil, err
	}

	transferRecords := make([]schema.Record, len(tx.Transfers))
	for i, tr := range tx.Transfers {
		if err := tr.Validate(); err != nil {
			return nil, err
		}
		record, err := tr.ToRecord()
		if err != nil {
			return nil, err
		}
		transferRecords[i] = record
	}

	return schema.Record{
		"block":     block,
		"transfers": transferRecords,
	}, nil
}

// Encode serializes tx per TransactionSchema.
func (tx Transaction) Encode() ([]byte, error) {
	record, err := tx.ToRecord()
	if err != nil {
		return nil, err
	}
	return TransactionSchema.Encode(record)
}

// Hash returns keccak256(Encode()).
func (tx Transaction) Hash() ([32]byte, error) {
	encoded, err := tx.Encode()
	if err != nil {
		return [32]byte{}, err
	}
	return crypto.Keccak256Hash(encoded), nil
}

// DecodeTransaction accepts raw bytes or a hex string and decodes it
// into a Transaction per TransactionSchema.
func DecodeTransaction(data interface{}) (Transaction, error) {
	record, err := TransactionSchema.Decode(data)
	if err != nil {
		return Transaction{}, err
	}

	block, _ := record["block"].(codec.UInt)
	transferRecords, _ := record["transfers"].([]schema.Record)

	transfers := make([]Transfer, len(transferRecords))
	for i, tr := range transferRecords {
		transfer, err := TransferFromRecord(tr)
		if err != nil {
			return Transaction{}, err
		}
		transfers[i] = transfer
	}

	return Transaction{Block: block.Value, Transfers: transfers}, nil
}

// FromJSON casts and validates a raw JSON-decoded transaction (block
// number, plus a list of transfer objects each with sender, recipient,
// token, start, end) into a Transaction.
func FromJSON(raw map[string]interface{}) (Transaction, error) {
	record, err := TransactionSchema.Cast(raw)
	if err != nil {
		return Transaction{}, err
	}
	if err := TransactionSchema.Validate(record); err != nil {
		return Transaction{}, err
	}

	transferRecords, _ := record["transfers"].([]schema.Record)
	transfers := make([]Transfer, len(transferRecords))
	for i, tr := range transferRecords {
		transfer, err := TransferFromRecord(tr)
		if err != nil {
			return Transaction{}, err
		}
		transfers[i] = transfer
	}

	block, _ := record["block"].(codec.UInt)
	return Transaction{Block: block.Value, Transfers: transfers}, nil
}
