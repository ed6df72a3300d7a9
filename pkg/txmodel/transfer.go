// Package txmodel defines the Transfer and Transaction record types and
// the canonical byte encoding that binds them to the transaction schema
// (pkg/schema), so that a leaf hash is reproducible bit-for-bit by any
// implementation applying the same encoding rules.
package txmodel

import (
	"math/big"

	"github.com/Layr-Labs/plasma-mst-go/pkg/codec"
	"github.com/Layr-Labs/plasma-mst-go/pkg/plasmaconst"
	"github.com/Layr-Labs/plasma-mst-go/pkg/schema"
	"github.com/ethereum/go-ethereum/common"
)

// TransferSchema describes a Transfer's wire layout: sender (20) ||
// recipient (20) || token (4) || start (12) || end (12).
var TransferSchema = schema.New(
	schema.Field{Name: "sender", Codec: schema.AddressField{}},
	schema.Field{Name: "recipient", Codec: schema.AddressField{}},
	schema.Field{Name: "token", Codec: schema.UIntField{Width: plasmaconst.BlockWidth}},
	schema.Field{Name: "start", Codec: schema.UIntField{Width: plasmaconst.CoinIDWidth}},
	schema.Field{Name: "end", Codec: schema.UIntField{Width: plasmaconst.CoinIDWidth}},
)

// Transfer asserts that coin IDs [Start, End) moved from Sender to
// Recipient on the given Token.
type Transfer struct {
	Sender    common.Address
	Recipient common.Address
	Token     *big.Int
	Start     *big.Int
	End       *big.Int
}

// ToRecord converts a Transfer to its normalized schema.Record form.
func (t Transfer) ToRecord() (schema.Record, error) {
	token, err := codec.NewUInt("token", plasmaconst.BlockWidth, t.Token)
	if err != nil {
		return nil, err
	}
	start, err := codec.NewUInt("start", plasmaconst.CoinIDWidth, t.Start)
	if err != nil {
		return nil, err
	}
	end, err := codec.NewUInt("end", plasmaconst.CoinIDWidth, t.End)
	if err != nil {
		return nil, err
	}

	return schema.Record{
		"sender":    t.Sender,
		"recipient": t.Recipient,
		"token":     token,
		"start":     start,
		"end":       end,
	}, nil
}

// TransferFromRecord converts a decoded schema.Record back to a Transfer.
func TransferFromRecord(r schema.Record) (Transfer, error) {
	sender, _ := r["sender"].(common.Address)
	recipient, _ := r["recipient"].(common.Address)
	token, _ := r["token"].(codec.UInt)
	start, _ := r["start"].(codec.UInt)
	end, _ := r["end"].(codec.UInt)

	return Transfer{
		Sender:    sender,
		Recipient: recipient,
		Token:     token.Value,
		Start:     start.Value,
		End:       end.Value,
	}, nil
}

// Validate enforces the Transfer invariants: Start < End, and both lie
// within [MinCoinID, MaxCoinID].
func (t Transfer) Validate() error {
	if t.Start == nil || t.End == nil {
		return &codec.ValidationError{Field: "start/end", Kind: "missing"}
	}
	if t.Start.Cmp(t.End) >= 0 {
		return &codec.ValidationError{Field: "start", Kind: "start_not_before_end"}
	}
	if t.Start.Cmp(plasmaconst.MinCoinID) < 0 || t.End.Cmp(plasmaconst.MaxCoinID) > 0 {
		return &codec.ValidationError{Field: "start/end", Kind: "outside_coin_space"}
	}
	return nil
}

// EncodeTransfer serializes t per TransferSchema.
func EncodeTransfer(t Transfer) ([]byte, error) {
	record, err := t.ToRecord()
	if err != nil {
		return nil, err
	}
	return TransferSchema.Encode(record)
}
