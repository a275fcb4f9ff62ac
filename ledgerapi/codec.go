package ledgerapi

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// EncodeTxContext serializes a transaction context to its CBOR wire form.
func EncodeTxContext(tx TxContext) ([]byte, error) {
	data, err := cbor.Marshal(tx)
	if err != nil {
		return nil, fmt.Errorf("encode transaction context: %w", err)
	}
	return data, nil
}

// DecodeTxContext parses a CBOR-encoded transaction context blob.
func DecodeTxContext(blob []byte) (TxContext, error) {
	if len(blob) == 0 {
		return TxContext{}, fmt.Errorf("empty transaction context blob")
	}
	var tx TxContext
	if err := cbor.Unmarshal(blob, &tx); err != nil {
		return TxContext{}, fmt.Errorf("parse transaction context: %w", err)
	}
	return tx, nil
}
