package ledgerapi

// Address is an opaque wallet or key-hash identifier. The validator only ever
// compares addresses for equality; their format belongs to the host ledger.
type Address string

// AssetID identifies one asset class: a minting-policy (currency) identifier
// plus an asset name under that policy.
type AssetID struct {
	PolicyID string `cbor:"policy_id" json:"policy_id"`
	Name     string `cbor:"name" json:"name"`
}

// AssetQuantity is one entry in an output's value breakdown: a quantity of a
// single asset class.
type AssetQuantity struct {
	Asset    AssetID `cbor:"asset" json:"asset"`
	Quantity uint64  `cbor:"quantity" json:"quantity"`
}

// Value is the full value carried by one transaction output: an amount of the
// ledger's native currency in base units, plus any asset units.
type Value struct {
	Coin   uint64          `cbor:"coin" json:"coin"`
	Assets []AssetQuantity `cbor:"assets,omitempty" json:"assets,omitempty"`
}

// QuantityOf returns the total quantity of the given asset in this value.
func (v Value) QuantityOf(id AssetID) uint64 {
	var total uint64
	for _, aq := range v.Assets {
		if aq.Asset == id {
			total += aq.Quantity
		}
	}
	return total
}

// TxOut is one output of the candidate transaction.
type TxOut struct {
	// Recipient is the identity the output pays to.
	Recipient Address `cbor:"recipient" json:"recipient"`

	// Value is the output's value breakdown.
	Value Value `cbor:"value" json:"value"`

	// Datum is the state blob attached to the output, if any.
	Datum []byte `cbor:"datum,omitempty" json:"datum,omitempty"`

	// Continuing marks an output that re-locks value under the same contract
	// instance. The host ledger determines this by comparing script addresses;
	// the validator trusts the marking.
	Continuing bool `cbor:"continuing,omitempty" json:"continuing,omitempty"`
}

// TxContext is the ledger-supplied view of one candidate transaction. It is
// ground truth for a single hypothetical spend: the host has already verified
// signatures, script hashes, and input existence before handing it over, and
// the validator never re-derives that trust.
type TxContext struct {
	// ValidRange is the time window within which the ledger may include the
	// transaction. It stands in for "current time": if validation succeeds,
	// every instant in the range was an acceptable inclusion time.
	ValidRange Interval `cbor:"valid_range" json:"valid_range"`

	// Outputs are all outputs of the candidate transaction.
	Outputs []TxOut `cbor:"outputs" json:"outputs"`

	// InputDatum is the state blob attached to the contract input being spent.
	InputDatum []byte `cbor:"input_datum,omitempty" json:"input_datum,omitempty"`
}

// ContinuingOutputs returns the outputs that continue the contract instance.
func (tx TxContext) ContinuingOutputs() []TxOut {
	var outs []TxOut
	for _, out := range tx.Outputs {
		if out.Continuing {
			outs = append(outs, out)
		}
	}
	return outs
}
