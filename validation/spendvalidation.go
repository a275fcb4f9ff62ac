package validation

import (
	"fmt"

	"github.com/cloudx-io/chainauction/core"
	"github.com/cloudx-io/chainauction/ledgerapi"
)

// SpendValidationResult is the outcome of validating one candidate
// transaction against an auction's rules.
type SpendValidationResult struct {
	Accepted bool              `json:"accepted"`
	Reason   core.RejectReason `json:"reason,omitempty"`
	Details  []string          `json:"details,omitempty"`
}

// IsValid reports the bare accept/reject verdict, for hosts that need a hard
// boolean rather than the reason taxonomy.
func (r *SpendValidationResult) IsValid() bool {
	return r.Accepted
}

// ValidateSpend decides whether a candidate transaction may consume the
// auction's locked value. It decodes the redeemer and transaction-context
// blobs the host supplies, then runs the decision pipelines.
//
// Rejection is a verdict, not a failure: ValidateSpend never returns a Go
// error, and no blob content causes a panic. An undecodable redeemer rejects
// with MalformedRedeemer; a context or spent-input state that is absent or
// undecodable rejects with MalformedState.
//
// Precondition: the context blob is ledger-supplied ground truth for one
// hypothetical transaction. Signatures, script hashes, and input existence
// are the host's to verify before this call.
func ValidateSpend(params core.AuctionParams, redeemerBlob, contextBlob []byte) *SpendValidationResult {
	action, err := core.DecodeAction(redeemerBlob)
	if err != nil {
		return rejected(core.ReasonMalformedRedeemer, fmt.Sprintf("Redeemer does not decode: %v", err))
	}

	tx, err := ledgerapi.DecodeTxContext(contextBlob)
	if err != nil {
		return rejected(core.ReasonMalformedState, fmt.Sprintf("Transaction context does not decode: %v", err))
	}

	state, err := core.DecodeState(tx.InputDatum)
	if err != nil {
		return rejected(core.ReasonMalformedState, fmt.Sprintf("Spent input state does not decode: %v", err))
	}

	result := core.Decide(params, state, action, tx)
	return &SpendValidationResult{
		Accepted: result.Accepted,
		Reason:   result.Reason,
		Details:  result.Details,
	}
}

func rejected(reason core.RejectReason, detail string) *SpendValidationResult {
	return &SpendValidationResult{
		Accepted: false,
		Reason:   reason,
		Details:  []string{detail},
	}
}
