package core

// RejectReason names the first violated condition of a rejected transaction.
// Reasons are diagnostic: the on-wire contract with the host is only the
// accept/reject verdict.
type RejectReason string

const (
	// ReasonNone is the zero reason carried by an accepted result.
	ReasonNone RejectReason = ""

	// ReasonMalformedRedeemer: the action blob does not decode to a known action.
	ReasonMalformedRedeemer RejectReason = "malformed_redeemer"
	// ReasonMalformedState: the spent input's state blob is absent or does not
	// decode to an auction state.
	ReasonMalformedState RejectReason = "malformed_state"

	// ReasonInsufficientBid: the proposed amount does not beat the standing
	// highest bid, or falls short of the minimum first bid.
	ReasonInsufficientBid RejectReason = "insufficient_bid"
	// ReasonBidTooLate: the validity interval extends past the bidding deadline.
	ReasonBidTooLate RejectReason = "bid_too_late"
	// ReasonRefundNotFound: no output refunds the previous highest bidder.
	ReasonRefundNotFound RejectReason = "refund_not_found"
	// ReasonWrongContinuingOutputCount: a bid must produce exactly one
	// continuing output.
	ReasonWrongContinuingOutputCount RejectReason = "wrong_continuing_output_count"
	// ReasonIncorrectOutputDatum: the continuing output's state does not record
	// the proposed bid as the new highest.
	ReasonIncorrectOutputDatum RejectReason = "incorrect_output_datum"
	// ReasonIncorrectOutputValue: the continuing output does not lock exactly
	// the bid amount plus one unit of the auctioned asset.
	ReasonIncorrectOutputValue RejectReason = "incorrect_output_value"

	// ReasonPayoutTooEarly: the validity interval starts before the deadline.
	ReasonPayoutTooEarly RejectReason = "payout_too_early"
	// ReasonSellerNotPaid: no output pays the winning amount to the seller.
	ReasonSellerNotPaid RejectReason = "seller_not_paid"
	// ReasonAssetNotDelivered: no output delivers the asset unit to the winner
	// (or back to the seller when no bid was placed).
	ReasonAssetNotDelivered RejectReason = "asset_not_delivered"
)

// Result is the verdict of one validation call. Every evaluated condition
// contributes a line to Details; Reason is the first violated condition.
type Result struct {
	Accepted bool
	Reason   RejectReason
	Details  []string
}

func accepted() *Result {
	return &Result{Accepted: true}
}

func (r *Result) pass(detail string) {
	r.Details = append(r.Details, detail)
}

func (r *Result) fail(reason RejectReason, detail string) {
	r.Details = append(r.Details, detail)
	r.Accepted = false
	if r.Reason == ReasonNone {
		r.Reason = reason
	}
}
