package core

import (
	"fmt"

	"github.com/cloudx-io/chainauction/ledgerapi"
)

// Decide evaluates one candidate transaction against the auction's rules and
// returns the verdict.
//
// The transaction context is trusted as-is: the host ledger has already
// verified signatures, script hashes, and input existence before this call,
// and guarantees that at most one transaction can consume a given state.
// Decide is deterministic and total: identical inputs always produce the
// identical verdict, and no input causes a panic.
func Decide(params AuctionParams, state AuctionState, action Action, tx ledgerapi.TxContext) *Result {
	switch action.Kind {
	case ActionPlaceBid:
		if action.Bid == nil {
			r := accepted()
			r.fail(ReasonMalformedRedeemer, "Place-bid action carries no bid")
			return r
		}
		return DecidePlaceBid(params, state, *action.Bid, tx)
	case ActionPayout:
		return DecidePayout(params, state, tx)
	default:
		r := accepted()
		r.fail(ReasonMalformedRedeemer, fmt.Sprintf("Unknown action kind %d", action.Kind))
		return r
	}
}

// DecidePlaceBid validates a bid-placement transaction. All four conditions
// are evaluated so Details covers the whole pipeline; the reported reason is
// the first violated one.
func DecidePlaceBid(params AuctionParams, state AuctionState, bid Bid, tx ledgerapi.TxContext) *Result {
	r := accepted()
	prev := state.HighestBid

	// Condition 1: the bid beats the standing highest, or meets the minimum
	// when it is the first.
	if prev != nil {
		if bid.Amount > prev.Amount {
			r.pass(fmt.Sprintf("Bid %d exceeds previous highest bid %d", bid.Amount, prev.Amount))
		} else {
			r.fail(ReasonInsufficientBid, fmt.Sprintf("Bid %d does not exceed previous highest bid %d", bid.Amount, prev.Amount))
		}
	} else {
		if bid.Amount >= params.MinBid {
			r.pass(fmt.Sprintf("First bid %d meets minimum bid %d", bid.Amount, params.MinBid))
		} else {
			r.fail(ReasonInsufficientBid, fmt.Sprintf("First bid %d is below minimum bid %d", bid.Amount, params.MinBid))
		}
	}

	// Condition 2: the transaction cannot possibly be included after the
	// deadline.
	if ledgerapi.To(params.EndTime).Contains(tx.ValidRange) {
		r.pass(fmt.Sprintf("Validity range ends by the deadline %d", params.EndTime))
	} else {
		r.fail(ReasonBidTooLate, fmt.Sprintf("Validity range extends past the deadline %d", params.EndTime))
	}

	// Condition 3: the displaced bidder gets their money back.
	if prev != nil {
		if OutputPays(tx.Outputs, prev.Bidder, PaymentSpec{Coin: &prev.Amount}) {
			r.pass(fmt.Sprintf("Refund of %d to previous bidder found", prev.Amount))
		} else {
			r.fail(ReasonRefundNotFound, fmt.Sprintf("No output refunds %d to previous bidder", prev.Amount))
		}
	} else {
		r.pass("No previous bid; no refund required")
	}

	// Condition 4: exactly one continuing output, carrying the successor
	// state and exactly the re-locked value.
	continuing := tx.ContinuingOutputs()
	if len(continuing) != 1 {
		r.fail(ReasonWrongContinuingOutputCount, fmt.Sprintf("Expected exactly 1 continuing output, got %d", len(continuing)))
		return r
	}
	out := continuing[0]

	next, err := DecodeState(out.Datum)
	switch {
	case err != nil:
		r.fail(ReasonIncorrectOutputDatum, fmt.Sprintf("Continuing output state does not decode: %v", err))
	case next.HighestBid == nil:
		r.fail(ReasonIncorrectOutputDatum, "Continuing output state records no highest bid")
	case !next.HighestBid.Equal(bid):
		r.fail(ReasonIncorrectOutputDatum, fmt.Sprintf("Continuing output state records bid (%s, %d), want (%s, %d)",
			next.HighestBid.Bidder, next.HighestBid.Amount, bid.Bidder, bid.Amount))
	default:
		r.pass("Continuing output state records the new bid")
	}

	if valueIsExactly(out.Value, bid.Amount, params.Asset, 1) {
		r.pass(fmt.Sprintf("Continuing output locks %d plus 1 auctioned asset unit", bid.Amount))
	} else {
		r.fail(ReasonIncorrectOutputValue, fmt.Sprintf("Continuing output value is not exactly %d plus 1 auctioned asset unit", bid.Amount))
	}

	return r
}

// DecidePayout validates an auction-close transaction. No continuing output
// is required or checked: the contract instance terminates, and the ledger's
// double-spend rules make the consumed state unspendable afterwards.
func DecidePayout(params AuctionParams, state AuctionState, tx ledgerapi.TxContext) *Result {
	r := accepted()
	winning := state.HighestBid

	// Condition 1: the transaction cannot possibly be included before the
	// deadline.
	if ledgerapi.From(params.EndTime).Contains(tx.ValidRange) {
		r.pass(fmt.Sprintf("Validity range starts at or after the deadline %d", params.EndTime))
	} else {
		r.fail(ReasonPayoutTooEarly, fmt.Sprintf("Validity range starts before the deadline %d", params.EndTime))
	}

	// Condition 2: the asset unit goes to the winner, or back to the seller
	// when nobody bid. Checked before the seller payment so that a
	// transaction getting both payments wrong reports the misdelivered
	// asset, the auction's defining invariant.
	recipient := params.Seller
	if winning != nil {
		recipient = winning.Bidder
	}
	if OutputPays(tx.Outputs, recipient, PaymentSpec{Asset: &params.Asset, AssetQuantity: 1}) {
		r.pass("Auctioned asset unit is delivered to its recipient")
	} else {
		r.fail(ReasonAssetNotDelivered, "No output delivers the auctioned asset unit to its recipient")
	}

	// Condition 3: the seller collects the winning amount. With no bid there
	// is nothing to collect; the seller is made whole by getting the asset
	// back under condition 2, not by a redundant self-payment.
	if winning != nil {
		if OutputPays(tx.Outputs, params.Seller, PaymentSpec{Coin: &winning.Amount}) {
			r.pass(fmt.Sprintf("Seller is paid the winning bid %d", winning.Amount))
		} else {
			r.fail(ReasonSellerNotPaid, fmt.Sprintf("No output pays the winning bid %d to the seller", winning.Amount))
		}
	} else {
		r.pass("No bid was placed; seller payment not required")
	}

	return r
}

// PaymentSpec describes the value an output must carry to satisfy a payment
// condition. Nil fields are not checked; set fields must match exactly, so
// an over-payment does not satisfy a coin spec.
type PaymentSpec struct {
	Coin          *uint64
	Asset         *ledgerapi.AssetID
	AssetQuantity uint64
}

// OutputPays reports whether some output pays the given recipient a value
// matching the spec. It is the shared predicate behind the refund,
// seller-payout, and asset-delivery conditions.
func OutputPays(outs []ledgerapi.TxOut, to ledgerapi.Address, spec PaymentSpec) bool {
	for _, out := range outs {
		if out.Recipient != to {
			continue
		}
		if spec.Coin != nil && out.Value.Coin != *spec.Coin {
			continue
		}
		if spec.Asset != nil && out.Value.QuantityOf(*spec.Asset) != spec.AssetQuantity {
			continue
		}
		return true
	}
	return false
}

// valueIsExactly reports whether v is precisely the given coin amount plus
// the given quantity of one asset class, with no other assets riding along.
func valueIsExactly(v ledgerapi.Value, coin uint64, asset ledgerapi.AssetID, qty uint64) bool {
	if v.Coin != coin {
		return false
	}
	if v.QuantityOf(asset) != qty {
		return false
	}
	for _, aq := range v.Assets {
		if aq.Asset != asset && aq.Quantity != 0 {
			return false
		}
	}
	return true
}
