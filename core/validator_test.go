package core

import (
	"fmt"
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"

	"github.com/cloudx-io/chainauction/ledgerapi"
)

var ticket = ledgerapi.AssetID{PolicyID: "policy1", Name: "TICKET"}

func testParams() AuctionParams {
	return AuctionParams{
		Seller:  "addr_seller",
		Asset:   ticket,
		MinBid:  10,
		EndTime: 1000,
	}
}

func bidB1() Bid { return Bid{Address: "addr_b1", Bidder: "b1", Amount: 10} }
func bidB2() Bid { return Bid{Address: "addr_b2", Bidder: "b2", Amount: 15} }

// lockedValue is the value a continuing output re-locks: the standing bid
// plus the single auctioned asset unit.
func lockedValue(coin uint64) ledgerapi.Value {
	return ledgerapi.Value{
		Coin:   coin,
		Assets: []ledgerapi.AssetQuantity{{Asset: ticket, Quantity: 1}},
	}
}

func continuingOutput(t *testing.T, bid Bid) ledgerapi.TxOut {
	t.Helper()
	datum, err := EncodeState(AuctionState{HighestBid: &bid})
	assert.NoError(t, err)
	return ledgerapi.TxOut{
		Recipient:  "addr_script",
		Value:      lockedValue(bid.Amount),
		Datum:      datum,
		Continuing: true,
	}
}

func refundOutput(bid Bid) ledgerapi.TxOut {
	return ledgerapi.TxOut{
		Recipient: bid.Bidder,
		Value:     ledgerapi.Value{Coin: bid.Amount},
	}
}

func bidContext(outs ...ledgerapi.TxOut) ledgerapi.TxContext {
	return ledgerapi.TxContext{ValidRange: ledgerapi.Between(0, 1000), Outputs: outs}
}

func payoutContext(outs ...ledgerapi.TxOut) ledgerapi.TxContext {
	return ledgerapi.TxContext{ValidRange: ledgerapi.From(1000), Outputs: outs}
}

func TestPlaceBid_FirstBidAccepted(t *testing.T) {
	bid := bidB1()
	result := DecidePlaceBid(testParams(), AuctionState{}, bid, bidContext(continuingOutput(t, bid)))

	check.True(t, result.Accepted)
	check.Equal(t, ReasonNone, result.Reason)
}

func TestPlaceBid_FirstBidBelowMinimum(t *testing.T) {
	bid := Bid{Address: "addr_b1", Bidder: "b1", Amount: 9}
	result := DecidePlaceBid(testParams(), AuctionState{}, bid, bidContext(continuingOutput(t, bid)))

	check.False(t, result.Accepted)
	check.Equal(t, ReasonInsufficientBid, result.Reason)
}

func TestPlaceBid_FirstBidAtMinimumAccepted(t *testing.T) {
	// The minimum is inclusive for the first bid only
	bid := Bid{Address: "addr_b1", Bidder: "b1", Amount: 10}
	result := DecidePlaceBid(testParams(), AuctionState{}, bid, bidContext(continuingOutput(t, bid)))

	check.True(t, result.Accepted)
}

func TestPlaceBid_RaisesPreviousBid(t *testing.T) {
	prev := bidB1()
	next := bidB2()
	state := AuctionState{HighestBid: &prev}
	ctx := bidContext(refundOutput(prev), continuingOutput(t, next))

	result := DecidePlaceBid(testParams(), state, next, ctx)

	check.True(t, result.Accepted)
	check.Equal(t, ReasonNone, result.Reason)
}

func TestPlaceBid_EqualToPreviousRejected(t *testing.T) {
	// Raising requires strictly more, even when the first bid equalled the
	// minimum
	prev := bidB1()
	next := Bid{Address: "addr_b2", Bidder: "b2", Amount: prev.Amount}
	state := AuctionState{HighestBid: &prev}
	ctx := bidContext(refundOutput(prev), continuingOutput(t, next))

	result := DecidePlaceBid(testParams(), state, next, ctx)

	check.False(t, result.Accepted)
	check.Equal(t, ReasonInsufficientBid, result.Reason)
}

func TestPlaceBid_MissingRefundRejected(t *testing.T) {
	prev := bidB1()
	next := bidB2()
	state := AuctionState{HighestBid: &prev}
	ctx := bidContext(continuingOutput(t, next))

	result := DecidePlaceBid(testParams(), state, next, ctx)

	check.False(t, result.Accepted)
	check.Equal(t, ReasonRefundNotFound, result.Reason)
}

func TestPlaceBid_OverRefundRejected(t *testing.T) {
	// The refund must be exactly the displaced amount
	prev := bidB1()
	next := bidB2()
	state := AuctionState{HighestBid: &prev}
	overRefund := ledgerapi.TxOut{Recipient: prev.Bidder, Value: ledgerapi.Value{Coin: prev.Amount + 5}}
	ctx := bidContext(overRefund, continuingOutput(t, next))

	result := DecidePlaceBid(testParams(), state, next, ctx)

	check.False(t, result.Accepted)
	check.Equal(t, ReasonRefundNotFound, result.Reason)
}

func TestPlaceBid_RefundMatchesIdentityNotAddress(t *testing.T) {
	// An output paying the previous bid's refund address does not count
	// unless it pays the bidder identity
	prev := bidB1()
	next := bidB2()
	state := AuctionState{HighestBid: &prev}
	wrongRecipient := ledgerapi.TxOut{Recipient: prev.Address, Value: ledgerapi.Value{Coin: prev.Amount}}
	ctx := bidContext(wrongRecipient, continuingOutput(t, next))

	result := DecidePlaceBid(testParams(), state, next, ctx)

	check.False(t, result.Accepted)
	check.Equal(t, ReasonRefundNotFound, result.Reason)
}

func TestPlaceBid_ValidityPastDeadlineRejected(t *testing.T) {
	bid := bidB1()
	ctx := bidContext(continuingOutput(t, bid))
	ctx.ValidRange = ledgerapi.Between(0, 1500)

	result := DecidePlaceBid(testParams(), AuctionState{}, bid, ctx)

	check.False(t, result.Accepted)
	check.Equal(t, ReasonBidTooLate, result.Reason)
}

func TestPlaceBid_UnboundedValidityRejected(t *testing.T) {
	bid := bidB1()
	ctx := bidContext(continuingOutput(t, bid))
	ctx.ValidRange = ledgerapi.Always()

	result := DecidePlaceBid(testParams(), AuctionState{}, bid, ctx)

	check.False(t, result.Accepted)
	check.Equal(t, ReasonBidTooLate, result.Reason)
}

func TestPlaceBid_OpenUpperBoundAtDeadlineAccepted(t *testing.T) {
	// An upper bound that excludes the deadline instant still fits inside it
	bid := bidB1()
	ctx := bidContext(continuingOutput(t, bid))
	ctx.ValidRange = ledgerapi.Interval{
		Lower: ledgerapi.Bound{Kind: ledgerapi.NegInfinity},
		Upper: ledgerapi.Bound{Kind: ledgerapi.Finite, Time: 1000, Inclusive: false},
	}

	result := DecidePlaceBid(testParams(), AuctionState{}, bid, ctx)

	check.True(t, result.Accepted)
}

func TestPlaceBid_NoContinuingOutputRejected(t *testing.T) {
	result := DecidePlaceBid(testParams(), AuctionState{}, bidB1(), bidContext())

	check.False(t, result.Accepted)
	check.Equal(t, ReasonWrongContinuingOutputCount, result.Reason)
}

func TestPlaceBid_TwoContinuingOutputsRejected(t *testing.T) {
	bid := bidB1()
	ctx := bidContext(continuingOutput(t, bid), continuingOutput(t, bid))

	result := DecidePlaceBid(testParams(), AuctionState{}, bid, ctx)

	check.False(t, result.Accepted)
	check.Equal(t, ReasonWrongContinuingOutputCount, result.Reason)
}

func TestPlaceBid_SuccessorRecordsDifferentBid(t *testing.T) {
	bid := bidB2()
	out := continuingOutput(t, bidB1()) // records the wrong bid
	out.Value = lockedValue(bid.Amount)
	ctx := bidContext(out)

	result := DecidePlaceBid(testParams(), AuctionState{}, bid, ctx)

	check.False(t, result.Accepted)
	check.Equal(t, ReasonIncorrectOutputDatum, result.Reason)
}

func TestPlaceBid_SuccessorDatumMissing(t *testing.T) {
	bid := bidB1()
	out := continuingOutput(t, bid)
	out.Datum = nil
	ctx := bidContext(out)

	result := DecidePlaceBid(testParams(), AuctionState{}, bid, ctx)

	check.False(t, result.Accepted)
	check.Equal(t, ReasonIncorrectOutputDatum, result.Reason)
}

func TestPlaceBid_SuccessorDatumUndecodable(t *testing.T) {
	bid := bidB1()
	out := continuingOutput(t, bid)
	out.Datum = []byte{0xff, 0x00}
	ctx := bidContext(out)

	result := DecidePlaceBid(testParams(), AuctionState{}, bid, ctx)

	check.False(t, result.Accepted)
	check.Equal(t, ReasonIncorrectOutputDatum, result.Reason)
}

func TestPlaceBid_SuccessorDifferentRefundAddressAccepted(t *testing.T) {
	// Bid identity is (bidder, amount); the refund address in the successor
	// state may differ from the proposed one
	bid := bidB1()
	recorded := Bid{Address: "addr_other", Bidder: bid.Bidder, Amount: bid.Amount}
	ctx := bidContext(continuingOutput(t, recorded))

	result := DecidePlaceBid(testParams(), AuctionState{}, bid, ctx)

	check.True(t, result.Accepted)
}

func TestPlaceBid_SuccessorValueWrongCoin(t *testing.T) {
	bid := bidB2()
	out := continuingOutput(t, bid)
	out.Value.Coin = bid.Amount - 1
	ctx := bidContext(out)

	result := DecidePlaceBid(testParams(), AuctionState{}, bid, ctx)

	check.False(t, result.Accepted)
	check.Equal(t, ReasonIncorrectOutputValue, result.Reason)
}

func TestPlaceBid_SuccessorValueMissingAsset(t *testing.T) {
	bid := bidB1()
	out := continuingOutput(t, bid)
	out.Value = ledgerapi.Value{Coin: bid.Amount}
	ctx := bidContext(out)

	result := DecidePlaceBid(testParams(), AuctionState{}, bid, ctx)

	check.False(t, result.Accepted)
	check.Equal(t, ReasonIncorrectOutputValue, result.Reason)
}

func TestPlaceBid_SuccessorValueForeignAssetRejected(t *testing.T) {
	bid := bidB1()
	out := continuingOutput(t, bid)
	out.Value.Assets = append(out.Value.Assets, ledgerapi.AssetQuantity{
		Asset:    ledgerapi.AssetID{PolicyID: "policy2", Name: "OTHER"},
		Quantity: 3,
	})
	ctx := bidContext(out)

	result := DecidePlaceBid(testParams(), AuctionState{}, bid, ctx)

	check.False(t, result.Accepted)
	check.Equal(t, ReasonIncorrectOutputValue, result.Reason)
}

func TestPayout_WithWinnerAccepted(t *testing.T) {
	winning := bidB2()
	state := AuctionState{HighestBid: &winning}
	ctx := payoutContext(
		ledgerapi.TxOut{Recipient: "addr_seller", Value: ledgerapi.Value{Coin: winning.Amount}},
		ledgerapi.TxOut{Recipient: winning.Bidder, Value: ledgerapi.Value{
			Assets: []ledgerapi.AssetQuantity{{Asset: ticket, Quantity: 1}},
		}},
	)

	result := DecidePayout(testParams(), state, ctx)

	check.True(t, result.Accepted)
	check.Equal(t, ReasonNone, result.Reason)
}

func TestPayout_SwappedRecipientsRejected(t *testing.T) {
	winning := bidB2()
	state := AuctionState{HighestBid: &winning}
	ctx := payoutContext(
		ledgerapi.TxOut{Recipient: winning.Bidder, Value: ledgerapi.Value{Coin: winning.Amount}},
		ledgerapi.TxOut{Recipient: "addr_seller", Value: ledgerapi.Value{
			Assets: []ledgerapi.AssetQuantity{{Asset: ticket, Quantity: 1}},
		}},
	)

	result := DecidePayout(testParams(), state, ctx)

	check.False(t, result.Accepted)
	check.Equal(t, ReasonAssetNotDelivered, result.Reason)
}

func TestPayout_SellerNotPaidRejected(t *testing.T) {
	winning := bidB2()
	state := AuctionState{HighestBid: &winning}
	ctx := payoutContext(
		ledgerapi.TxOut{Recipient: winning.Bidder, Value: ledgerapi.Value{
			Assets: []ledgerapi.AssetQuantity{{Asset: ticket, Quantity: 1}},
		}},
	)

	result := DecidePayout(testParams(), state, ctx)

	check.False(t, result.Accepted)
	check.Equal(t, ReasonSellerNotPaid, result.Reason)
}

func TestPayout_TooEarlyRejected(t *testing.T) {
	winning := bidB2()
	state := AuctionState{HighestBid: &winning}
	ctx := payoutContext(
		ledgerapi.TxOut{Recipient: "addr_seller", Value: ledgerapi.Value{Coin: winning.Amount}},
		ledgerapi.TxOut{Recipient: winning.Bidder, Value: ledgerapi.Value{
			Assets: []ledgerapi.AssetQuantity{{Asset: ticket, Quantity: 1}},
		}},
	)
	ctx.ValidRange = ledgerapi.Between(500, 2000)

	result := DecidePayout(testParams(), state, ctx)

	check.False(t, result.Accepted)
	check.Equal(t, ReasonPayoutTooEarly, result.Reason)
}

func TestPayout_NoBidsReturnsAssetToSeller(t *testing.T) {
	// With no bid the seller gets the asset back and no coin payment is
	// required
	ctx := payoutContext(
		ledgerapi.TxOut{Recipient: "addr_seller", Value: ledgerapi.Value{
			Assets: []ledgerapi.AssetQuantity{{Asset: ticket, Quantity: 1}},
		}},
	)

	result := DecidePayout(testParams(), AuctionState{}, ctx)

	check.True(t, result.Accepted)
	check.Equal(t, ReasonNone, result.Reason)
}

func TestPayout_NoBidsAssetElsewhereRejected(t *testing.T) {
	ctx := payoutContext(
		ledgerapi.TxOut{Recipient: "b1", Value: ledgerapi.Value{
			Assets: []ledgerapi.AssetQuantity{{Asset: ticket, Quantity: 1}},
		}},
	)

	result := DecidePayout(testParams(), AuctionState{}, ctx)

	check.False(t, result.Accepted)
	check.Equal(t, ReasonAssetNotDelivered, result.Reason)
}

func TestDecide_DispatchesPlaceBid(t *testing.T) {
	bid := bidB1()
	result := Decide(testParams(), AuctionState{}, PlaceBid(bid), bidContext(continuingOutput(t, bid)))

	check.True(t, result.Accepted)
}

func TestDecide_DispatchesPayout(t *testing.T) {
	ctx := payoutContext(
		ledgerapi.TxOut{Recipient: "addr_seller", Value: ledgerapi.Value{
			Assets: []ledgerapi.AssetQuantity{{Asset: ticket, Quantity: 1}},
		}},
	)

	result := Decide(testParams(), AuctionState{}, Payout(), ctx)

	check.True(t, result.Accepted)
}

func TestDecide_PlaceBidWithoutBidRejected(t *testing.T) {
	action := Action{Kind: ActionPlaceBid}
	result := Decide(testParams(), AuctionState{}, action, bidContext())

	check.False(t, result.Accepted)
	check.Equal(t, ReasonMalformedRedeemer, result.Reason)
}

func TestDecide_UnknownActionKindRejected(t *testing.T) {
	action := Action{Kind: ActionKind(7)}
	result := Decide(testParams(), AuctionState{}, action, bidContext())

	check.False(t, result.Accepted)
	check.Equal(t, ReasonMalformedRedeemer, result.Reason)
}

func TestMonotonicBidding(t *testing.T) {
	// Replay accepted bid transitions and confirm each accepted amount
	// strictly exceeds the last
	params := testParams()
	state := AuctionState{}
	amounts := []uint64{10, 11, 15, 40}

	for i, amount := range amounts {
		bid := Bid{Address: "addr_b", Bidder: ledgerapi.Address(fmt.Sprintf("bidder%d", i)), Amount: amount}
		outs := []ledgerapi.TxOut{continuingOutput(t, bid)}
		if state.HighestBid != nil {
			outs = append(outs, refundOutput(*state.HighestBid))
		}

		result := DecidePlaceBid(params, state, bid, bidContext(outs...))
		assert.True(t, result.Accepted)

		// A repeat of the same amount must now fail
		repeat := DecidePlaceBid(params, AuctionState{HighestBid: &bid}, bid, bidContext(continuingOutput(t, bid), refundOutput(bid)))
		check.False(t, repeat.Accepted)
		check.Equal(t, ReasonInsufficientBid, repeat.Reason)

		state = AuctionState{HighestBid: &bid}
	}
}

func TestOutputPays_ExactCoinMatch(t *testing.T) {
	amount := uint64(10)
	outs := []ledgerapi.TxOut{
		{Recipient: "b1", Value: ledgerapi.Value{Coin: 9}},
		{Recipient: "b1", Value: ledgerapi.Value{Coin: 10}},
		{Recipient: "b2", Value: ledgerapi.Value{Coin: 10}},
	}

	check.True(t, OutputPays(outs, "b1", PaymentSpec{Coin: &amount}))
	check.True(t, OutputPays(outs, "b2", PaymentSpec{Coin: &amount}))
	check.False(t, OutputPays(outs, "b3", PaymentSpec{Coin: &amount}))

	eleven := uint64(11)
	check.False(t, OutputPays(outs, "b1", PaymentSpec{Coin: &eleven}))
}

func TestOutputPays_AssetMatch(t *testing.T) {
	outs := []ledgerapi.TxOut{
		{Recipient: "b1", Value: ledgerapi.Value{Coin: 5}},
		{Recipient: "b2", Value: ledgerapi.Value{Assets: []ledgerapi.AssetQuantity{{Asset: ticket, Quantity: 1}}}},
	}

	check.True(t, OutputPays(outs, "b2", PaymentSpec{Asset: &ticket, AssetQuantity: 1}))
	check.False(t, OutputPays(outs, "b1", PaymentSpec{Asset: &ticket, AssetQuantity: 1}))
	check.False(t, OutputPays(outs, "b2", PaymentSpec{Asset: &ticket, AssetQuantity: 2}))
}
