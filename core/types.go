package core

import (
	"github.com/cloudx-io/chainauction/ledgerapi"
)

// AuctionParams are the immutable terms of one auction, fixed at creation and
// supplied to every validation call.
type AuctionParams struct {
	// Seller is the identity that listed the asset and collects the winning bid.
	Seller ledgerapi.Address `cbor:"seller" json:"seller"`

	// Asset identifies the auctioned asset class. Exactly one unit of it is
	// locked for the lifetime of the auction.
	Asset ledgerapi.AssetID `cbor:"asset" json:"asset"`

	// MinBid is the smallest acceptable first bid, in base units.
	MinBid uint64 `cbor:"min_bid" json:"min_bid"`

	// EndTime is the bidding deadline on the ledger's time axis. Bids must be
	// includable only at or before it, payout only at or after it.
	EndTime int64 `cbor:"end_time" json:"end_time"`
}

// Bid is one bid on the auction.
type Bid struct {
	// Address is where a refund for this bid is sent. Transport data only; it
	// is not part of bid identity.
	Address ledgerapi.Address `cbor:"address" json:"address"`

	// Bidder is the bidding identity, compared against output recipients.
	Bidder ledgerapi.Address `cbor:"bidder" json:"bidder"`

	// Amount is the bid in base units.
	Amount uint64 `cbor:"amount" json:"amount"`
}

// Equal reports whether two bids are the same bid. Bid identity is the
// (bidder, amount) pair; the refund address is deliberately excluded.
func (b Bid) Equal(other Bid) bool {
	return b.Bidder == other.Bidder && b.Amount == other.Amount
}

// AuctionState is the persisted auction datum: the standing highest bid, or
// nil while no bid has been placed. It is read from the spent contract input
// and, on an accepted bid, written to exactly one continuing output.
type AuctionState struct {
	HighestBid *Bid `cbor:"highest_bid,omitempty" json:"highest_bid,omitempty"`
}

// ActionKind selects one of the two validation pipelines.
type ActionKind uint8

const (
	// ActionPlaceBid proposes a new highest bid.
	ActionPlaceBid ActionKind = iota
	// ActionPayout closes the auction and distributes the locked value.
	ActionPayout
)

// Action is the redeemer accompanying a candidate transaction. It is chosen
// by whoever built the transaction; the validator never originates one.
type Action struct {
	Kind ActionKind

	// Bid is the proposed bid. Set iff Kind is ActionPlaceBid.
	Bid *Bid
}

// PlaceBid builds a bid-placement action.
func PlaceBid(bid Bid) Action {
	return Action{Kind: ActionPlaceBid, Bid: &bid}
}

// Payout builds an auction-close action.
func Payout() Action {
	return Action{Kind: ActionPayout}
}
