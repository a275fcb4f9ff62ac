package core

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Actions travel as constructor-tagged CBOR arrays: [0, bid] places a bid,
// [1] requests payout. States travel as CBOR maps keyed by field name.
const (
	actionTagPlaceBid = 0
	actionTagPayout   = 1
)

// EncodeAction serializes an action to its redeemer wire form.
func EncodeAction(action Action) ([]byte, error) {
	switch action.Kind {
	case ActionPlaceBid:
		if action.Bid == nil {
			return nil, fmt.Errorf("place-bid action carries no bid")
		}
		return cbor.Marshal([]any{uint64(actionTagPlaceBid), *action.Bid})
	case ActionPayout:
		return cbor.Marshal([]any{uint64(actionTagPayout)})
	default:
		return nil, fmt.Errorf("unknown action kind %d", action.Kind)
	}
}

// DecodeAction parses a redeemer blob. Any blob that is not a well-formed,
// known constructor is an error; there is no default interpretation.
func DecodeAction(blob []byte) (Action, error) {
	if len(blob) == 0 {
		return Action{}, fmt.Errorf("empty redeemer blob")
	}
	var elems []cbor.RawMessage
	if err := cbor.Unmarshal(blob, &elems); err != nil {
		return Action{}, fmt.Errorf("parse redeemer: %w", err)
	}
	if len(elems) == 0 {
		return Action{}, fmt.Errorf("parse redeemer: empty constructor array")
	}
	var tag uint64
	if err := cbor.Unmarshal(elems[0], &tag); err != nil {
		return Action{}, fmt.Errorf("parse redeemer constructor tag: %w", err)
	}
	switch tag {
	case actionTagPlaceBid:
		if len(elems) != 2 {
			return Action{}, fmt.Errorf("place-bid redeemer: expected 2 elements, got %d", len(elems))
		}
		var bid Bid
		if err := cbor.Unmarshal(elems[1], &bid); err != nil {
			return Action{}, fmt.Errorf("parse bid: %w", err)
		}
		return PlaceBid(bid), nil
	case actionTagPayout:
		if len(elems) != 1 {
			return Action{}, fmt.Errorf("payout redeemer: expected 1 element, got %d", len(elems))
		}
		return Payout(), nil
	default:
		return Action{}, fmt.Errorf("unknown redeemer constructor %d", tag)
	}
}

// EncodeState serializes an auction state to its datum wire form.
func EncodeState(state AuctionState) ([]byte, error) {
	data, err := cbor.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode auction state: %w", err)
	}
	return data, nil
}

// DecodeState parses a state datum blob. An absent blob is an error: the
// contract input always carries a state once the auction exists.
func DecodeState(blob []byte) (AuctionState, error) {
	if len(blob) == 0 {
		return AuctionState{}, fmt.Errorf("empty state blob")
	}
	var state AuctionState
	if err := cbor.Unmarshal(blob, &state); err != nil {
		return AuctionState{}, fmt.Errorf("parse auction state: %w", err)
	}
	return state, nil
}
