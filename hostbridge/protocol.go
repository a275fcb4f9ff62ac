package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cloudx-io/chainauction/core"
	"github.com/cloudx-io/chainauction/validation"
)

// Request types accepted by the bridge.
const (
	RequestTypePing     = "ping"
	RequestTypeValidate = "validate"
)

// Response types produced by the bridge.
const (
	ResponseTypePong    = "pong"
	ResponseTypeVerdict = "verdict"
	ResponseTypeError   = "error"
)

// BridgeRequest is one CBOR-framed request from the host process. For a
// validate request the redeemer and context stay opaque blobs here; the
// validation layer owns their interpretation.
type BridgeRequest struct {
	Type     string              `cbor:"type"`
	Params   *core.AuctionParams `cbor:"params,omitempty"`
	Redeemer []byte              `cbor:"redeemer,omitempty"`
	Context  []byte              `cbor:"context,omitempty"`
}

// BridgeResponse is the CBOR-framed reply. RequestID is assigned per request
// so host-side logs can be correlated with bridge logs.
type BridgeResponse struct {
	Type      string            `cbor:"type"`
	RequestID string            `cbor:"request_id,omitempty"`
	Accepted  bool              `cbor:"accepted,omitempty"`
	Reason    core.RejectReason `cbor:"reason,omitempty"`
	Details   []string          `cbor:"details,omitempty"`
	Message   string            `cbor:"message,omitempty"`
	Timestamp int64             `cbor:"timestamp,omitempty"`
}

// handleRequest dispatches one decoded request. It never fails: every
// problem becomes an error response, mirroring the validator's own
// no-crash policy.
func handleRequest(req BridgeRequest) BridgeResponse {
	requestID := uuid.New().String()

	switch req.Type {
	case RequestTypePing:
		return BridgeResponse{
			Type:      ResponseTypePong,
			RequestID: requestID,
			Message:   "Bridge server is healthy",
			Timestamp: time.Now().Unix(),
		}

	case RequestTypeValidate:
		if req.Params == nil {
			return BridgeResponse{
				Type:      ResponseTypeError,
				RequestID: requestID,
				Message:   "Validate request carries no auction parameters",
			}
		}
		result := validation.ValidateSpend(*req.Params, req.Redeemer, req.Context)
		return BridgeResponse{
			Type:      ResponseTypeVerdict,
			RequestID: requestID,
			Accepted:  result.Accepted,
			Reason:    result.Reason,
			Details:   result.Details,
		}

	default:
		return BridgeResponse{
			Type:      ResponseTypeError,
			RequestID: requestID,
			Message:   fmt.Sprintf("Unknown request type: %s", req.Type),
		}
	}
}
