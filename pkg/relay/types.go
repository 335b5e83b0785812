// Package relay implements the solver-bus RFQ protocol: fetching
// candidate quotes for an asset pair and publishing signed intents.
package relay

import (
	"fmt"
	"time"

	"near-intents/pkg/intent"
)

// DefaultURL is the production solver bus endpoint.
const DefaultURL = "https://solver-relay-v2.chaindefuser.com/rpc"

// DefaultMinDeadline is the minimum quote validity window requested
// from solvers when the caller does not specify one.
const DefaultMinDeadline = 2 * time.Minute

// QuoteRequest asks the solver bus for quotes on an asset pair. Build
// it with NewQuoteRequest; a zero or hand-rolled value may be missing
// required fields.
type QuoteRequest struct {
	AssetIn        string `json:"defuse_asset_identifier_in"`
	AssetOut       string `json:"defuse_asset_identifier_out"`
	ExactAmountIn  string `json:"exact_amount_in,omitempty"`
	ExactAmountOut string `json:"exact_amount_out,omitempty"`
	MinDeadlineMs  int64  `json:"min_deadline_ms"`
}

// NewQuoteRequest validates and builds a quote request. Exactly one of
// exactAmountIn and exactAmountOut must be set; amounts are base-unit
// integer strings.
func NewQuoteRequest(assetIn, exactAmountIn, assetOut, exactAmountOut string, minDeadline time.Duration) (*QuoteRequest, error) {
	if assetIn == "" || assetOut == "" {
		return nil, fmt.Errorf("both asset identifiers are required")
	}
	if assetIn == assetOut {
		return nil, fmt.Errorf("asset in and asset out must differ, got %s", assetIn)
	}
	if (exactAmountIn == "") == (exactAmountOut == "") {
		return nil, fmt.Errorf("exactly one of exact amount in and exact amount out must be set")
	}
	if minDeadline <= 0 {
		minDeadline = DefaultMinDeadline
	}
	return &QuoteRequest{
		AssetIn:        assetIn,
		AssetOut:       assetOut,
		ExactAmountIn:  exactAmountIn,
		ExactAmountOut: exactAmountOut,
		MinDeadlineMs:  minDeadline.Milliseconds(),
	}, nil
}

// Option is one solver offer for a quote request. Options are
// relay-supplied, immutable and only valid for the negotiation that
// produced them.
type Option struct {
	QuoteHash      string `json:"quote_hash"`
	AssetIn        string `json:"defuse_asset_identifier_in"`
	AssetOut       string `json:"defuse_asset_identifier_out"`
	AmountIn       string `json:"amount_in"`
	AmountOut      string `json:"amount_out"`
	ExpirationTime string `json:"expiration_time,omitempty"`
}

// PublishIntent carries a signed commitment to the solver bus together
// with the hashes of the solver quotes it consumes. The hashes bind the
// RFQ negotiation to settlement: a swap publishes exactly the hash of
// the option it took, a withdrawal publishes none.
type PublishIntent struct {
	SignedData  *intent.Commitment `json:"signed_data"`
	QuoteHashes []string           `json:"quote_hashes"`
}
