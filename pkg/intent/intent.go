// Package intent builds and signs the canonical quote structures the
// intents settlement contract verifies. The serialized form of a Quote
// is both what gets signed and what gets transmitted, so there is
// exactly one serialization function and the types are immutable once
// built.
package intent

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Intent kinds understood by the settlement contract.
const (
	KindTokenDiff = "token_diff"
	KindWithdraw  = "ft_withdraw"
)

// Action is one action inside a quote. Implementations marshal to the
// tagged JSON object the contract expects.
type Action interface {
	Kind() string
	json.Marshaler
}

// TokenDiff expresses a net balance change across assets for the
// signer. Negative entries are given up, positive entries received.
type TokenDiff struct {
	Diff map[string]string
}

// Kind implements Action.
func (TokenDiff) Kind() string { return KindTokenDiff }

// MarshalJSON emits the tagged wire object. Map keys are sorted by
// encoding/json, which keeps the output deterministic.
func (t TokenDiff) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Intent string            `json:"intent"`
		Diff   map[string]string `json:"diff"`
	}{KindTokenDiff, t.Diff})
}

// Withdraw moves tokens out of the settlement contract to a receiver,
// optionally through the cross-chain bridge (memo carries the foreign
// destination).
type Withdraw struct {
	Token      string
	ReceiverID string
	Amount     string
	Memo       string
}

// Kind implements Action.
func (Withdraw) Kind() string { return KindWithdraw }

// MarshalJSON emits the tagged wire object.
func (w Withdraw) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Intent     string `json:"intent"`
		Token      string `json:"token"`
		ReceiverID string `json:"receiver_id"`
		Amount     string `json:"amount"`
		Memo       string `json:"memo,omitempty"`
	}{KindWithdraw, w.Token, w.ReceiverID, w.Amount, w.Memo})
}

// Quote is the signed statement submitted to the settlement contract.
// It is created fresh per operation, signed exactly once and never
// mutated afterwards.
type Quote struct {
	Nonce             string   `json:"nonce"`
	SignerID          string   `json:"signer_id"`
	VerifyingContract string   `json:"verifying_contract"`
	Deadline          string   `json:"deadline"`
	Intents           []Action `json:"intents"`
}

// Serialize produces the canonical byte representation of the quote.
// The signer signs exactly these bytes and the relay receives exactly
// these bytes; any divergence would invalidate the signature.
func (q *Quote) Serialize() (string, error) {
	data, err := json.Marshal(q)
	if err != nil {
		return "", fmt.Errorf("failed to serialize quote: %w", err)
	}
	return string(data), nil
}

// NewNonce returns a fresh 256-bit random nonce, base64 encoded. A new
// nonce per quote is what prevents replay of a signed intent.
func NewNonce() (string, error) {
	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf[:]), nil
}
