package ledger

import (
	"crypto/ed25519"
	"crypto/sha256"
	"fmt"
	"math/big"
)

// Borsh enum indices from the NEAR transaction schema.
const (
	keyTypeED25519 = 0

	// Action variants; only FunctionCall is used here.
	actionFunctionCall = 2
)

// functionCallAction is a single FunctionCall action inside a
// transaction.
type functionCallAction struct {
	MethodName string
	Args       []byte // JSON-encoded call arguments
	Gas        uint64
	Deposit    *big.Int
}

// transaction is the unsigned NEAR transaction payload.
type transaction struct {
	SignerID   string
	PublicKey  [32]byte
	Nonce      uint64
	ReceiverID string
	BlockHash  [32]byte
	Actions    []functionCallAction
}

// serialize borsh-encodes the transaction.
func (t *transaction) serialize() ([]byte, error) {
	w := &borshWriter{}
	w.str(t.SignerID)
	w.u8(keyTypeED25519)
	w.fixed(t.PublicKey[:])
	w.u64(t.Nonce)
	w.str(t.ReceiverID)
	w.fixed(t.BlockHash[:])
	w.u32(uint32(len(t.Actions)))
	for _, a := range t.Actions {
		w.u8(actionFunctionCall)
		w.str(a.MethodName)
		w.vec(a.Args)
		w.u64(a.Gas)
		deposit := a.Deposit
		if deposit == nil {
			deposit = NoDeposit
		}
		if err := w.u128(deposit); err != nil {
			return nil, fmt.Errorf("action %s: %w", a.MethodName, err)
		}
	}
	return w.bytes(), nil
}

// signWith signs sha256 of the borsh transaction and returns the
// borsh-encoded SignedTransaction ready for submission.
func (t *transaction) signWith(key ed25519.PrivateKey) ([]byte, error) {
	payload, err := t.serialize()
	if err != nil {
		return nil, err
	}
	digest := sha256.Sum256(payload)
	sig := ed25519.Sign(key, digest[:])

	w := &borshWriter{}
	w.fixed(payload)
	w.u8(keyTypeED25519)
	w.fixed(sig)
	return w.bytes(), nil
}
