package intent

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

// CommitmentStandard identifies the signature scheme the settlement
// contract verifies commitments against.
const CommitmentStandard = "raw_ed25519"

const ed25519Prefix = "ed25519:"

// ErrInvalidKey is returned when key material cannot be parsed.
var ErrInvalidKey = errors.New("invalid key material")

// Commitment is a signed quote in the wire shape the relay and the
// settlement contract expect.
type Commitment struct {
	Standard  string `json:"standard"`
	Payload   string `json:"payload"`
	Signature string `json:"signature"`
	PublicKey string `json:"public_key"`
}

// Signer wraps an ed25519 keypair and produces commitments over
// canonical quote payloads.
type Signer struct {
	key ed25519.PrivateKey
}

// NewSigner parses a NEAR-format private key ("ed25519:<base58>", 64
// bytes; a bare 32-byte seed is also accepted) and returns a signer.
func NewSigner(privateKey string) (*Signer, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(privateKey), ed25519Prefix)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	decoded, err := base58.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	switch len(decoded) {
	case ed25519.PrivateKeySize:
	case ed25519.SeedSize:
		decoded = ed25519.NewKeyFromSeed(decoded)
	default:
		return nil, fmt.Errorf("%w: unexpected key length %d", ErrInvalidKey, len(decoded))
	}
	return &Signer{key: ed25519.PrivateKey(decoded)}, nil
}

// PublicKey returns the signer's public key in NEAR display format,
// used both for on-chain key registration and inside commitments.
func (s *Signer) PublicKey() string {
	pub := s.key.Public().(ed25519.PublicKey)
	return ed25519Prefix + base58.Encode(pub)
}

// Sign serializes the quote and signs the canonical bytes. ed25519 is
// deterministic, so identical key and payload always yield the same
// signature.
func (s *Signer) Sign(q *Quote) (*Commitment, error) {
	payload, err := q.Serialize()
	if err != nil {
		return nil, err
	}
	sig := ed25519.Sign(s.key, []byte(payload))
	return &Commitment{
		Standard:  CommitmentStandard,
		Payload:   payload,
		Signature: ed25519Prefix + base58.Encode(sig),
		PublicKey: s.PublicKey(),
	}, nil
}

// VerifyCommitment checks a commitment's signature against its own
// payload and public key.
func VerifyCommitment(c *Commitment) (bool, error) {
	pub, err := base58.Decode(strings.TrimPrefix(c.PublicKey, ed25519Prefix))
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if len(pub) != ed25519.PublicKeySize {
		return false, fmt.Errorf("%w: unexpected public key length %d", ErrInvalidKey, len(pub))
	}
	sig, err := base58.Decode(strings.TrimPrefix(c.Signature, ed25519Prefix))
	if err != nil {
		return false, fmt.Errorf("invalid signature encoding: %w", err)
	}
	return ed25519.Verify(ed25519.PublicKey(pub), []byte(c.Payload), sig), nil
}
