package intent

import (
	"crypto/ed25519"
	"strings"
	"testing"
	"time"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testKey is a NEAR-format private key derived from a fixed seed.
func testKey(t *testing.T) string {
	t.Helper()
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(i + 1)
	}
	key := ed25519.NewKeyFromSeed(seed)
	return "ed25519:" + base58.Encode(key)
}

func testQuote(t *testing.T) *Quote {
	t.Helper()
	q, err := BuildTokenDiffQuote("alice.near", "intents.near", nearID, "100", usdcID, "250", time.Now().Add(time.Minute))
	require.NoError(t, err)
	return q
}

func TestNewSignerRejectsBadKeys(t *testing.T) {
	_, err := NewSigner("")
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = NewSigner("ed25519:not-base58-0OIl")
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = NewSigner("ed25519:" + base58.Encode([]byte{1, 2, 3}))
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestNewSignerAcceptsSeedAndFullKey(t *testing.T) {
	seed := make([]byte, ed25519.SeedSize)
	seed[0] = 42
	key := ed25519.NewKeyFromSeed(seed)

	fromSeed, err := NewSigner("ed25519:" + base58.Encode(seed))
	require.NoError(t, err)
	fromKey, err := NewSigner("ed25519:" + base58.Encode(key))
	require.NoError(t, err)

	assert.Equal(t, fromSeed.PublicKey(), fromKey.PublicKey())
	assert.True(t, strings.HasPrefix(fromSeed.PublicKey(), "ed25519:"))
}

func TestSignIsDeterministic(t *testing.T) {
	signer, err := NewSigner(testKey(t))
	require.NoError(t, err)
	q := testQuote(t)

	first, err := signer.Sign(q)
	require.NoError(t, err)
	second, err := signer.Sign(q)
	require.NoError(t, err)

	assert.Equal(t, first.Signature, second.Signature)
	assert.Equal(t, first.Payload, second.Payload)
}

func TestSignProducesWireShape(t *testing.T) {
	signer, err := NewSigner(testKey(t))
	require.NoError(t, err)

	c, err := signer.Sign(testQuote(t))
	require.NoError(t, err)

	assert.Equal(t, "raw_ed25519", c.Standard)
	assert.True(t, strings.HasPrefix(c.Signature, "ed25519:"))
	assert.Equal(t, signer.PublicKey(), c.PublicKey)
	assert.Contains(t, c.Payload, `"signer_id":"alice.near"`)

	ok, err := VerifyCommitment(c)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTamperedPayloadFailsVerification(t *testing.T) {
	signer, err := NewSigner(testKey(t))
	require.NoError(t, err)

	c, err := signer.Sign(testQuote(t))
	require.NoError(t, err)

	tampered := *c
	tampered.Payload = strings.Replace(c.Payload, "alice.near", "mallory.near", 1)
	require.NotEqual(t, c.Payload, tampered.Payload)

	ok, err := VerifyCommitment(&tampered)
	require.NoError(t, err)
	assert.False(t, ok)
}
