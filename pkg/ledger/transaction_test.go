package ledger

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/binary"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBorshPrimitives(t *testing.T) {
	w := &borshWriter{}
	w.str("abc")
	assert.Equal(t, []byte{3, 0, 0, 0, 'a', 'b', 'c'}, w.bytes())

	w = &borshWriter{}
	w.u64(1)
	assert.Equal(t, []byte{1, 0, 0, 0, 0, 0, 0, 0}, w.bytes())

	w = &borshWriter{}
	w.vec([]byte{0xff})
	assert.Equal(t, []byte{1, 0, 0, 0, 0xff}, w.bytes())
}

func TestBorshU128LittleEndian(t *testing.T) {
	w := &borshWriter{}
	require.NoError(t, w.u128(big.NewInt(1)))
	want := make([]byte, 16)
	want[0] = 1
	assert.Equal(t, want, w.bytes())

	w = &borshWriter{}
	require.NoError(t, w.u128(new(big.Int).SetUint64(0x0102030405060708)))
	assert.Equal(t, []byte{8, 7, 6, 5, 4, 3, 2, 1, 0, 0, 0, 0, 0, 0, 0, 0}, w.bytes())
}

func TestBorshU128Bounds(t *testing.T) {
	w := &borshWriter{}
	assert.Error(t, w.u128(big.NewInt(-1)))

	tooBig := new(big.Int).Lsh(big.NewInt(1), 128)
	assert.Error(t, w.u128(tooBig))

	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	assert.NoError(t, w.u128(max))
}

func testTransaction() *transaction {
	tx := &transaction{
		SignerID:   "alice.near",
		Nonce:      42,
		ReceiverID: "wrap.near",
		Actions: []functionCallAction{{
			MethodName: "near_deposit",
			Args:       []byte(`{}`),
			Gas:        MaxGas,
			Deposit:    big.NewInt(5),
		}},
	}
	for i := range tx.PublicKey {
		tx.PublicKey[i] = byte(i)
	}
	for i := range tx.BlockHash {
		tx.BlockHash[i] = byte(255 - i)
	}
	return tx
}

func TestTransactionSerialize(t *testing.T) {
	payload, err := testTransaction().serialize()
	require.NoError(t, err)

	// signer_id
	assert.Equal(t, []byte{10, 0, 0, 0}, payload[:4])
	assert.Equal(t, "alice.near", string(payload[4:14]))

	// key type prefix then the 32-byte key
	assert.Equal(t, byte(keyTypeED25519), payload[14])
	assert.Equal(t, byte(0), payload[15])
	assert.Equal(t, byte(31), payload[46])

	// nonce
	assert.Equal(t, uint64(42), binary.LittleEndian.Uint64(payload[47:55]))

	// one FunctionCall action at the tail
	actionCount := payload[len("alice.near")+4+1+32+8+len("wrap.near")+4+32:]
	assert.Equal(t, []byte{1, 0, 0, 0, actionFunctionCall}, actionCount[:5])
}

func TestTransactionSerializeIsDeterministic(t *testing.T) {
	first, err := testTransaction().serialize()
	require.NoError(t, err)
	second, err := testTransaction().serialize()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSignWithProducesVerifiableSignature(t *testing.T) {
	seed := make([]byte, ed25519.SeedSize)
	seed[0] = 7
	key := ed25519.NewKeyFromSeed(seed)

	tx := testTransaction()
	payload, err := tx.serialize()
	require.NoError(t, err)

	signed, err := tx.signWith(key)
	require.NoError(t, err)

	// layout: borsh payload, key type byte, 64-byte signature
	require.Len(t, signed, len(payload)+1+ed25519.SignatureSize)
	assert.Equal(t, payload, signed[:len(payload)])
	assert.Equal(t, byte(keyTypeED25519), signed[len(payload)])

	digest := sha256.Sum256(payload)
	sig := signed[len(payload)+1:]
	assert.True(t, ed25519.Verify(key.Public().(ed25519.PublicKey), digest[:], sig))
}

func TestClassifyStatus(t *testing.T) {
	assert.NoError(t, classifyStatus([]byte(`{"SuccessValue":""}`)))
	assert.NoError(t, classifyStatus([]byte(`"SuccessValue"`)))

	err := classifyStatus([]byte(`{"Failure":{"ActionError":{"kind":{"FunctionCallError":{"ExecutionError":"Smart contract panicked: The account is already registered"}}}}}`))
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	err = classifyStatus([]byte(`{"Failure":{"ActionError":{"kind":{"FunctionCallError":{"ExecutionError":"Exceeded the prepaid gas"}}}}}`))
	assert.ErrorIs(t, err, ErrCallFailed)
	assert.NotErrorIs(t, err, ErrAlreadyRegistered)
}
