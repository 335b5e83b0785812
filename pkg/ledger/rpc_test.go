package ledger

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"
)

func testCredentials(t *testing.T) *Credentials {
	t.Helper()
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(i)
	}
	key := ed25519.NewKeyFromSeed(seed)
	return &Credentials{
		AccountID:  "alice.near",
		PublicKey:  ed25519Prefix + base58.Encode(key.Public().(ed25519.PublicKey)),
		PrivateKey: ed25519Prefix + base58.Encode(key),
	}
}

type nodeRequest struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

func TestNewRPCAccountRejectsBadKey(t *testing.T) {
	_, err := NewRPCAccount("", &Credentials{AccountID: "a.near", PrivateKey: "ed25519:abc"}, nil)
	assert.Error(t, err)
}

func TestRPCAccountPublicKey(t *testing.T) {
	creds := testCredentials(t)
	account, err := NewRPCAccount("", creds, nil)
	require.NoError(t, err)
	assert.Equal(t, creds.PublicKey, account.PublicKey())
	assert.Equal(t, "alice.near", account.AccountID())
}

func TestViewFunctionDecodesByteArray(t *testing.T) {
	var captured nodeRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		// "100" as bytes
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","result":{"result":[34,49,48,48,34],"block_height":1}}`))
	}))
	defer server.Close()

	account, err := NewRPCAccount(server.URL, testCredentials(t), zap.NewNop())
	require.NoError(t, err)

	result, err := account.ViewFunction(context.Background(), "usdc.near", "ft_balance_of", map[string]interface{}{
		"account_id": "alice.near",
	})
	require.NoError(t, err)
	assert.Equal(t, `"100"`, string(result))

	assert.Equal(t, "query", captured.Method)
	var params struct {
		RequestType string `json:"request_type"`
		AccountID   string `json:"account_id"`
		MethodName  string `json:"method_name"`
		ArgsBase64  string `json:"args_base64"`
	}
	require.NoError(t, json.Unmarshal(captured.Params, &params))
	assert.Equal(t, "call_function", params.RequestType)
	assert.Equal(t, "usdc.near", params.AccountID)
	assert.Equal(t, "ft_balance_of", params.MethodName)
	args, err := base64.StdEncoding.DecodeString(params.ArgsBase64)
	require.NoError(t, err)
	assert.JSONEq(t, `{"account_id":"alice.near"}`, string(args))
}

func TestFunctionCallSignsAndSubmits(t *testing.T) {
	blockHash := make([]byte, 32)
	blockHash[0] = 9

	var submitted string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req nodeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		switch req.Method {
		case "query":
			_, _ = w.Write([]byte(`{"jsonrpc":"2.0","result":{"nonce":41,"block_hash":"` + base58.Encode(blockHash) + `","permission":"FullAccess"}}`))
		case "broadcast_tx_commit":
			var params []string
			require.NoError(t, json.Unmarshal(req.Params, &params))
			require.Len(t, params, 1)
			submitted = params[0]
			_, _ = w.Write([]byte(`{"jsonrpc":"2.0","result":{"transaction":{"hash":"9fDeadBeef"},"status":{"SuccessValue":""}}}`))
		default:
			t.Errorf("unexpected rpc method %s", req.Method)
		}
	}))
	defer server.Close()

	account, err := NewRPCAccount(server.URL, testCredentials(t), zap.NewNop())
	require.NoError(t, err)

	outcome, err := account.FunctionCall(context.Background(), "wrap.near", "near_deposit", map[string]interface{}{}, MaxGas, NoDeposit)
	require.NoError(t, err)
	assert.Equal(t, "9fDeadBeef", outcome.TxHash)

	raw, err := base64.StdEncoding.DecodeString(submitted)
	require.NoError(t, err)
	// reconstruct what signWith produced: nonce must be access key nonce + 1
	want := &transaction{
		SignerID:   "alice.near",
		PublicKey:  account.publicKey,
		Nonce:      42,
		ReceiverID: "wrap.near",
		Actions: []functionCallAction{{
			MethodName: "near_deposit",
			Args:       []byte(`{}`),
			Gas:        MaxGas,
			Deposit:    NoDeposit,
		}},
	}
	copy(want.BlockHash[:], blockHash)
	expected, err := want.signWith(account.key)
	require.NoError(t, err)
	assert.Equal(t, expected, raw)
}

func TestFunctionCallClassifiesFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req nodeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Method == "query" {
			_, _ = w.Write([]byte(`{"jsonrpc":"2.0","result":{"nonce":1,"block_hash":"` + base58.Encode(make([]byte, 32)) + `"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","result":{"transaction":{"hash":"h"},"status":{"Failure":{"ActionError":{"kind":"The account alice.near is already registered"}}}}}`))
	}))
	defer server.Close()

	account, err := NewRPCAccount(server.URL, testCredentials(t), zap.NewNop())
	require.NoError(t, err)

	_, err = account.FunctionCall(context.Background(), "usdc.near", "storage_deposit", map[string]interface{}{}, MaxGas, StorageDeposit)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestFunctionCallNodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","error":{"code":-32000,"message":"server error","data":"unknown access key"}}`))
	}))
	defer server.Close()

	account, err := NewRPCAccount(server.URL, testCredentials(t), zap.NewNop())
	require.NoError(t, err)

	_, err = account.FunctionCall(context.Background(), "wrap.near", "near_deposit", map[string]interface{}{}, MaxGas, NoDeposit)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown access key")
}

func TestLoadCredentials(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "account.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"account_id": "alice.near",
		"public_key": "ed25519:pub",
		"private_key": "ed25519:priv"
	}`), 0o600))

	creds, err := LoadCredentials(path)
	require.NoError(t, err)
	assert.Equal(t, "alice.near", creds.AccountID)
	assert.Equal(t, "ed25519:priv", creds.PrivateKey)
}

func TestLoadCredentialsMissingFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "account.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"account_id": "alice.near"}`), 0o600))

	_, err := LoadCredentials(path)
	assert.Error(t, err)
}

func TestLoadCredentialsMissingFile(t *testing.T) {
	_, err := LoadCredentials(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
