package ledger

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"go.uber.org/zap"
)

// DefaultRPCURL is the NEAR mainnet JSON-RPC endpoint.
const DefaultRPCURL = "https://rpc.mainnet.near.org"

const ed25519Prefix = "ed25519:"

// RPCAccount implements Account against a NEAR JSON-RPC node. View
// calls go through query/call_function; function calls are borsh-signed
// transactions submitted with broadcast_tx_commit.
type RPCAccount struct {
	rpcURL     string
	httpClient *http.Client
	accountID  string
	key        ed25519.PrivateKey
	publicKey  [32]byte
	logger     *zap.Logger
}

// NewRPCAccount builds an RPC-backed account from NEAR credentials.
func NewRPCAccount(rpcURL string, creds *Credentials, logger *zap.Logger) (*RPCAccount, error) {
	if rpcURL == "" {
		rpcURL = DefaultRPCURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	key, err := parsePrivateKey(creds.PrivateKey)
	if err != nil {
		return nil, err
	}
	a := &RPCAccount{
		rpcURL:     rpcURL,
		httpClient: &http.Client{},
		accountID:  creds.AccountID,
		key:        key,
		logger:     logger,
	}
	copy(a.publicKey[:], key.Public().(ed25519.PublicKey))
	return a, nil
}

func parsePrivateKey(privateKey string) (ed25519.PrivateKey, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(privateKey), ed25519Prefix)
	decoded, err := base58.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	switch len(decoded) {
	case ed25519.PrivateKeySize:
	case ed25519.SeedSize:
		decoded = ed25519.NewKeyFromSeed(decoded)
	default:
		return nil, fmt.Errorf("invalid private key: unexpected length %d", len(decoded))
	}
	return ed25519.PrivateKey(decoded), nil
}

// AccountID implements Account.
func (a *RPCAccount) AccountID() string { return a.accountID }

// PublicKey returns the account key in NEAR display format.
func (a *RPCAccount) PublicKey() string {
	return ed25519Prefix + base58.Encode(a.publicKey[:])
}

// ViewFunction calls a read-only contract method and returns its raw
// JSON return value.
func (a *RPCAccount) ViewFunction(ctx context.Context, contractID, method string, args interface{}) (json.RawMessage, error) {
	argsJSON, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal args for %s.%s: %w", contractID, method, err)
	}
	result, err := a.rpcCall(ctx, "query", map[string]interface{}{
		"request_type": "call_function",
		"finality":     "optimistic",
		"account_id":   contractID,
		"method_name":  method,
		"args_base64":  base64.StdEncoding.EncodeToString(argsJSON),
	})
	if err != nil {
		return nil, fmt.Errorf("view %s.%s: %w", contractID, method, err)
	}
	// call_function returns the value as an array of byte values.
	var view struct {
		Result []int `json:"result"`
	}
	if err := json.Unmarshal(result, &view); err != nil {
		return nil, fmt.Errorf("view %s.%s: unexpected result shape: %w", contractID, method, err)
	}
	value := make([]byte, len(view.Result))
	for i, b := range view.Result {
		value[i] = byte(b)
	}
	return value, nil
}

// FunctionCall signs and submits a state-changing contract call and
// waits for its outcome.
func (a *RPCAccount) FunctionCall(ctx context.Context, contractID, method string, args interface{}, gas uint64, deposit *big.Int) (*CallOutcome, error) {
	argsJSON, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal args for %s.%s: %w", contractID, method, err)
	}

	nonce, blockHash, err := a.accessKeyState(ctx)
	if err != nil {
		return nil, fmt.Errorf("call %s.%s: %w", contractID, method, err)
	}

	tx := &transaction{
		SignerID:   a.accountID,
		PublicKey:  a.publicKey,
		Nonce:      nonce + 1,
		ReceiverID: contractID,
		BlockHash:  blockHash,
		Actions: []functionCallAction{{
			MethodName: method,
			Args:       argsJSON,
			Gas:        gas,
			Deposit:    deposit,
		}},
	}
	signed, err := tx.signWith(a.key)
	if err != nil {
		return nil, fmt.Errorf("call %s.%s: %w", contractID, method, err)
	}

	a.logger.Debug("Submitting transaction",
		zap.String("receiver", contractID),
		zap.String("method", method),
		zap.Uint64("nonce", tx.Nonce),
	)

	result, err := a.rpcCall(ctx, "broadcast_tx_commit", []string{
		base64.StdEncoding.EncodeToString(signed),
	})
	if err != nil {
		return nil, fmt.Errorf("call %s.%s: %w", contractID, method, err)
	}

	var outcome struct {
		Transaction struct {
			Hash string `json:"hash"`
		} `json:"transaction"`
		Status json.RawMessage `json:"status"`
	}
	if err := json.Unmarshal(result, &outcome); err != nil {
		return nil, fmt.Errorf("call %s.%s: unexpected outcome shape: %w", contractID, method, err)
	}
	if err := classifyStatus(outcome.Status); err != nil {
		return nil, fmt.Errorf("call %s.%s: %w", contractID, method, err)
	}
	return &CallOutcome{TxHash: outcome.Transaction.Hash, Status: outcome.Status}, nil
}

// accessKeyState fetches the key's current nonce together with a recent
// block hash in one query.
func (a *RPCAccount) accessKeyState(ctx context.Context) (uint64, [32]byte, error) {
	var blockHash [32]byte
	result, err := a.rpcCall(ctx, "query", map[string]interface{}{
		"request_type": "view_access_key",
		"finality":     "final",
		"account_id":   a.accountID,
		"public_key":   a.PublicKey(),
	})
	if err != nil {
		return 0, blockHash, err
	}
	var key struct {
		Nonce     uint64 `json:"nonce"`
		BlockHash string `json:"block_hash"`
	}
	if err := json.Unmarshal(result, &key); err != nil {
		return 0, blockHash, fmt.Errorf("unexpected access key shape: %w", err)
	}
	raw, err := base58.Decode(key.BlockHash)
	if err != nil || len(raw) != len(blockHash) {
		return 0, blockHash, fmt.Errorf("invalid block hash %q", key.BlockHash)
	}
	copy(blockHash[:], raw)
	return key.Nonce, blockHash, nil
}

// classifyStatus turns an execution failure into a structured error.
// Registration conflicts become ErrAlreadyRegistered here so callers
// never have to match error text themselves.
func classifyStatus(status json.RawMessage) error {
	var s struct {
		Failure json.RawMessage `json:"Failure"`
	}
	if err := json.Unmarshal(status, &s); err != nil || s.Failure == nil {
		return nil
	}
	failure := string(s.Failure)
	if strings.Contains(failure, "already registered") || strings.Contains(failure, "already exists") {
		return ErrAlreadyRegistered
	}
	return fmt.Errorf("%w: %s", ErrCallFailed, failure)
}

type rpcRequest struct {
	ID      string      `json:"id"`
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

type rpcError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *rpcError) Error() string {
	if len(e.Data) > 0 {
		return fmt.Sprintf("rpc error %d: %s: %s", e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

func (a *RPCAccount) rpcCall(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	body, err := json.Marshal(rpcRequest{
		ID:      uuid.NewString(),
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %w", method, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.rpcURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", method, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("node unreachable: %s: %w", method, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("node unreachable: %s: %w", method, err)
	}

	var resp struct {
		Result json.RawMessage `json:"result"`
		Error  *rpcError       `json:"error"`
	}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unexpected node response for %s (status %d): %s", method, httpResp.StatusCode, respBody)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("%s: %w", method, resp.Error)
	}
	return resp.Result, nil
}
