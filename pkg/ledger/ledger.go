// Package ledger talks to the NEAR chain on behalf of one account:
// view calls, signed function calls and the protocol constants the
// intents contracts expect.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
)

// Protocol parameters, not decision logic. Values from the intents
// contracts' requirements.
const (
	// MaxGas is 300 TGas, the per-call ceiling.
	MaxGas uint64 = 300_000_000_000_000
)

var (
	// StorageDeposit is the yoctoNEAR attached to storage_deposit:
	// 0.00125 NEAR.
	StorageDeposit, _ = new(big.Int).SetString("1250000000000000000000", 10)

	// OneYocto is the 1 yoctoNEAR attachment NEP-141 methods require as
	// proof of a full-access key.
	OneYocto = big.NewInt(1)

	// NoDeposit attaches nothing.
	NoDeposit = big.NewInt(0)
)

var (
	// ErrAlreadyRegistered reports that an idempotent registration
	// (storage or public key) was already done. Callers treat it as
	// success.
	ErrAlreadyRegistered = errors.New("already registered")

	// ErrCallFailed reports an on-chain execution failure.
	ErrCallFailed = errors.New("ledger call failed")
)

// CallOutcome is the result of a state-changing function call.
type CallOutcome struct {
	TxHash string
	Status json.RawMessage
}

// Account is the on-chain collaborator the orchestrator drives. Both
// methods block until the node answers; retry and timeout policy belong
// to the caller.
type Account interface {
	AccountID() string
	ViewFunction(ctx context.Context, contractID, method string, args interface{}) (json.RawMessage, error)
	FunctionCall(ctx context.Context, contractID, method string, args interface{}, gas uint64, deposit *big.Int) (*CallOutcome, error)
}

// Credentials is the NEAR credentials file layout
// (~/.near-credentials/<network>/<account>.json).
type Credentials struct {
	AccountID  string `json:"account_id"`
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
}

// LoadCredentials reads a NEAR credentials file. A leading "~" expands
// to the user's home directory.
func LoadCredentials(path string) (*Credentials, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file %s: %w", path, err)
	}
	if creds.AccountID == "" || creds.PrivateKey == "" {
		return nil, fmt.Errorf("credentials file %s is missing account_id or private_key", path)
	}
	return &creds, nil
}
