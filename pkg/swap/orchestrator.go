// Package swap sequences the intent pipeline: registry lookups, RFQ
// negotiation, quote signing and publication, plus the on-chain
// deposit path.
package swap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"near-intents/pkg/asset"
	"near-intents/pkg/intent"
	"near-intents/pkg/ledger"
	"near-intents/pkg/relay"
)

// DefaultVerifyingContract is the mainnet intents settlement contract.
const DefaultVerifyingContract = "intents.near"

var (
	// ErrInvalidAmount is returned for amounts that are not positive
	// decimals. Raised before any network call.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrNoLiquidity is returned when the solver bus has no usable
	// option for a pair. Nothing has been published or signed.
	ErrNoLiquidity = errors.New("no liquidity available")

	// ErrInsufficientBalance is returned when the account cannot cover
	// a deposit.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// RFQClient is the slice of the relay client the orchestrator uses.
type RFQClient interface {
	FetchOptions(ctx context.Context, req *relay.QuoteRequest) ([]relay.Option, error)
	PublishIntent(ctx context.Context, pub *relay.PublishIntent) (json.RawMessage, error)
}

// Orchestrator drives deposits, swaps and withdrawals for one account.
//
// Operations are sequential and share no state besides the on-chain
// balance; the nonce and registration checks race under concurrent use,
// so invocations for the same account must be serialized by the caller.
// No retries, timeouts or caching happen here.
type Orchestrator struct {
	registry *asset.Registry
	rfq      RFQClient
	signer   *intent.Signer
	account  ledger.Account
	contract string
	deadline time.Duration
	logger   *zap.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithVerifyingContract overrides the settlement contract.
func WithVerifyingContract(contract string) Option {
	return func(o *Orchestrator) { o.contract = contract }
}

// WithDeadline sets the quote deadline window.
func WithDeadline(d time.Duration) Option {
	return func(o *Orchestrator) { o.deadline = d }
}

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// New creates an orchestrator.
func New(registry *asset.Registry, rfq RFQClient, signer *intent.Signer, account ledger.Account, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		registry: registry,
		rfq:      rfq,
		signer:   signer,
		account:  account,
		contract: DefaultVerifyingContract,
		deadline: relay.DefaultMinDeadline,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Registry exposes the asset registry the orchestrator resolves
// against.
func (o *Orchestrator) Registry() *asset.Registry { return o.registry }

// SwapResult reports a published swap.
type SwapResult struct {
	AssetIn   string
	AssetOut  string
	AmountIn  string // base units given up
	AmountOut string // base units of the selected option
	QuoteHash string
	Response  json.RawMessage
}

// WithdrawResult reports a published withdrawal.
type WithdrawResult struct {
	Token      string
	ReceiverID string
	Amount     string // base units
	Memo       string
	Response   json.RawMessage
}

// Deposit moves tokens from the account into the settlement contract.
// Native NEAR is wrapped first. The storage registration for the
// settlement contract is ensured idempotently before the transfer.
func (o *Orchestrator) Deposit(ctx context.Context, symbol, amount string) (*ledger.CallOutcome, error) {
	a, err := o.registry.Resolve(symbol)
	if err != nil {
		return nil, err
	}
	if err := validatePositive(amount); err != nil {
		return nil, err
	}
	baseAmount, err := asset.ToBaseUnits(amount, a.Decimals)
	if err != nil {
		return nil, err
	}

	if !a.Native {
		if err := o.checkBalance(ctx, a, baseAmount); err != nil {
			return nil, err
		}
	}
	if err := o.ensureStorage(ctx, a, o.contract); err != nil {
		return nil, err
	}

	if a.Native {
		// Wrap before depositing; the settlement contract holds wNEAR.
		wrapDeposit, ok := new(big.Int).SetString(baseAmount, 10)
		if !ok {
			return nil, fmt.Errorf("invalid base amount %q", baseAmount)
		}
		o.logger.Info("Wrapping NEAR before deposit", zap.String("amount", baseAmount))
		if _, err := o.account.FunctionCall(ctx, a.TokenID, "near_deposit", map[string]interface{}{}, ledger.MaxGas, wrapDeposit); err != nil {
			return nil, err
		}
	}

	o.logger.Info("Depositing into settlement contract",
		zap.String("asset", a.Symbol),
		zap.String("amount", baseAmount),
	)
	return o.account.FunctionCall(ctx, a.TokenID, "ft_transfer_call", map[string]interface{}{
		"receiver_id": o.contract,
		"amount":      baseAmount,
		"msg":         "",
	}, ledger.MaxGas, ledger.OneYocto)
}

// Swap negotiates the pair over RFQ, signs a token-diff quote at the
// best offered output and publishes it bound to that offer's hash.
func (o *Orchestrator) Swap(ctx context.Context, inSymbol, amountIn, outSymbol string) (*SwapResult, error) {
	assetIn, err := o.registry.Resolve(inSymbol)
	if err != nil {
		return nil, err
	}
	assetOut, err := o.registry.Resolve(outSymbol)
	if err != nil {
		return nil, err
	}
	if err := validatePositive(amountIn); err != nil {
		return nil, err
	}
	baseIn, err := asset.ToBaseUnits(amountIn, assetIn.Decimals)
	if err != nil {
		return nil, err
	}

	for _, a := range []asset.Asset{assetIn, assetOut} {
		if err := o.ensureStorage(ctx, a, o.account.AccountID()); err != nil {
			return nil, err
		}
	}

	req, err := relay.NewQuoteRequest(assetIn.ID(), baseIn, assetOut.ID(), "", o.deadline)
	if err != nil {
		return nil, err
	}
	options, err := o.rfq.FetchOptions(ctx, req)
	if err != nil {
		return nil, err
	}
	best := relay.SelectBestOption(options)
	if best == nil {
		return nil, fmt.Errorf("%w for %s -> %s", ErrNoLiquidity, assetIn.Symbol, assetOut.Symbol)
	}
	o.logger.Info("Selected solver option",
		zap.String("quote_hash", best.QuoteHash),
		zap.String("amount_out", best.AmountOut),
		zap.Int("options", len(options)),
	)

	quote, err := intent.BuildTokenDiffQuote(
		o.account.AccountID(), o.contract,
		assetIn.ID(), baseIn,
		assetOut.ID(), best.AmountOut,
		time.Now().Add(o.deadline),
	)
	if err != nil {
		return nil, err
	}
	commitment, err := o.signer.Sign(quote)
	if err != nil {
		return nil, err
	}

	resp, err := o.rfq.PublishIntent(ctx, &relay.PublishIntent{
		SignedData:  commitment,
		QuoteHashes: []string{best.QuoteHash},
	})
	if err != nil {
		return nil, err
	}
	return &SwapResult{
		AssetIn:   assetIn.Symbol,
		AssetOut:  assetOut.Symbol,
		AmountIn:  baseIn,
		AmountOut: best.AmountOut,
		QuoteHash: best.QuoteHash,
		Response:  resp,
	}, nil
}

// Withdraw signs and publishes a withdrawal quote. Withdrawals are not
// RFQ-matched, so the publish carries no quote hashes.
func (o *Orchestrator) Withdraw(ctx context.Context, symbol, amount, recipient, network string) (*WithdrawResult, error) {
	a, err := o.registry.Resolve(symbol)
	if err != nil {
		return nil, err
	}
	if err := validatePositive(amount); err != nil {
		return nil, err
	}
	if err := validateRecipient(network, recipient); err != nil {
		return nil, err
	}
	baseAmount, err := asset.ToBaseUnits(amount, a.Decimals)
	if err != nil {
		return nil, err
	}

	quote, err := intent.BuildWithdrawQuote(
		o.account.AccountID(), o.contract,
		a, baseAmount, recipient, network,
		time.Now().Add(o.deadline),
	)
	if err != nil {
		return nil, err
	}
	commitment, err := o.signer.Sign(quote)
	if err != nil {
		return nil, err
	}

	withdraw := quote.Intents[0].(intent.Withdraw)
	o.logger.Info("Publishing withdrawal",
		zap.String("token", withdraw.Token),
		zap.String("receiver", withdraw.ReceiverID),
		zap.String("amount", baseAmount),
	)
	resp, err := o.rfq.PublishIntent(ctx, &relay.PublishIntent{
		SignedData:  commitment,
		QuoteHashes: []string{},
	})
	if err != nil {
		return nil, err
	}
	return &WithdrawResult{
		Token:      withdraw.Token,
		ReceiverID: withdraw.ReceiverID,
		Amount:     baseAmount,
		Memo:       withdraw.Memo,
		Response:   resp,
	}, nil
}

// RegisterPublicKey registers the signing key with the settlement
// contract. An existing registration counts as success.
func (o *Orchestrator) RegisterPublicKey(ctx context.Context) error {
	_, err := o.account.FunctionCall(ctx, o.contract, "add_public_key", map[string]interface{}{
		"public_key": o.signer.PublicKey(),
	}, ledger.MaxGas, ledger.OneYocto)
	if errors.Is(err, ledger.ErrAlreadyRegistered) {
		o.logger.Debug("Public key already registered")
		return nil
	}
	return err
}

// ensureStorage registers forAccount with the token contract if it is
// not registered yet. The read-then-write is racy under concurrent use
// of the same account; storage_deposit itself is idempotent on chain.
func (o *Orchestrator) ensureStorage(ctx context.Context, a asset.Asset, forAccount string) error {
	balance, err := o.account.ViewFunction(ctx, a.TokenID, "storage_balance_of", map[string]interface{}{
		"account_id": forAccount,
	})
	if err != nil {
		return err
	}
	if registered(balance) {
		return nil
	}
	o.logger.Info("Registering token storage",
		zap.String("asset", a.Symbol),
		zap.String("account", forAccount),
	)
	_, err = o.account.FunctionCall(ctx, a.TokenID, "storage_deposit", map[string]interface{}{
		"account_id": forAccount,
	}, ledger.MaxGas, ledger.StorageDeposit)
	if errors.Is(err, ledger.ErrAlreadyRegistered) {
		return nil
	}
	return err
}

// checkBalance verifies the account holds at least baseAmount of the
// token.
func (o *Orchestrator) checkBalance(ctx context.Context, a asset.Asset, baseAmount string) error {
	raw, err := o.account.ViewFunction(ctx, a.TokenID, "ft_balance_of", map[string]interface{}{
		"account_id": o.account.AccountID(),
	})
	if err != nil {
		return err
	}
	var balanceStr string
	if err := json.Unmarshal(raw, &balanceStr); err != nil {
		return fmt.Errorf("unexpected ft_balance_of result %q: %w", raw, err)
	}
	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return fmt.Errorf("unexpected ft_balance_of result %q: %w", balanceStr, err)
	}
	needed, err := decimal.NewFromString(baseAmount)
	if err != nil {
		return err
	}
	if balance.LessThan(needed) {
		return fmt.Errorf("%w: have %s, need %s %s base units", ErrInsufficientBalance, balanceStr, baseAmount, a.Symbol)
	}
	return nil
}

// registered interprets a storage_balance_of result: null means not
// registered.
func registered(result json.RawMessage) bool {
	trimmed := string(result)
	return trimmed != "" && trimmed != "null"
}

func validatePositive(amount string) error {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return fmt.Errorf("%w: %q is not a decimal number", ErrInvalidAmount, amount)
	}
	if !d.IsPositive() {
		return fmt.Errorf("%w: got %s", ErrInvalidAmount, amount)
	}
	return nil
}
