package asset

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownAsset is returned when a symbol is not present in the registry.
// Lookups fail closed: a wrong identifier can misdirect funds, so nothing
// is ever defaulted silently.
var ErrUnknownAsset = errors.New("unknown asset")

// NativeAssetID is the identifier the solver bus uses for the chain's
// native token.
const NativeAssetID = "near"

// Asset describes one supported token.
type Asset struct {
	Symbol   string `mapstructure:"symbol"`
	TokenID  string `mapstructure:"token_id"` // NEP-141 contract account
	Bridge   string `mapstructure:"bridge"`   // omft alias for cross-chain withdrawals, optional
	Decimals int32  `mapstructure:"decimals"`
	Native   bool   `mapstructure:"native"`
}

// ID returns the asset identifier in the format expected by the solver
// bus: the bare chain keyword for the native token, "nep141:<contract>"
// for fungible tokens.
func (a Asset) ID() string {
	if a.Native {
		return NativeAssetID
	}
	return "nep141:" + a.TokenID
}

// BridgeAssetID returns the omft alias used when a withdrawal targets a
// network other than NEAR.
func (a Asset) BridgeAssetID() (string, error) {
	if a.Bridge == "" {
		return "", fmt.Errorf("asset %s has no bridge alias and cannot be withdrawn off NEAR", a.Symbol)
	}
	return a.Bridge, nil
}

func (a Asset) validate() error {
	if a.Symbol == "" {
		return fmt.Errorf("asset symbol is required")
	}
	if a.TokenID == "" {
		return fmt.Errorf("asset %s: token contract is required", a.Symbol)
	}
	if a.Decimals < 0 {
		return fmt.Errorf("asset %s: decimals must not be negative", a.Symbol)
	}
	return nil
}

// Registry maps token symbols to their protocol identifiers. It is
// loaded once at startup and read-only afterwards.
type Registry struct {
	assets map[string]Asset
}

// NewRegistry builds a registry from the given assets. Symbols are
// stored upper-case and matched case-insensitively.
func NewRegistry(assets ...Asset) (*Registry, error) {
	r := &Registry{assets: make(map[string]Asset, len(assets))}
	for _, a := range assets {
		if err := a.validate(); err != nil {
			return nil, err
		}
		symbol := strings.ToUpper(a.Symbol)
		if _, exists := r.assets[symbol]; exists {
			return nil, fmt.Errorf("duplicate asset symbol %s", symbol)
		}
		a.Symbol = symbol
		r.assets[symbol] = a
	}
	return r, nil
}

// Default returns a registry with the assets the protocol supports out
// of the box.
func Default() *Registry {
	r, err := NewRegistry(
		Asset{
			Symbol:   "NEAR",
			TokenID:  "wrap.near",
			Decimals: 24,
			Native:   true,
		},
		Asset{
			Symbol:   "USDC",
			TokenID:  "a0b86991c6218b36c1d19d4a2e9eb0ce3606eb48.factory.bridge.near",
			Bridge:   "eth-0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48.omft.near",
			Decimals: 6,
		},
	)
	if err != nil {
		panic(err) // static table, cannot fail
	}
	return r
}

// Resolve looks up an asset by symbol.
func (r *Registry) Resolve(symbol string) (Asset, error) {
	a, ok := r.assets[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return Asset{}, fmt.Errorf("%w: %s", ErrUnknownAsset, symbol)
	}
	return a, nil
}

// Normalize returns the solver-bus identifier for a symbol.
func (r *Registry) Normalize(symbol string) (string, error) {
	a, err := r.Resolve(symbol)
	if err != nil {
		return "", err
	}
	return a.ID(), nil
}

// ToBaseUnits resolves a symbol and scales the amount to its base units.
func (r *Registry) ToBaseUnits(symbol, amount string) (string, error) {
	a, err := r.Resolve(symbol)
	if err != nil {
		return "", err
	}
	return ToBaseUnits(amount, a.Decimals)
}

// Symbols returns the registered symbols in sorted order.
func (r *Registry) Symbols() []string {
	symbols := make([]string, 0, len(r.assets))
	for symbol := range r.assets {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}
