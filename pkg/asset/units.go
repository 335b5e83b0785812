package asset

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ToBaseUnits converts a human-readable decimal amount to an integer
// base-unit string, truncating toward zero. The arithmetic is exact
// decimal arithmetic: binary floats lose precision at 24 decimals, and
// the resulting string is signed byte-for-byte, so any divergence would
// invalidate the signature downstream.
func ToBaseUnits(amount string, decimals int32) (string, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return "", fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return d.Shift(decimals).Truncate(0).String(), nil
}

// FromBaseUnits converts an integer base-unit string back to a
// human-readable decimal amount.
func FromBaseUnits(raw string, decimals int32) (string, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return "", fmt.Errorf("invalid base-unit amount %q: %w", raw, err)
	}
	return d.Shift(-decimals).String(), nil
}
