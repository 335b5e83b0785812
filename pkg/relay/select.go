package relay

import (
	"github.com/shopspring/decimal"
)

// SelectBestOption picks the option with the greatest amount_out: the
// most output for the fixed input is the economically correct choice.
// Ties keep the first-seen option. Options whose amount_out does not
// parse are skipped. Returns nil when no usable option exists.
func SelectBestOption(options []Option) *Option {
	var best *Option
	var bestOut decimal.Decimal
	for i := range options {
		out, err := decimal.NewFromString(options[i].AmountOut)
		if err != nil {
			continue
		}
		if best == nil || out.GreaterThan(bestOut) {
			best = &options[i]
			bestOut = out
		}
	}
	return best
}
