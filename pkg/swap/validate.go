package swap

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"
)

// validateRecipient checks the recipient address shape for the target
// network before anything is signed. Only networks with a well-known
// address format are checked; others just need a non-empty recipient.
func validateRecipient(network, recipient string) error {
	if recipient == "" {
		return fmt.Errorf("recipient is required")
	}
	switch strings.ToLower(strings.TrimSpace(network)) {
	case "eth", "base", "arb":
		if !common.IsHexAddress(recipient) {
			return fmt.Errorf("recipient %q is not a valid EVM address", recipient)
		}
	case "sol":
		if _, err := solana.PublicKeyFromBase58(recipient); err != nil {
			return fmt.Errorf("recipient %q is not a valid Solana address: %w", recipient, err)
		}
	}
	return nil
}
