package intent

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"near-intents/pkg/asset"
)

// NetworkNear is the native network keyword for withdrawals.
const NetworkNear = "near"

// withdrawMemoPrefix tags a bridged withdrawal with its foreign
// destination address.
const withdrawMemoPrefix = "WITHDRAW_TO:"

// BuildTokenDiffQuote builds a quote with a single token_diff intent:
// the signer gives up amountIn of assetIn and receives amountOut of
// assetOut. Amounts are base-unit integer strings.
func BuildTokenDiffQuote(signerID, verifyingContract, assetInID, amountIn, assetOutID, amountOut string, deadline time.Time) (*Quote, error) {
	if err := validateParties(signerID, verifyingContract); err != nil {
		return nil, err
	}
	if assetInID == assetOutID {
		return nil, fmt.Errorf("asset in and asset out must differ, got %s", assetInID)
	}
	if err := validateBaseAmount(amountIn); err != nil {
		return nil, fmt.Errorf("amount in: %w", err)
	}
	if err := validateBaseAmount(amountOut); err != nil {
		return nil, fmt.Errorf("amount out: %w", err)
	}
	if err := validateDeadline(deadline); err != nil {
		return nil, err
	}
	nonce, err := NewNonce()
	if err != nil {
		return nil, err
	}
	return &Quote{
		Nonce:             nonce,
		SignerID:          signerID,
		VerifyingContract: verifyingContract,
		Deadline:          strconv.FormatInt(deadline.UnixMilli(), 10),
		Intents: []Action{
			TokenDiff{Diff: map[string]string{
				assetInID:  "-" + amountIn,
				assetOutID: amountOut,
			}},
		},
	}, nil
}

// BuildWithdrawQuote builds a quote with a single ft_withdraw intent.
// For the native network the tokens go straight to the recipient. For
// any other network the token and receiver are retargeted to the
// asset's bridge alias and the memo carries the foreign destination.
func BuildWithdrawQuote(signerID, verifyingContract string, a asset.Asset, baseAmount, recipient, network string, deadline time.Time) (*Quote, error) {
	if err := validateParties(signerID, verifyingContract); err != nil {
		return nil, err
	}
	if recipient == "" {
		return nil, fmt.Errorf("recipient is required")
	}
	if err := validateBaseAmount(baseAmount); err != nil {
		return nil, err
	}
	if err := validateDeadline(deadline); err != nil {
		return nil, err
	}

	withdraw := Withdraw{
		Token:      a.TokenID,
		ReceiverID: recipient,
		Amount:     baseAmount,
	}
	if network = strings.ToLower(strings.TrimSpace(network)); network != "" && network != NetworkNear {
		bridge, err := a.BridgeAssetID()
		if err != nil {
			return nil, err
		}
		withdraw.Token = bridge
		withdraw.ReceiverID = bridge
		withdraw.Memo = withdrawMemoPrefix + recipient
	}

	nonce, err := NewNonce()
	if err != nil {
		return nil, err
	}
	return &Quote{
		Nonce:             nonce,
		SignerID:          signerID,
		VerifyingContract: verifyingContract,
		Deadline:          deadline.UTC().Format("2006-01-02T15:04:05.000Z"),
		Intents:           []Action{withdraw},
	}, nil
}

func validateParties(signerID, verifyingContract string) error {
	if signerID == "" {
		return fmt.Errorf("signer id is required")
	}
	if verifyingContract == "" {
		return fmt.Errorf("verifying contract is required")
	}
	return nil
}

func validateBaseAmount(amount string) error {
	if amount == "" {
		return fmt.Errorf("amount is required")
	}
	for _, r := range amount {
		if r < '0' || r > '9' {
			return fmt.Errorf("amount %q is not an unsigned base-unit integer", amount)
		}
	}
	return nil
}

func validateDeadline(deadline time.Time) error {
	if !deadline.After(time.Now()) {
		return fmt.Errorf("deadline %s is not in the future", deadline.Format(time.RFC3339))
	}
	return nil
}
