// Package evm probes ERC-20 balances on Ethereum-compatible chains,
// used to confirm arrival of cross-chain withdrawals.
package evm

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

const balanceOfABI = `[{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"type":"function"}]`

// BalanceChecker reads ERC-20 balances over an EVM RPC endpoint.
type BalanceChecker struct {
	client *ethclient.Client
}

// NewBalanceChecker connects to an EVM RPC endpoint.
func NewBalanceChecker(rpcURL string) (*BalanceChecker, error) {
	if rpcURL == "" {
		return nil, fmt.Errorf("EVM RPC URL is required")
	}
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to EVM RPC endpoint: %w", err)
	}
	return &BalanceChecker{client: client}, nil
}

// ERC20Balance returns the holder's balance of the given token.
func (c *BalanceChecker) ERC20Balance(ctx context.Context, tokenContract, holder string) (*big.Int, error) {
	if !common.IsHexAddress(tokenContract) {
		return nil, fmt.Errorf("invalid token contract address: %s", tokenContract)
	}
	if !common.IsHexAddress(holder) {
		return nil, fmt.Errorf("invalid holder address: %s", holder)
	}
	tokenAddress := common.HexToAddress(tokenContract)

	parsedABI, err := abi.JSON(strings.NewReader(balanceOfABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse balanceOf ABI: %w", err)
	}
	data, err := parsedABI.Pack("balanceOf", common.HexToAddress(holder))
	if err != nil {
		return nil, fmt.Errorf("failed to pack balanceOf data: %w", err)
	}

	result, err := c.client.CallContract(ctx, ethereum.CallMsg{
		To:   &tokenAddress,
		Data: data,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call balanceOf: %w", err)
	}
	return new(big.Int).SetBytes(result), nil
}

// Close releases the underlying RPC connection.
func (c *BalanceChecker) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// TokenAddressFromBridge extracts the foreign-chain token contract from
// an omft bridge alias, e.g. "eth-0xa0b8...eb48.omft.near" -> "0xa0b8...eb48".
func TokenAddressFromBridge(bridge string) (string, error) {
	dash := strings.Index(bridge, "-")
	dot := strings.Index(bridge, ".")
	if dash < 0 || dot < 0 || dot <= dash+1 {
		return "", fmt.Errorf("bridge alias %q has no embedded token address", bridge)
	}
	addr := bridge[dash+1 : dot]
	if !common.IsHexAddress(addr) {
		return "", fmt.Errorf("bridge alias %q has no embedded token address", bridge)
	}
	return addr, nil
}
