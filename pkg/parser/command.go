package parser

import (
	"fmt"
	"regexp"
	"strings"
)

// SwapArgs is a parsed swap command.
type SwapArgs struct {
	Amount   string
	AssetIn  string
	AssetOut string
}

// swapPattern matches "<amount> <token> TO <token>", e.g. "1 NEAR TO USDC".
var swapPattern = regexp.MustCompile(`^(\d+\.?\d*)\s+([A-Z0-9]+)\s+TO\s+([A-Z0-9]+)$`)

// ParseSwapCommand parses a natural language swap command
// Examples:
//   - "swap 1 NEAR to USDC"
//   - "1.5 NEAR to USDC"
//   - "100 USDC to NEAR"
func ParseSwapCommand(command string) (*SwapArgs, error) {
	// Normalize the command
	command = strings.TrimSpace(strings.ToUpper(command))

	// Remove the word "SWAP" if present at the beginning
	command = strings.TrimPrefix(command, "SWAP ")

	matches := swapPattern.FindStringSubmatch(command)
	if matches == nil {
		return nil, fmt.Errorf("invalid swap command format. Expected: 'swap <amount> <token> to <token>' (e.g., 'swap 1 NEAR to USDC')")
	}

	return &SwapArgs{
		Amount:   matches[1],
		AssetIn:  matches[2],
		AssetOut: matches[3],
	}, nil
}
