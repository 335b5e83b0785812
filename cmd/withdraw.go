package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"near-intents/pkg/evm"
	"near-intents/pkg/intent"
	"near-intents/pkg/swap"
)

var (
	withdrawTo        string
	withdrawNetwork   string
	withdrawVerify    bool
	withdrawNoConfirm bool
)

var withdrawCmd = &cobra.Command{
	Use:   "withdraw <amount> <token>",
	Short: "Withdraw tokens to an address, optionally on another chain",
	Long: `Publish a signed withdrawal intent. Withdrawals to a foreign network
go through the cross-chain bridge: the intent is retargeted to the
bridge alias and carries the destination in its memo.

Examples:
  near-intents withdraw 5 USDC --to alice.near
  near-intents withdraw 10 USDC --to 0x1234... --network eth
  near-intents withdraw 10 USDC --to 0x1234... --network eth --verify`,
	Args: cobra.ExactArgs(2),
	Run:  runWithdraw,
}

func init() {
	rootCmd.AddCommand(withdrawCmd)

	withdrawCmd.Flags().StringVar(&withdrawTo, "to", "", "Recipient address (REQUIRED)")
	withdrawCmd.Flags().StringVar(&withdrawNetwork, "network", intent.NetworkNear, "Destination network (near, eth, ...)")
	withdrawCmd.Flags().BoolVar(&withdrawVerify, "verify", false, "Probe the recipient's ERC-20 balance after an eth withdrawal")
	withdrawCmd.Flags().BoolVarP(&withdrawNoConfirm, "yes", "y", false, "Skip confirmation prompt")
	_ = withdrawCmd.MarkFlagRequired("to")
}

func runWithdraw(cmd *cobra.Command, args []string) {
	amount, symbol := args[0], args[1]

	jsonOutput := flagBool(cmd, "json")
	logger := newLogger(cmd)

	orch, cfg, err := buildOrchestrator(logger)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if !withdrawNoConfirm && !jsonOutput {
		fmt.Printf("\nWithdraw %s %s to %s on %s.\n", amount, symbol, withdrawTo, withdrawNetwork)
		if !confirm("Proceed with withdrawal?") {
			fmt.Println("\nWithdrawal cancelled.")
			os.Exit(0)
		}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Publishing withdrawal..."
		s.Start()
	}

	result, err := orch.Withdraw(context.Background(), symbol, amount, withdrawTo, withdrawNetwork)
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		output := map[string]interface{}{
			"token":       result.Token,
			"receiver_id": result.ReceiverID,
			"amount":      result.Amount,
			"memo":        result.Memo,
			"response":    json.RawMessage(result.Response),
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	color.Green("\n✓ Withdrawal published")
	fmt.Printf("  Token:    %s\n", result.Token)
	fmt.Printf("  Receiver: %s\n", result.ReceiverID)
	if result.Memo != "" {
		fmt.Printf("  Memo:     %s\n", color.MagentaString(result.Memo))
	}
	fmt.Println()

	if withdrawVerify {
		verifyArrival(orch, cfg.EthRPCURL, symbol)
	}
}

// verifyArrival probes the recipient's ERC-20 balance on Ethereum so
// the user can see where the bridged funds will land.
func verifyArrival(orch *swap.Orchestrator, ethRPCURL, symbol string) {
	if withdrawNetwork != "eth" {
		color.Yellow("--verify only supports the eth network, skipping")
		return
	}
	if ethRPCURL == "" {
		color.Yellow("--verify needs eth_rpc_url configured, skipping")
		return
	}
	a, err := orch.Registry().Resolve(symbol)
	if err != nil {
		printError(err)
		return
	}
	bridge, err := a.BridgeAssetID()
	if err != nil {
		printError(err)
		return
	}
	tokenAddr, err := evm.TokenAddressFromBridge(bridge)
	if err != nil {
		printError(err)
		return
	}

	checker, err := evm.NewBalanceChecker(ethRPCURL)
	if err != nil {
		printError(err)
		return
	}
	defer checker.Close()

	balance, err := checker.ERC20Balance(context.Background(), tokenAddr, withdrawTo)
	if err != nil {
		printError(err)
		return
	}
	fmt.Printf("  Recipient's %s balance on eth: %s base units\n", symbol, balance.String())
	fmt.Println("  Bridged funds can take a few minutes to arrive; check again later.")
	fmt.Println()
}
