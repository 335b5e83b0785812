package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"near-intents/pkg/asset"
	"near-intents/pkg/parser"
	"near-intents/pkg/swap"
)

var swapNoConfirm bool

var swapCmd = &cobra.Command{
	Use:   "swap <amount> <source-token> to <dest-token>",
	Short: "Swap tokens through the solver bus",
	Long: `Swap deposited tokens by publishing a signed token-diff intent.

The solver bus is asked for quotes on the pair, the option with the
highest output is selected, and a signed intent bound to that option is
published for settlement.

Examples:
  near-intents swap 1 NEAR to USDC
  near-intents swap 100 USDC to NEAR --yes`,
	Args: cobra.MinimumNArgs(1),
	Run:  runSwap,
}

func init() {
	rootCmd.AddCommand(swapCmd)

	swapCmd.Flags().BoolVarP(&swapNoConfirm, "yes", "y", false, "Skip confirmation prompt")
}

func runSwap(cmd *cobra.Command, args []string) {
	// Parse the command
	commandStr := strings.Join(args, " ")
	swapArgs, err := parser.ParseSwapCommand(commandStr)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	jsonOutput := flagBool(cmd, "json")
	logger := newLogger(cmd)

	orch, _, err := buildOrchestrator(logger)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if !swapNoConfirm && !jsonOutput {
		fmt.Printf("\nSwap %s %s for %s at the best solver price.\n",
			swapArgs.Amount, swapArgs.AssetIn, swapArgs.AssetOut)
		if !confirm("Proceed with swap?") {
			fmt.Println("\nSwap cancelled.")
			os.Exit(0)
		}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Negotiating with solvers..."
		s.Start()
	}

	result, err := orch.Swap(context.Background(), swapArgs.AssetIn, swapArgs.Amount, swapArgs.AssetOut)
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		output := map[string]interface{}{
			"asset_in":   result.AssetIn,
			"asset_out":  result.AssetOut,
			"amount_in":  result.AmountIn,
			"amount_out": result.AmountOut,
			"quote_hash": result.QuoteHash,
			"response":   json.RawMessage(result.Response),
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                   SWAP PUBLISHED")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("\n  Sold:       %s %s\n", formatAmount(orch, result.AssetIn, result.AmountIn), color.YellowString(result.AssetIn))
	fmt.Printf("  Received:   ~%s %s\n", formatAmount(orch, result.AssetOut, result.AmountOut), color.YellowString(result.AssetOut))
	fmt.Printf("  Quote Hash: %s\n", color.CyanString(result.QuoteHash))
	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}

// formatAmount converts base units back to a display amount, falling
// back to the raw string when the symbol is unknown.
func formatAmount(orch *swap.Orchestrator, symbol, baseUnits string) string {
	a, err := orch.Registry().Resolve(symbol)
	if err != nil {
		return baseUnits
	}
	display, err := asset.FromBaseUnits(baseUnits, a.Decimals)
	if err != nil {
		return baseUnits
	}
	return display
}
