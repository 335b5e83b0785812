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

	"near-intents/config"
	"near-intents/pkg/asset"
	"near-intents/pkg/parser"
	"near-intents/pkg/relay"
)

var quoteCmd = &cobra.Command{
	Use:   "quote <amount> <source-token> to <dest-token>",
	Short: "Fetch solver quotes without executing anything",
	Long: `Ask the solver bus for quotes on a pair and show them. Nothing is
signed or published; no account credentials are needed.

Examples:
  near-intents quote 1 NEAR to USDC
  near-intents quote 250 USDC to NEAR --json`,
	Args: cobra.MinimumNArgs(1),
	Run:  runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)
}

func runQuote(cmd *cobra.Command, args []string) {
	swapArgs, err := parser.ParseSwapCommand(strings.Join(args, " "))
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	jsonOutput := flagBool(cmd, "json")
	logger := newLogger(cmd)

	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	registry, err := cfg.Registry()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	assetIn, err := registry.Resolve(swapArgs.AssetIn)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	assetOut, err := registry.Resolve(swapArgs.AssetOut)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	baseIn, err := asset.ToBaseUnits(swapArgs.Amount, assetIn.Decimals)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	req, err := relay.NewQuoteRequest(assetIn.ID(), baseIn, assetOut.ID(), "", cfg.Deadline)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Fetching quotes..."
		s.Start()
	}

	client := relay.NewClient(cfg.RelayURL, logger)
	options, err := client.FetchOptions(context.Background(), req)
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	best := relay.SelectBestOption(options)

	if jsonOutput {
		output := map[string]interface{}{
			"request": req,
			"options": options,
		}
		if best != nil {
			output["best"] = best
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	if len(options) == 0 {
		color.Yellow("\nNo solver offered a quote for %s -> %s.\n", assetIn.Symbol, assetOut.Symbol)
		return
	}

	fmt.Printf("\nQuotes for %s %s -> %s:\n\n", swapArgs.Amount, assetIn.Symbol, assetOut.Symbol)
	for i, opt := range options {
		marker := "  "
		if best != nil && opt.QuoteHash == best.QuoteHash {
			marker = color.GreenString("* ")
		}
		out := opt.AmountOut
		if display, err := asset.FromBaseUnits(opt.AmountOut, assetOut.Decimals); err == nil {
			out = display
		}
		fmt.Printf("%s%d. %s %s  (hash %s)\n", marker, i+1, out, assetOut.Symbol, opt.QuoteHash)
	}
	fmt.Println()
}
